package iyzico

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/furkanczay/better-pay/provider"
	"github.com/google/uuid"
)

const (
	endpointPayment        = "/payment/auth"
	endpoint3DInit         = "/payment/3dsecure/initialize"
	endpoint3DComplete     = "/payment/3dsecure/auth"
	endpointRefund         = "/payment/refund"
	endpointCancel         = "/payment/cancel"
	endpointRetrieve       = "/payment/detail"
	endpointBinCheck       = "/payment/bin/check"
	endpointInstallment    = "/payment/iyzipos/installment"
	endpointCheckoutInit   = "/payment/iyzipos/checkoutform/initialize/auth/ecom"
	endpointCheckoutDetail = "/payment/iyzipos/checkoutform/auth/ecom/detail"
	endpointPWIInit        = "/payment/iyzipos/item/initialize"
	endpointPWIDetail      = "/payment/iyzipos/item/detail"

	endpointSubscriptionInit     = "/v2/subscription/initialize"
	endpointSubscriptionProducts = "/v2/subscription/products"
	endpointSubscriptions        = "/v2/subscription/subscriptions"
	endpointSubscriptionCard     = "/v2/subscription/card-update/checkoutform/initialize"

	statusSuccess = "success"
	statusFailure = "failure"

	defaultLocale = "tr"
)

// IyzicoProvider talks to the iyzico REST gateway: JSON bodies with an
// HMAC authorization header per request
type IyzicoProvider struct {
	apiKey    string
	secretKey string
	locale    string
	client    *provider.HTTPClient
}

// NewProvider creates an unconfigured iyzico provider
func NewProvider() provider.PaymentProvider {
	return &IyzicoProvider{}
}

// GetRequiredConfig lists the credentials Initialize expects
func (p *IyzicoProvider) GetRequiredConfig() []provider.ConfigField {
	return []provider.ConfigField{
		{
			Key:         "apiKey",
			EnvVar:      "IYZICO_API_KEY",
			Required:    true,
			Description: "API key from the iyzico merchant panel",
			Example:     "sandbox-BIOoONNaqF8UZZmP3",
		},
		{
			Key:         "secretKey",
			EnvVar:      "IYZICO_SECRET_KEY",
			Required:    true,
			Description: "Secret key from the iyzico merchant panel",
			Example:     "sandbox-NjQwOTRkMDBkZmE1",
		},
		{
			Key:         "baseUrl",
			EnvVar:      "IYZICO_BASE_URL",
			Required:    true,
			Description: "Gateway base URL",
			Example:     "https://sandbox-api.iyzipay.com",
		},
		{
			Key:      "locale",
			EnvVar:   "IYZICO_LOCALE",
			Required: false,
			Example:  "tr",
		},
	}
}

// Initialize configures the provider and validates its credentials
func (p *IyzicoProvider) Initialize(conf map[string]string) error {
	if err := provider.ValidateConfigFields("iyzico", conf, p.GetRequiredConfig()); err != nil {
		return err
	}

	p.apiKey = conf["apiKey"]
	p.secretKey = conf["secretKey"]
	p.locale = conf["locale"]
	if p.locale == "" {
		p.locale = defaultLocale
	}

	p.client = provider.NewHTTPClient(&provider.HTTPClientConfig{
		BaseURL: conf["baseUrl"],
	})

	return nil
}

func mapStatus(status string) provider.PaymentStatus {
	switch status {
	case statusSuccess:
		return provider.StatusSuccess
	case statusFailure:
		return provider.StatusFailure
	default:
		return provider.StatusPending
	}
}

// rawJSON keeps the provider payload verbatim when it is valid JSON
func rawJSON(body []byte) json.RawMessage {
	if len(body) == 0 || !json.Valid(body) {
		return nil
	}
	return json.RawMessage(body)
}

// send marshals payload once and signs exactly those bytes; the gateway
// rejects any request whose body differs from what the signature covers.
func (p *IyzicoProvider) send(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("iyzico: failed to marshal request: %w", err)
	}

	resp, err := p.client.SendJSON(ctx, &provider.HTTPRequest{
		Method:   http.MethodPost,
		Endpoint: endpoint,
		Headers:  buildHeaders(p.apiKey, p.secretKey, endpoint, string(body)),
		Body:     body,
	})
	if err != nil {
		if resp != nil {
			return resp.Body, err
		}
		return nil, err
	}

	return resp.Body, nil
}

type paymentResult struct {
	Status         string `json:"status"`
	PaymentID      string `json:"paymentId"`
	ConversationID string `json:"conversationId"`
	ErrorCode      string `json:"errorCode"`
	ErrorMessage   string `json:"errorMessage"`
	ErrorGroup     string `json:"errorGroup"`
}

func (p *IyzicoProvider) conversationID(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}

func (p *IyzicoProvider) mapToGatewayRequest(request provider.PaymentRequest) map[string]any {
	installment := request.Installment
	if installment == 0 {
		installment = 1
	}

	basketItems := make([]map[string]any, 0, len(request.BasketItems))
	for _, item := range request.BasketItems {
		basketItems = append(basketItems, map[string]any{
			"id":        item.ID,
			"name":      item.Name,
			"category1": item.Category1,
			"category2": item.Category2,
			"itemType":  string(item.ItemType),
			"price":     item.Price,
		})
	}

	return map[string]any{
		"locale":         p.requestLocale(request.Locale),
		"conversationId": p.conversationID(request.ConversationID),
		"price":          request.Price,
		"paidPrice":      request.PaidPrice,
		"currency":       string(request.Currency),
		"installment":    installment,
		"basketId":       request.BasketID,
		"paymentChannel": "WEB",
		"paymentGroup":   "PRODUCT",
		"paymentCard": map[string]any{
			"cardHolderName": request.PaymentCard.CardHolderName,
			"cardNumber":     request.PaymentCard.CardNumber,
			"expireMonth":    request.PaymentCard.ExpireMonth,
			"expireYear":     request.PaymentCard.ExpireYear,
			"cvc":            request.PaymentCard.CVC,
			"registerCard":   request.PaymentCard.RegisterCard,
		},
		"buyer":           mapBuyer(request.Buyer),
		"shippingAddress": mapAddress(request.ShippingAddr),
		"billingAddress":  mapAddress(request.BillingAddr),
		"basketItems":     basketItems,
	}
}

func (p *IyzicoProvider) requestLocale(locale string) string {
	if locale != "" {
		return locale
	}
	return p.locale
}

func mapBuyer(b provider.Buyer) map[string]any {
	return map[string]any{
		"id":                  b.ID,
		"name":                b.Name,
		"surname":             b.Surname,
		"gsmNumber":           b.GsmNumber,
		"email":               b.Email,
		"identityNumber":      b.IdentityNumber,
		"registrationAddress": b.RegistrationAddress,
		"ip":                  b.IP,
		"city":                b.City,
		"country":             b.Country,
		"zipCode":             b.ZipCode,
	}
}

func mapAddress(a provider.Address) map[string]any {
	return map[string]any{
		"contactName": a.ContactName,
		"city":        a.City,
		"country":     a.Country,
		"address":     a.Address,
		"zipCode":     a.ZipCode,
	}
}

func (p *IyzicoProvider) sendPayment(ctx context.Context, endpoint string, payload any) (*provider.PaymentResponse, error) {
	body, err := p.send(ctx, endpoint, payload)
	if err != nil {
		return &provider.PaymentResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: err.Error(),
			RawResponse:  rawJSON(body),
		}, nil
	}

	var result paymentResult
	if err := json.Unmarshal(body, &result); err != nil {
		return &provider.PaymentResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: fmt.Sprintf("iyzico: unexpected response: %v", err),
			RawResponse:  rawJSON(body),
		}, nil
	}

	return &provider.PaymentResponse{
		Status:         mapStatus(result.Status),
		PaymentID:      result.PaymentID,
		ConversationID: result.ConversationID,
		ErrorCode:      result.ErrorCode,
		ErrorMessage:   result.ErrorMessage,
		ErrorGroup:     result.ErrorGroup,
		RawResponse:    rawJSON(body),
	}, nil
}

// CreatePayment makes a direct charge without 3D Secure
func (p *IyzicoProvider) CreatePayment(ctx context.Context, request provider.PaymentRequest) (*provider.PaymentResponse, error) {
	return p.sendPayment(ctx, endpointPayment, p.mapToGatewayRequest(request))
}

// InitThreeDSPayment starts a 3D Secure flow. The gateway returns the
// bank authentication page base64 encoded; it is decoded here, and on
// decode failure the raw content is passed through unmodified.
func (p *IyzicoProvider) InitThreeDSPayment(ctx context.Context, request provider.ThreeDSPaymentRequest) (*provider.ThreeDSInitResponse, error) {
	if request.CallbackURL == "" {
		return nil, errors.New("iyzico: callbackUrl is required for 3D Secure payments")
	}

	payload := p.mapToGatewayRequest(request.PaymentRequest)
	payload["callbackUrl"] = request.CallbackURL

	body, err := p.send(ctx, endpoint3DInit, payload)
	if err != nil {
		return &provider.ThreeDSInitResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: err.Error(),
			RawResponse:  rawJSON(body),
		}, nil
	}

	var result struct {
		paymentResult
		ThreeDSHTMLContent string `json:"threeDSHtmlContent"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return &provider.ThreeDSInitResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: fmt.Sprintf("iyzico: unexpected response: %v", err),
			RawResponse:  rawJSON(body),
		}, nil
	}

	htmlContent := result.ThreeDSHTMLContent
	if htmlContent != "" {
		if decoded, decErr := base64.StdEncoding.DecodeString(htmlContent); decErr == nil {
			htmlContent = string(decoded)
		}
	}

	return &provider.ThreeDSInitResponse{
		Status:             mapStatus(result.Status),
		ThreeDSHTMLContent: htmlContent,
		PaymentID:          result.PaymentID,
		ConversationID:     result.ConversationID,
		ErrorCode:          result.ErrorCode,
		ErrorMessage:       result.ErrorMessage,
		RawResponse:        rawJSON(body),
	}, nil
}

// CompleteThreeDSPayment finishes a 3D Secure flow. The gateway verifies
// the authentication server-side, so completion round-trips the callback
// token rather than checking a local hash.
func (p *IyzicoProvider) CompleteThreeDSPayment(ctx context.Context, callback provider.CallbackData) (*provider.PaymentResponse, error) {
	if callback["paymentId"] == "" {
		return nil, errors.New("iyzico: paymentId is required to complete a 3D Secure payment")
	}

	return p.sendPayment(ctx, endpoint3DComplete, map[string]any{
		"locale":           p.locale,
		"conversationId":   callback["conversationId"],
		"paymentId":        callback["paymentId"],
		"conversationData": callback["conversationData"],
	})
}

// Refund returns money on a settled payment transaction
func (p *IyzicoProvider) Refund(ctx context.Context, request provider.RefundRequest) (*provider.RefundResponse, error) {
	if request.PaymentID == "" {
		return nil, errors.New("iyzico: paymentId is required for refund")
	}

	body, err := p.send(ctx, endpointRefund, map[string]any{
		"locale":               p.locale,
		"conversationId":       request.ConversationID,
		"paymentTransactionId": request.PaymentID,
		"price":                request.Price,
		"currency":             string(request.Currency),
		"ip":                   request.IP,
	})
	if err != nil {
		return &provider.RefundResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: err.Error(),
			RawResponse:  rawJSON(body),
		}, nil
	}

	var result struct {
		paymentResult
		PaymentTransactionID string `json:"paymentTransactionId"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return &provider.RefundResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: fmt.Sprintf("iyzico: unexpected response: %v", err),
			RawResponse:  rawJSON(body),
		}, nil
	}

	return &provider.RefundResponse{
		Status:         mapStatus(result.Status),
		RefundID:       result.PaymentTransactionID,
		ConversationID: result.ConversationID,
		ErrorCode:      result.ErrorCode,
		ErrorMessage:   result.ErrorMessage,
		RawResponse:    rawJSON(body),
	}, nil
}

// Cancel voids a payment before settlement
func (p *IyzicoProvider) Cancel(ctx context.Context, request provider.CancelRequest) (*provider.CancelResponse, error) {
	if request.PaymentID == "" {
		return nil, errors.New("iyzico: paymentId is required for cancel")
	}

	body, err := p.send(ctx, endpointCancel, map[string]any{
		"locale":         p.locale,
		"conversationId": request.ConversationID,
		"paymentId":      request.PaymentID,
		"ip":             request.IP,
	})
	if err != nil {
		return &provider.CancelResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: err.Error(),
			RawResponse:  rawJSON(body),
		}, nil
	}

	var result paymentResult
	if err := json.Unmarshal(body, &result); err != nil {
		return &provider.CancelResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: fmt.Sprintf("iyzico: unexpected response: %v", err),
			RawResponse:  rawJSON(body),
		}, nil
	}

	return &provider.CancelResponse{
		Status:         mapStatus(result.Status),
		ConversationID: result.ConversationID,
		ErrorCode:      result.ErrorCode,
		ErrorMessage:   result.ErrorMessage,
		RawResponse:    rawJSON(body),
	}, nil
}

// GetPayment queries the current state of a payment
func (p *IyzicoProvider) GetPayment(ctx context.Context, paymentID string) (*provider.PaymentResponse, error) {
	if paymentID == "" {
		return nil, errors.New("iyzico: paymentId is required")
	}

	return p.sendPayment(ctx, endpointRetrieve, map[string]any{
		"locale":    p.locale,
		"paymentId": paymentID,
	})
}

// BinCheck resolves card metadata for a BIN prefix
func (p *IyzicoProvider) BinCheck(ctx context.Context, binNumber string) (*provider.BinCheckResponse, error) {
	if binNumber == "" {
		return nil, errors.New("iyzico: binNumber is required")
	}

	body, err := p.send(ctx, endpointBinCheck, map[string]any{
		"locale":         p.locale,
		"conversationId": uuid.New().String(),
		"binNumber":      binNumber,
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		Status          string `json:"status"`
		ErrorMessage    string `json:"errorMessage"`
		BinNumber       string `json:"binNumber"`
		CardType        string `json:"cardType"`
		CardAssociation string `json:"cardAssociation"`
		CardFamily      string `json:"cardFamily"`
		BankName        string `json:"bankName"`
		BankCode        int    `json:"bankCode"`
		Commercial      int    `json:"commercial"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("iyzico: unexpected response: %w", err)
	}

	if result.Status != statusSuccess {
		if result.ErrorMessage != "" {
			return nil, fmt.Errorf("iyzico: %s", result.ErrorMessage)
		}
		return nil, errors.New("iyzico: BIN check failed")
	}

	binNum := result.BinNumber
	if binNum == "" {
		binNum = binNumber
	}

	return &provider.BinCheckResponse{
		BinNumber:       binNum,
		CardType:        result.CardType,
		CardAssociation: result.CardAssociation,
		CardFamily:      result.CardFamily,
		BankName:        result.BankName,
		BankCode:        result.BankCode,
		Commercial:      result.Commercial == 1,
		RawResponse:     rawJSON(body),
	}, nil
}

// InstallmentInfo lists per-bank installment offers for a BIN and amount
func (p *IyzicoProvider) InstallmentInfo(ctx context.Context, request provider.InstallmentInfoRequest) (*provider.InstallmentInfoResponse, error) {
	body, err := p.send(ctx, endpointInstallment, map[string]any{
		"locale":         p.locale,
		"conversationId": request.ConversationID,
		"binNumber":      request.BinNumber,
		"price":          request.Price,
	})
	if err != nil {
		return &provider.InstallmentInfoResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: err.Error(),
			RawResponse:  rawJSON(body),
		}, nil
	}

	var result struct {
		Status             string `json:"status"`
		ConversationID     string `json:"conversationId"`
		ErrorCode          string `json:"errorCode"`
		ErrorMessage       string `json:"errorMessage"`
		InstallmentDetails []struct {
			BinNumber         string      `json:"binNumber"`
			Price             json.Number `json:"price"`
			CardType          string      `json:"cardType"`
			CardAssociation   string      `json:"cardAssociation"`
			CardFamilyName    string      `json:"cardFamilyName"`
			BankName          string      `json:"bankName"`
			BankCode          int         `json:"bankCode"`
			InstallmentPrices []struct {
				InstallmentNumber int         `json:"installmentNumber"`
				TotalPrice        json.Number `json:"totalPrice"`
				InstallmentPrice  json.Number `json:"installmentPrice"`
			} `json:"installmentPrices"`
		} `json:"installmentDetails"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return &provider.InstallmentInfoResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: fmt.Sprintf("iyzico: unexpected response: %v", err),
			RawResponse:  rawJSON(body),
		}, nil
	}

	details := make([]provider.InstallmentDetail, 0, len(result.InstallmentDetails))
	for _, d := range result.InstallmentDetails {
		prices := make([]provider.InstallmentPrice, 0, len(d.InstallmentPrices))
		for _, ip := range d.InstallmentPrices {
			prices = append(prices, provider.InstallmentPrice{
				InstallmentNumber: ip.InstallmentNumber,
				TotalPrice:        ip.TotalPrice.String(),
				InstallmentPrice:  ip.InstallmentPrice.String(),
			})
		}
		details = append(details, provider.InstallmentDetail{
			BinNumber:         d.BinNumber,
			Price:             d.Price.String(),
			CardType:          d.CardType,
			CardAssociation:   d.CardAssociation,
			CardFamilyName:    d.CardFamilyName,
			BankName:          d.BankName,
			BankCode:          d.BankCode,
			InstallmentPrices: prices,
		})
	}

	return &provider.InstallmentInfoResponse{
		Status:             mapStatus(result.Status),
		InstallmentDetails: details,
		ConversationID:     result.ConversationID,
		ErrorCode:          result.ErrorCode,
		ErrorMessage:       result.ErrorMessage,
		RawResponse:        rawJSON(body),
	}, nil
}

// InitCheckoutForm starts a hosted checkout form session
func (p *IyzicoProvider) InitCheckoutForm(ctx context.Context, request provider.CheckoutFormRequest) (*provider.CheckoutFormInitResponse, error) {
	if request.CallbackURL == "" {
		return nil, errors.New("iyzico: callbackUrl is required for checkout form")
	}

	basketItems := make([]map[string]any, 0, len(request.BasketItems))
	for _, item := range request.BasketItems {
		basketItems = append(basketItems, map[string]any{
			"id":        item.ID,
			"name":      item.Name,
			"category1": item.Category1,
			"category2": item.Category2,
			"itemType":  string(item.ItemType),
			"price":     item.Price,
		})
	}

	payload := map[string]any{
		"locale":          p.requestLocale(request.Locale),
		"conversationId":  p.conversationID(request.ConversationID),
		"price":           request.Price,
		"paidPrice":       request.PaidPrice,
		"currency":        string(request.Currency),
		"basketId":        request.BasketID,
		"paymentGroup":    "PRODUCT",
		"paymentChannel":  "WEB",
		"callbackUrl":     request.CallbackURL,
		"buyer":           mapBuyer(request.Buyer),
		"shippingAddress": mapAddress(request.ShippingAddr),
		"billingAddress":  mapAddress(request.BillingAddr),
		"basketItems":     basketItems,
	}
	if len(request.EnabledInstallments) > 0 {
		payload["enabledInstallments"] = request.EnabledInstallments
	}

	body, err := p.send(ctx, endpointCheckoutInit, payload)
	if err != nil {
		return &provider.CheckoutFormInitResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: err.Error(),
			RawResponse:  rawJSON(body),
		}, nil
	}

	var result struct {
		paymentResult
		CheckoutFormContent string `json:"checkoutFormContent"`
		PaymentPageURL      string `json:"paymentPageUrl"`
		Token               string `json:"token"`
		TokenExpireTime     int64  `json:"tokenExpireTime"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return &provider.CheckoutFormInitResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: fmt.Sprintf("iyzico: unexpected response: %v", err),
			RawResponse:  rawJSON(body),
		}, nil
	}

	return &provider.CheckoutFormInitResponse{
		Status:              mapStatus(result.Status),
		CheckoutFormContent: result.CheckoutFormContent,
		PaymentPageURL:      result.PaymentPageURL,
		Token:               result.Token,
		TokenExpireTime:     result.TokenExpireTime,
		ConversationID:      result.ConversationID,
		ErrorCode:           result.ErrorCode,
		ErrorMessage:        result.ErrorMessage,
		RawResponse:         rawJSON(body),
	}, nil
}

// RetrieveCheckoutForm queries the settled result of a checkout form
func (p *IyzicoProvider) RetrieveCheckoutForm(ctx context.Context, token, conversationID string) (*provider.CheckoutFormRetrieveResponse, error) {
	if token == "" {
		return nil, errors.New("iyzico: token is required")
	}

	body, err := p.send(ctx, endpointCheckoutDetail, map[string]any{
		"locale":         p.locale,
		"conversationId": conversationID,
		"token":          token,
	})
	if err != nil {
		return &provider.CheckoutFormRetrieveResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: err.Error(),
			RawResponse:  rawJSON(body),
		}, nil
	}

	var result struct {
		paymentResult
		PaymentStatus        string      `json:"paymentStatus"`
		Price                json.Number `json:"price"`
		PaidPrice            json.Number `json:"paidPrice"`
		Currency             string      `json:"currency"`
		BasketID             string      `json:"basketId"`
		Installment          int         `json:"installment"`
		BinNumber            string      `json:"binNumber"`
		LastFourDigits       string      `json:"lastFourDigits"`
		CardType             string      `json:"cardType"`
		CardAssociation      string      `json:"cardAssociation"`
		CardFamily           string      `json:"cardFamily"`
		CardToken            string      `json:"cardToken"`
		CardUserKey          string      `json:"cardUserKey"`
		FraudStatus          int         `json:"fraudStatus"`
		PaymentTransactionID string      `json:"paymentTransactionId"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return &provider.CheckoutFormRetrieveResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: fmt.Sprintf("iyzico: unexpected response: %v", err),
			RawResponse:  rawJSON(body),
		}, nil
	}

	return &provider.CheckoutFormRetrieveResponse{
		Status:               mapStatus(result.Status),
		PaymentID:            result.PaymentID,
		PaymentStatus:        result.PaymentStatus,
		Price:                result.Price.String(),
		PaidPrice:            result.PaidPrice.String(),
		Currency:             result.Currency,
		BasketID:             result.BasketID,
		Installment:          result.Installment,
		BinNumber:            result.BinNumber,
		LastFourDigits:       result.LastFourDigits,
		CardType:             result.CardType,
		CardAssociation:      result.CardAssociation,
		CardFamily:           result.CardFamily,
		CardToken:            result.CardToken,
		CardUserKey:          result.CardUserKey,
		FraudStatus:          result.FraudStatus,
		PaymentTransactionID: result.PaymentTransactionID,
		ConversationID:       result.ConversationID,
		ErrorCode:            result.ErrorCode,
		ErrorMessage:         result.ErrorMessage,
		RawResponse:          rawJSON(body),
	}, nil
}

// InitPWIPayment starts a protected bank transfer payment. The payer is
// shown an IBAN to transfer to; the money is released on confirmation.
func (p *IyzicoProvider) InitPWIPayment(ctx context.Context, request provider.ThreeDSPaymentRequest) (*provider.PWIInitResponse, error) {
	if request.CallbackURL == "" {
		return nil, errors.New("iyzico: callbackUrl is required for PWI payments")
	}

	payload := p.mapToGatewayRequest(request.PaymentRequest)
	delete(payload, "paymentCard")
	delete(payload, "paymentChannel")
	delete(payload, "installment")
	payload["callbackUrl"] = request.CallbackURL

	body, err := p.send(ctx, endpointPWIInit, payload)
	if err != nil {
		return &provider.PWIInitResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: err.Error(),
			RawResponse:  rawJSON(body),
		}, nil
	}

	var result struct {
		paymentResult
		HTMLContent     string `json:"htmlContent"`
		Token           string `json:"token"`
		TokenExpireTime int64  `json:"tokenExpireTime"`
		PaymentPageURL  string `json:"paymentPageUrl"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return &provider.PWIInitResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: fmt.Sprintf("iyzico: unexpected response: %v", err),
			RawResponse:  rawJSON(body),
		}, nil
	}

	return &provider.PWIInitResponse{
		Status:          mapStatus(result.Status),
		Token:           result.Token,
		TokenExpireTime: result.TokenExpireTime,
		HTMLContent:     result.HTMLContent,
		PaymentPageURL:  result.PaymentPageURL,
		ConversationID:  result.ConversationID,
		ErrorCode:       result.ErrorCode,
		ErrorMessage:    result.ErrorMessage,
		RawResponse:     rawJSON(body),
	}, nil
}

// RetrievePWIPayment polls the state of a protected transfer payment
func (p *IyzicoProvider) RetrievePWIPayment(ctx context.Context, token, conversationID string) (*provider.PWIRetrieveResponse, error) {
	if token == "" {
		return nil, errors.New("iyzico: token is required")
	}

	body, err := p.send(ctx, endpointPWIDetail, map[string]any{
		"locale":         p.locale,
		"conversationId": conversationID,
		"token":          token,
	})
	if err != nil {
		return &provider.PWIRetrieveResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: err.Error(),
			RawResponse:  rawJSON(body),
		}, nil
	}

	var result struct {
		paymentResult
		Token         string      `json:"token"`
		PaymentStatus string      `json:"paymentStatus"`
		Price         json.Number `json:"price"`
		PaidPrice     json.Number `json:"paidPrice"`
		Currency      string      `json:"currency"`
		BasketID      string      `json:"basketId"`
		IBAN          string      `json:"iban"`
		BankName      string      `json:"bankName"`
		BuyerName     string      `json:"buyerName"`
		BuyerSurname  string      `json:"buyerSurname"`
		BuyerEmail    string      `json:"buyerEmail"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return &provider.PWIRetrieveResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: fmt.Sprintf("iyzico: unexpected response: %v", err),
			RawResponse:  rawJSON(body),
		}, nil
	}

	return &provider.PWIRetrieveResponse{
		Status:         mapStatus(result.Status),
		PaymentStatus:  provider.PWIPaymentStatus(result.PaymentStatus),
		PaymentID:      result.PaymentID,
		Token:          result.Token,
		Price:          result.Price.String(),
		PaidPrice:      result.PaidPrice.String(),
		Currency:       result.Currency,
		BasketID:       result.BasketID,
		IBAN:           result.IBAN,
		BankName:       result.BankName,
		BuyerName:      result.BuyerName,
		BuyerSurname:   result.BuyerSurname,
		BuyerEmail:     result.BuyerEmail,
		ConversationID: result.ConversationID,
		ErrorCode:      result.ErrorCode,
		ErrorMessage:   result.ErrorMessage,
		RawResponse:    rawJSON(body),
	}, nil
}
