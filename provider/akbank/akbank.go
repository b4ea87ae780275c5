package akbank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/furkanczay/better-pay/provider"
)

const (
	endpointGateway = "/servlet/PaymentGateway"
	endpoint3DGate  = "/servlet/3DGate"

	txnTypeAuth          = "Auth"
	txnTypeRefund        = "Refund"
	txnTypeVoid          = "Void"
	txnTypeStatusInquiry = "StatusInquiry"
)

// AkbankProvider integrates the Akbank virtual POS. Requests are form
// posts with SHA-512 hashes; amounts travel in kurus and currencies as
// ISO 4217 numeric codes.
type AkbankProvider struct {
	merchantID       string
	terminalID       string
	storeKey         string
	secure3DStoreKey string
	client           *provider.HTTPClient
}

// NewProvider creates an unconfigured Akbank provider
func NewProvider() provider.PaymentProvider {
	return &AkbankProvider{}
}

// GetRequiredConfig lists the credentials Initialize expects
func (p *AkbankProvider) GetRequiredConfig() []provider.ConfigField {
	return []provider.ConfigField{
		{
			Key:         "merchantId",
			EnvVar:      "AKBANK_MERCHANT_ID",
			Required:    true,
			Description: "Virtual POS merchant number",
			Example:     "100100000",
		},
		{
			Key:         "terminalId",
			EnvVar:      "AKBANK_TERMINAL_ID",
			Required:    true,
			Description: "Virtual POS terminal number",
			Example:     "30000024",
		},
		{
			Key:         "storeKey",
			EnvVar:      "AKBANK_STORE_KEY",
			Required:    true,
			Description: "Store key used to sign direct POS requests",
			Example:     "TEST1234",
		},
		{
			Key:         "secure3DStoreKey",
			EnvVar:      "AKBANK_SECURE_3D_STORE_KEY",
			Required:    false,
			Description: "Store key for the 3D Secure gate; required only for 3DS flows",
		},
		{
			Key:         "baseUrl",
			EnvVar:      "AKBANK_BASE_URL",
			Required:    true,
			Description: "Gateway base URL",
			Example:     "https://virtualpospaymentgatewaypre.akbank.com",
		},
	}
}

// Initialize configures the provider and validates its credentials
func (p *AkbankProvider) Initialize(conf map[string]string) error {
	if err := provider.ValidateConfigFields("akbank", conf, p.GetRequiredConfig()); err != nil {
		return err
	}

	p.merchantID = conf["merchantId"]
	p.terminalID = conf["terminalId"]
	p.storeKey = conf["storeKey"]
	p.secure3DStoreKey = conf["secure3DStoreKey"]

	p.client = provider.NewHTTPClient(&provider.HTTPClientConfig{
		BaseURL: conf["baseUrl"],
	})

	return nil
}

func mapStatus(procReturnCode string) provider.PaymentStatus {
	switch procReturnCode {
	case "00", "Success":
		return provider.StatusSuccess
	case "Declined", "Error":
		return provider.StatusFailure
	default:
		return provider.StatusPending
	}
}

func rawJSON(body []byte) json.RawMessage {
	if len(body) == 0 || !json.Valid(body) {
		return nil
	}
	return json.RawMessage(body)
}

type gatewayResult struct {
	ProcReturnCode string `json:"ProcReturnCode"`
	OrderID        string `json:"OrderId"`
	ErrMsg         string `json:"ErrMsg"`
	Response       string `json:"Response"`
	Message        string `json:"Message"`
	RefundID       string `json:"RefundId"`
}

func (p *AkbankProvider) post(ctx context.Context, endpoint string, form map[string]string) (gatewayResult, []byte, error) {
	resp, err := p.client.SendForm(ctx, &provider.HTTPRequest{
		Method:   http.MethodPost,
		Endpoint: endpoint,
		FormData: form,
	})
	if err != nil {
		var raw []byte
		if resp != nil {
			raw = resp.Body
		}
		return gatewayResult{}, raw, err
	}

	var result gatewayResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return gatewayResult{}, resp.Body, fmt.Errorf("akbank: unexpected response: %w", err)
	}
	return result, resp.Body, nil
}

func orderID(conversationID string) string {
	if conversationID != "" {
		return conversationID
	}
	return fmt.Sprintf("ORDER-%d", time.Now().UnixMilli())
}

// CreatePayment makes a direct charge without 3D Secure
func (p *AkbankProvider) CreatePayment(ctx context.Context, request provider.PaymentRequest) (*provider.PaymentResponse, error) {
	amount, err := provider.ToMinorUnits(request.Price)
	if err != nil {
		return nil, fmt.Errorf("akbank: invalid price %q: %w", request.Price, err)
	}
	currency := provider.CurrencyNumericCode(string(request.Currency))
	oid := orderID(request.ConversationID)

	form := map[string]string{
		"MERCHANTID": p.merchantID,
		"TERMINALID": p.terminalID,
		"AMOUNT":     amount,
		"CURRENCY":   currency,
		"ORDERID":    oid,
		"TXNTYPE":    txnTypeAuth,
		"PAN":        request.PaymentCard.CardNumber,
		"EXPIRY":     formatExpiry(request.PaymentCard.ExpireMonth, request.PaymentCard.ExpireYear),
		"CVV":        request.PaymentCard.CVC,
		"CARDOWNER":  request.PaymentCard.CardHolderName,
		"HASH":       authHash(p.merchantID, p.terminalID, oid, amount, currency, txnTypeAuth, p.storeKey),
	}

	result, raw, err := p.post(ctx, endpointGateway, form)
	if err != nil {
		return &provider.PaymentResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: err.Error(),
			RawResponse:  rawJSON(raw),
		}, nil
	}

	return &provider.PaymentResponse{
		Status:         mapStatus(result.ProcReturnCode),
		PaymentID:      result.OrderID,
		ConversationID: oid,
		ErrorCode:      result.ErrMsg,
		ErrorMessage:   result.Response,
		RawResponse:    rawJSON(raw),
	}, nil
}

// InitThreeDSPayment posts the card to the 3D gate and returns the bank
// authentication page
func (p *AkbankProvider) InitThreeDSPayment(ctx context.Context, request provider.ThreeDSPaymentRequest) (*provider.ThreeDSInitResponse, error) {
	if p.secure3DStoreKey == "" {
		return nil, errors.New("akbank: 3D Secure store key is required for 3DS payments")
	}
	if request.CallbackURL == "" {
		return nil, errors.New("akbank: callbackUrl is required for 3DS payments")
	}

	amount, err := provider.ToMinorUnits(request.Price)
	if err != nil {
		return nil, fmt.Errorf("akbank: invalid price %q: %w", request.Price, err)
	}
	currency := provider.CurrencyNumericCode(string(request.Currency))
	oid := orderID(request.ConversationID)

	form := map[string]string{
		"MERCHANTID": p.merchantID,
		"TERMINALID": p.terminalID,
		"AMOUNT":     amount,
		"CURRENCY":   currency,
		"ORDERID":    oid,
		"TXNTYPE":    txnTypeAuth,
		"SUCCESSURL": request.CallbackURL,
		"ERRORURL":   request.CallbackURL,
		"PAN":        request.PaymentCard.CardNumber,
		"EXPIRY":     formatExpiry(request.PaymentCard.ExpireMonth, request.PaymentCard.ExpireYear),
		"CVV":        request.PaymentCard.CVC,
		"CARDOWNER":  request.PaymentCard.CardHolderName,
		"EMAIL":      request.Buyer.Email,
		"HASH": threeDSHash(p.merchantID, p.terminalID, oid, amount, currency,
			request.CallbackURL, request.CallbackURL, txnTypeAuth, p.secure3DStoreKey),
	}
	if request.Installment > 1 {
		form["INSTALLMENT_COUNT"] = fmt.Sprintf("%d", request.Installment)
	}

	result, raw, err := p.post(ctx, endpoint3DGate, form)
	if err != nil {
		return &provider.ThreeDSInitResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: err.Error(),
			RawResponse:  rawJSON(raw),
		}, nil
	}

	if result.ProcReturnCode != "Success" || result.Message == "" {
		return &provider.ThreeDSInitResponse{
			Status:       provider.StatusFailure,
			ErrorCode:    result.ErrMsg,
			ErrorMessage: result.Response,
			RawResponse:  rawJSON(raw),
		}, nil
	}

	return &provider.ThreeDSInitResponse{
		Status:             provider.StatusPending,
		ThreeDSHTMLContent: result.Message,
		PaymentID:          result.OrderID,
		ConversationID:     oid,
		RawResponse:        rawJSON(raw),
	}, nil
}

// Accepted mdStatus values: full or half 3DS authentication
var acceptedMDStatus = map[string]bool{"1": true, "2": true, "3": true, "4": true}

// CompleteThreeDSPayment validates the bank's callback signature and the
// authentication result
func (p *AkbankProvider) CompleteThreeDSPayment(ctx context.Context, callback provider.CallbackData) (*provider.PaymentResponse, error) {
	if p.secure3DStoreKey == "" {
		return nil, errors.New("akbank: 3D Secure store key is required for 3DS payments")
	}

	raw, _ := json.Marshal(callback)

	valid := verifyThreeDSHash(
		callback["MERCHANTID"],
		callback["TERMINALID"],
		callback["ORDERID"],
		callback["AMOUNT"],
		callback["CURRENCY"],
		p.secure3DStoreKey,
		callback["SECURE3DHASH"],
	)
	if !valid {
		return &provider.PaymentResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: "Invalid 3D Secure hash",
			RawResponse:  raw,
		}, nil
	}

	if mdStatus := callback["mdStatus"]; mdStatus != "" && !acceptedMDStatus[mdStatus] {
		return &provider.PaymentResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: "3D Authentication failed with mdStatus: " + mdStatus,
			RawResponse:  raw,
		}, nil
	}

	procReturnCode := callback["ProcReturnCode"]
	if procReturnCode == "" {
		procReturnCode = "Success"
	}

	return &provider.PaymentResponse{
		Status:         mapStatus(procReturnCode),
		PaymentID:      callback["ORDERID"],
		ConversationID: callback["ORDERID"],
		ErrorMessage:   callback["Response"],
		RawResponse:    raw,
	}, nil
}

// Refund returns money on a settled payment
func (p *AkbankProvider) Refund(ctx context.Context, request provider.RefundRequest) (*provider.RefundResponse, error) {
	if request.PaymentID == "" {
		return nil, errors.New("akbank: paymentId is required for refund")
	}

	amount, err := provider.ToMinorUnits(request.Price)
	if err != nil {
		return nil, fmt.Errorf("akbank: invalid price %q: %w", request.Price, err)
	}
	currency := provider.CurrencyNumericCode(string(request.Currency))

	form := map[string]string{
		"MERCHANTID": p.merchantID,
		"TERMINALID": p.terminalID,
		"ORDERID":    request.PaymentID,
		"AMOUNT":     amount,
		"CURRENCY":   currency,
		"TXNTYPE":    txnTypeRefund,
		"HASH":       authHash(p.merchantID, p.terminalID, request.PaymentID, amount, currency, txnTypeRefund, p.storeKey),
	}

	result, raw, err := p.post(ctx, endpointGateway, form)
	if err != nil {
		return &provider.RefundResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: err.Error(),
			RawResponse:  rawJSON(raw),
		}, nil
	}

	if result.ProcReturnCode != "Success" && result.ProcReturnCode != "00" {
		return &provider.RefundResponse{
			Status:       provider.StatusFailure,
			ErrorCode:    result.ErrMsg,
			ErrorMessage: result.Response,
			RawResponse:  rawJSON(raw),
		}, nil
	}

	refundID := result.RefundID
	if refundID == "" {
		refundID = result.OrderID
	}

	return &provider.RefundResponse{
		Status:         provider.StatusSuccess,
		RefundID:       refundID,
		ConversationID: request.ConversationID,
		RawResponse:    rawJSON(raw),
	}, nil
}

// Cancel voids a same-day payment. The hash covers a zero amount in TRY,
// but the form itself carries neither field.
func (p *AkbankProvider) Cancel(ctx context.Context, request provider.CancelRequest) (*provider.CancelResponse, error) {
	if request.PaymentID == "" {
		return nil, errors.New("akbank: paymentId is required for cancel")
	}

	form := map[string]string{
		"MERCHANTID": p.merchantID,
		"TERMINALID": p.terminalID,
		"ORDERID":    request.PaymentID,
		"TXNTYPE":    txnTypeVoid,
		"HASH":       authHash(p.merchantID, p.terminalID, request.PaymentID, "0", "949", txnTypeVoid, p.storeKey),
	}

	result, raw, err := p.post(ctx, endpointGateway, form)
	if err != nil {
		return &provider.CancelResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: err.Error(),
			RawResponse:  rawJSON(raw),
		}, nil
	}

	if result.ProcReturnCode != "Success" && result.ProcReturnCode != "00" {
		return &provider.CancelResponse{
			Status:       provider.StatusFailure,
			ErrorCode:    result.ErrMsg,
			ErrorMessage: result.Response,
			RawResponse:  rawJSON(raw),
		}, nil
	}

	return &provider.CancelResponse{
		Status:         provider.StatusSuccess,
		ConversationID: request.ConversationID,
		RawResponse:    rawJSON(raw),
	}, nil
}

// GetPayment queries the state of a payment by order id
func (p *AkbankProvider) GetPayment(ctx context.Context, paymentID string) (*provider.PaymentResponse, error) {
	if paymentID == "" {
		return nil, errors.New("akbank: paymentId is required")
	}

	form := map[string]string{
		"MERCHANTID": p.merchantID,
		"TERMINALID": p.terminalID,
		"ORDERID":    paymentID,
		"TXNTYPE":    txnTypeStatusInquiry,
		"HASH":       authHash(p.merchantID, p.terminalID, paymentID, "0", "949", txnTypeStatusInquiry, p.storeKey),
	}

	result, raw, err := p.post(ctx, endpointGateway, form)
	if err != nil {
		return &provider.PaymentResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: err.Error(),
			RawResponse:  rawJSON(raw),
		}, nil
	}

	return &provider.PaymentResponse{
		Status:         mapStatus(result.ProcReturnCode),
		PaymentID:      result.OrderID,
		ConversationID: result.OrderID,
		ErrorCode:      result.ErrMsg,
		ErrorMessage:   result.Response,
		RawResponse:    rawJSON(raw),
	}, nil
}
