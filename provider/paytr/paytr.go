package paytr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/furkanczay/better-pay/provider"
)

const (
	endpointToken  = "/odeme/api/get-token"
	endpointRefund = "/odeme/iade"

	// The hosted payment page always lives on the production host, even
	// for test-mode tokens
	paymentPageBase = "https://www.paytr.com/odeme/guvenli/"

	defaultLocale      = "tr"
	defaultUserPhone   = "05001234567"
	defaultCurrency    = "TL"
	defaultCallbackURL = "https://example.com/callback"
)

// PayTRProvider integrates the PayTR iframe gateway. There is no direct
// charge API: every payment goes through a server-side token request and
// a bank-hosted iframe, with the result delivered to the merchant
// callback URL.
type PayTRProvider struct {
	merchantID   string
	merchantKey  string
	merchantSalt string
	locale       string
	testMode     string
	client       *provider.HTTPClient
}

// NewProvider creates an unconfigured PayTR provider
func NewProvider() provider.PaymentProvider {
	return &PayTRProvider{}
}

// GetRequiredConfig lists the credentials Initialize expects
func (p *PayTRProvider) GetRequiredConfig() []provider.ConfigField {
	return []provider.ConfigField{
		{
			Key:         "merchantId",
			EnvVar:      "PAYTR_MERCHANT_ID",
			Required:    true,
			Description: "Merchant number from the PayTR panel",
			Example:     "123456",
		},
		{
			Key:         "merchantKey",
			EnvVar:      "PAYTR_MERCHANT_KEY",
			Required:    true,
			Description: "Merchant key from the PayTR panel",
			Example:     "xxxxxxxxxxxxxxxx",
		},
		{
			Key:         "merchantSalt",
			EnvVar:      "PAYTR_MERCHANT_SALT",
			Required:    true,
			Description: "Merchant salt used to sign requests and callbacks",
			Example:     "yyyyyyyyyyyyyyyy",
		},
		{
			Key:         "baseUrl",
			EnvVar:      "PAYTR_BASE_URL",
			Required:    true,
			Description: "Gateway base URL",
			Example:     "https://www.paytr.com",
		},
		{
			Key:      "locale",
			EnvVar:   "PAYTR_LOCALE",
			Required: false,
			Example:  "tr",
		},
	}
}

// Initialize configures the provider and validates its credentials
func (p *PayTRProvider) Initialize(conf map[string]string) error {
	if err := provider.ValidateConfigFields("paytr", conf, p.GetRequiredConfig()); err != nil {
		return err
	}

	p.merchantID = conf["merchantId"]
	p.merchantKey = conf["merchantKey"]
	p.merchantSalt = conf["merchantSalt"]
	p.locale = conf["locale"]
	if p.locale == "" {
		p.locale = defaultLocale
	}

	p.testMode = "0"
	if strings.Contains(conf["baseUrl"], "sandbox") {
		p.testMode = "1"
	}

	p.client = provider.NewHTTPClient(&provider.HTTPClientConfig{
		BaseURL: conf["baseUrl"],
	})

	return nil
}

func mapStatus(status string) provider.PaymentStatus {
	switch status {
	case "success":
		return provider.StatusSuccess
	case "failed":
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

func (p *PayTRProvider) convertBasketItems(items []provider.BasketItem, fallbackAmount string) ([]basketItem, error) {
	if len(items) == 0 {
		return []basketItem{{Name: "Payment", Price: fallbackAmount, Quantity: 1}}, nil
	}

	rows := make([]basketItem, 0, len(items))
	for _, item := range items {
		kurus, err := provider.ToMinorUnits(item.Price)
		if err != nil {
			return nil, fmt.Errorf("paytr: invalid basket item price %q: %w", item.Price, err)
		}
		rows = append(rows, basketItem{Name: item.Name, Price: kurus, Quantity: 1})
	}
	return rows, nil
}

// CreatePayment starts an iframe payment. PayTR has no direct charge
// API, so this is the 3D Secure initialization with its result reshaped
// into a payment response.
func (p *PayTRProvider) CreatePayment(ctx context.Context, request provider.PaymentRequest) (*provider.PaymentResponse, error) {
	// callbackUrl is optional on a direct charge, but the iframe flow
	// cannot run without one
	if request.CallbackURL == "" {
		request.CallbackURL = defaultCallbackURL
	}

	threeDS, err := p.InitThreeDSPayment(ctx, provider.ThreeDSPaymentRequest{PaymentRequest: request})
	if err != nil {
		return nil, err
	}

	return &provider.PaymentResponse{
		Status:         threeDS.Status,
		PaymentID:      threeDS.PaymentID,
		ConversationID: threeDS.ConversationID,
		ErrorCode:      threeDS.ErrorCode,
		ErrorMessage:   threeDS.ErrorMessage,
		RawResponse:    wrapWithNote(threeDS.RawResponse, "PayTR does not support direct payment, initiated 3DS payment instead"),
	}, nil
}

// wrapWithNote annotates a provider payload without losing it
func wrapWithNote(raw json.RawMessage, note string) json.RawMessage {
	wrapped, err := json.Marshal(map[string]any{
		"note":             note,
		"providerResponse": raw,
	})
	if err != nil {
		return raw
	}
	return wrapped
}

// InitThreeDSPayment requests an iframe token and returns an HTML page
// embedding the hosted payment frame
func (p *PayTRProvider) InitThreeDSPayment(ctx context.Context, request provider.ThreeDSPaymentRequest) (*provider.ThreeDSInitResponse, error) {
	if request.CallbackURL == "" {
		return nil, errors.New("paytr: callbackUrl is required")
	}

	paymentAmount, err := provider.ToMinorUnits(request.Price)
	if err != nil {
		return nil, fmt.Errorf("paytr: invalid price %q: %w", request.Price, err)
	}

	items, err := p.convertBasketItems(request.BasketItems, paymentAmount)
	if err != nil {
		return nil, err
	}
	userBasket := formatBasket(items)

	currency := string(request.Currency)
	if currency == "" {
		currency = defaultCurrency
	}

	merchantOid := request.ConversationID
	if merchantOid == "" {
		merchantOid = fmt.Sprintf("ORDER-%d", time.Now().UnixMilli())
	}

	noInstallment := "0"
	maxInstallment := "0"

	token := generateToken(p.merchantID, p.merchantSalt, request.Buyer.IP, merchantOid,
		request.Buyer.Email, paymentAmount, userBasket, noInstallment, maxInstallment,
		currency, p.testMode)

	userPhone := request.Buyer.GsmNumber
	if userPhone == "" {
		userPhone = defaultUserPhone
	}

	form := map[string]string{
		"merchant_id":       p.merchantID,
		"merchant_key":      p.merchantKey,
		"merchant_salt":     p.merchantSalt,
		"email":             request.Buyer.Email,
		"payment_amount":    paymentAmount,
		"merchant_oid":      merchantOid,
		"user_name":         request.Buyer.Name + " " + request.Buyer.Surname,
		"user_address":      request.ShippingAddr.Address,
		"user_phone":        userPhone,
		"merchant_ok_url":   request.CallbackURL,
		"merchant_fail_url": request.CallbackURL,
		"user_basket":       userBasket,
		"user_ip":           request.Buyer.IP,
		"timeout_limit":     "30",
		"debug_on":          "0",
		"test_mode":         p.testMode,
		"no_installment":    noInstallment,
		"max_installment":   maxInstallment,
		"currency":          currency,
		"lang":              p.locale,
		"paytr_token":       token,
	}

	resp, err := p.client.SendForm(ctx, &provider.HTTPRequest{
		Method:   http.MethodPost,
		Endpoint: endpointToken,
		FormData: form,
	})
	if err != nil {
		var raw []byte
		if resp != nil {
			raw = resp.Body
		}
		return &provider.ThreeDSInitResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: err.Error(),
			RawResponse:  rawJSON(raw),
		}, nil
	}

	var result struct {
		Status string `json:"status"`
		Token  string `json:"token"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return &provider.ThreeDSInitResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: fmt.Sprintf("paytr: unexpected response: %v", err),
			RawResponse:  rawJSON(resp.Body),
		}, nil
	}

	if result.Status != "success" || result.Token == "" {
		message := result.Reason
		if message == "" {
			message = "Payment initialization failed"
		}
		return &provider.ThreeDSInitResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: message,
			RawResponse:  rawJSON(resp.Body),
		}, nil
	}

	return &provider.ThreeDSInitResponse{
		Status:             provider.StatusPending,
		ThreeDSHTMLContent: iframeHTML(paymentPageBase + result.Token),
		PaymentID:          result.Token,
		ConversationID:     merchantOid,
		RawResponse:        rawJSON(resp.Body),
	}, nil
}

func iframeHTML(iframeURL string) string {
	return `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>PayTR Payment</title>
    <style>
        body { margin: 0; padding: 0; overflow: hidden; }
        iframe { width: 100%; height: 100vh; border: none; }
    </style>
</head>
<body>
    <iframe src="` + iframeURL + `"></iframe>
</body>
</html>`
}

// CompleteThreeDSPayment verifies a payment notification. The gateway
// posts the result to the merchant callback URL; the salted hash proves
// it came from PayTR.
func (p *PayTRProvider) CompleteThreeDSPayment(ctx context.Context, callback provider.CallbackData) (*provider.PaymentResponse, error) {
	merchantOid := callback["merchant_oid"]
	status := callback["status"]
	totalAmount := callback["total_amount"]
	receivedHash := callback["hash"]

	raw, _ := json.Marshal(callback)

	if !verifyCallbackHash(p.merchantSalt, merchantOid, status, totalAmount, receivedHash) {
		return &provider.PaymentResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: "Invalid callback signature",
			RawResponse:  raw,
		}, nil
	}

	return &provider.PaymentResponse{
		Status:         mapStatus(status),
		PaymentID:      merchantOid,
		ConversationID: merchantOid,
		ErrorCode:      callback["failed_reason_code"],
		ErrorMessage:   callback["failed_reason_msg"],
		RawResponse:    raw,
	}, nil
}

// Refund returns money on a completed payment, identified by its
// merchant order id
func (p *PayTRProvider) Refund(ctx context.Context, request provider.RefundRequest) (*provider.RefundResponse, error) {
	if request.PaymentID == "" {
		return nil, errors.New("paytr: paymentId is required for refund")
	}

	returnAmount, err := provider.ToMinorUnits(request.Price)
	if err != nil {
		return nil, fmt.Errorf("paytr: invalid price %q: %w", request.Price, err)
	}

	form := map[string]string{
		"merchant_id":   p.merchantID,
		"merchant_oid":  request.PaymentID,
		"return_amount": returnAmount,
		"merchant_key":  p.merchantKey,
		"merchant_salt": p.merchantSalt,
		"paytr_token":   generateRefundToken(p.merchantID, p.merchantSalt, request.PaymentID, returnAmount),
	}

	resp, err := p.client.SendForm(ctx, &provider.HTTPRequest{
		Method:   http.MethodPost,
		Endpoint: endpointRefund,
		FormData: form,
	})
	if err != nil {
		var raw []byte
		if resp != nil {
			raw = resp.Body
		}
		return &provider.RefundResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: err.Error(),
			RawResponse:  rawJSON(raw),
		}, nil
	}

	var result struct {
		Status       string `json:"status"`
		MerchantOid  string `json:"merchant_oid"`
		ErrorNo      string `json:"error_no"`
		ErrorMessage string `json:"error_message"`
	}
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return &provider.RefundResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: fmt.Sprintf("paytr: unexpected response: %v", err),
			RawResponse:  rawJSON(resp.Body),
		}, nil
	}

	if result.Status != "success" {
		return &provider.RefundResponse{
			Status:       provider.StatusFailure,
			ErrorCode:    result.ErrorNo,
			ErrorMessage: result.ErrorMessage,
			RawResponse:  rawJSON(resp.Body),
		}, nil
	}

	return &provider.RefundResponse{
		Status:         provider.StatusSuccess,
		RefundID:       result.MerchantOid,
		ConversationID: request.ConversationID,
		RawResponse:    rawJSON(resp.Body),
	}, nil
}

// Cancel is a full refund; the gateway has no separate void operation.
// A zero return amount refunds the entire payment.
func (p *PayTRProvider) Cancel(ctx context.Context, request provider.CancelRequest) (*provider.CancelResponse, error) {
	refund, err := p.Refund(ctx, provider.RefundRequest{
		PaymentID:      request.PaymentID,
		Price:          "0",
		Currency:       provider.CurrencyTRY,
		IP:             request.IP,
		ConversationID: request.ConversationID,
	})
	if err != nil {
		return nil, err
	}

	return &provider.CancelResponse{
		Status:         refund.Status,
		ConversationID: refund.ConversationID,
		ErrorCode:      refund.ErrorCode,
		ErrorMessage:   refund.ErrorMessage,
		RawResponse:    refund.RawResponse,
	}, nil
}

// GetPayment cannot be served: the gateway exposes no query endpoint.
// Callers are pointed at the callback flow instead of getting an error,
// since the payment may well still be in flight.
func (p *PayTRProvider) GetPayment(ctx context.Context, paymentID string) (*provider.PaymentResponse, error) {
	if paymentID == "" {
		return nil, errors.New("paytr: paymentId is required")
	}

	return &provider.PaymentResponse{
		Status:       provider.StatusPending,
		PaymentID:    paymentID,
		ErrorMessage: "PayTR does not provide payment query endpoint. Use callback data to verify payment status.",
	}, nil
}
