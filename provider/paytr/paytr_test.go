package paytr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/furkanczay/better-pay/provider"
)

func newTestProvider(t *testing.T, baseURL string) *PayTRProvider {
	t.Helper()

	p := NewProvider().(*PayTRProvider)
	err := p.Initialize(map[string]string{
		"merchantId":   "123456",
		"merchantKey":  "test-merchant-key",
		"merchantSalt": "test-merchant-salt",
		"baseUrl":      baseURL,
	})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return p
}

func TestInitialize(t *testing.T) {
	t.Run("missing fields are listed with env vars", func(t *testing.T) {
		p := NewProvider().(*PayTRProvider)
		err := p.Initialize(map[string]string{"merchantId": "123456"})
		if err == nil {
			t.Fatal("expected error")
		}
		for _, want := range []string{"merchantKey (PAYTR_MERCHANT_KEY)", "merchantSalt (PAYTR_MERCHANT_SALT)", "baseUrl (PAYTR_BASE_URL)"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("error %q missing %q", err.Error(), want)
			}
		}
	})

	t.Run("sandbox base URL enables test mode", func(t *testing.T) {
		p := NewProvider().(*PayTRProvider)
		if err := p.Initialize(map[string]string{
			"merchantId":   "123456",
			"merchantKey":  "k",
			"merchantSalt": "s",
			"baseUrl":      "https://sandbox.paytr.com",
		}); err != nil {
			t.Fatalf("Initialize() error = %v", err)
		}
		if p.testMode != "1" {
			t.Errorf("testMode = %q, want 1", p.testMode)
		}
	})

	t.Run("production base URL disables test mode", func(t *testing.T) {
		p := newTestProvider(t, "https://www.paytr.com")
		if p.testMode != "0" {
			t.Errorf("testMode = %q, want 0", p.testMode)
		}
	})
}

func TestGenerateToken_Deterministic(t *testing.T) {
	args := []string{"123456", "salt", "1.2.3.4", "ORDER-1", "a@b.com", "10000", `[["Item","10000",1]]`, "0", "0", "TL", "1"}

	sign := func() string {
		return generateToken(args[0], args[1], args[2], args[3], args[4], args[5], args[6], args[7], args[8], args[9], args[10])
	}
	if sign() != sign() {
		t.Error("same inputs must produce the same token")
	}

	other := generateToken(args[0], args[1], args[2], "ORDER-2", args[4], args[5], args[6], args[7], args[8], args[9], args[10])
	if other == sign() {
		t.Error("different order ids must produce different tokens")
	}
}

func TestVerifyCallbackHash(t *testing.T) {
	salt := "test-salt"
	valid := hmacBase64(salt, "ORDER-1"+salt+"success"+"10000")

	tests := []struct {
		name string
		hash string
		want bool
	}{
		{"valid hash", valid, true},
		{"tampered hash", valid + "x", false},
		{"empty hash", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := verifyCallbackHash(salt, "ORDER-1", "success", "10000", tt.hash); got != tt.want {
				t.Errorf("verifyCallbackHash() = %v, want %v", got, tt.want)
			}
		})
	}

	// Changing any signed field invalidates the hash
	if verifyCallbackHash(salt, "ORDER-1", "success", "99999", valid) {
		t.Error("amount change must invalidate the hash")
	}
	if verifyCallbackHash(salt, "ORDER-1", "failed", "10000", valid) {
		t.Error("status change must invalidate the hash")
	}
}

func TestFormatBasket(t *testing.T) {
	got := formatBasket([]basketItem{
		{Name: "Item A", Price: "10000", Quantity: 1},
		{Name: "Item B", Price: "500", Quantity: 1},
	})
	want := `[["Item A","10000",1],["Item B","500",1]]`
	if got != want {
		t.Errorf("formatBasket() = %s, want %s", got, want)
	}
}

func threeDSRequest() provider.ThreeDSPaymentRequest {
	request := provider.ThreeDSPaymentRequest{
		PaymentRequest: provider.PaymentRequest{
			Price:    "100.00",
			Currency: provider.CurrencyTRY,
			Buyer: provider.Buyer{
				Name:      "John",
				Surname:   "Doe",
				Email:     "john@example.com",
				IP:        "85.34.78.112",
				GsmNumber: "05551112233",
			},
			ShippingAddr: provider.Address{Address: "Some Street 1"},
			BasketItems: []provider.BasketItem{
				{Name: "Item", Price: "100.00"},
			},
			ConversationID: "ORDER-42",
		},
	}
	request.CallbackURL = "https://merchant.example.com/callback"
	return request
}

func TestInitThreeDSPayment(t *testing.T) {
	var gotForm map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != endpointToken {
			t.Errorf("path = %q, want %q", r.URL.Path, endpointToken)
		}
		_ = r.ParseForm()
		gotForm = make(map[string]string)
		for key := range r.PostForm {
			gotForm[key] = r.PostForm.Get(key)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"token":  "iframe-token-1",
		})
	}))
	defer server.Close()

	p := newTestProvider(t, server.URL)
	resp, err := p.InitThreeDSPayment(context.Background(), threeDSRequest())
	if err != nil {
		t.Fatalf("InitThreeDSPayment() error = %v", err)
	}

	if resp.Status != provider.StatusPending {
		t.Errorf("Status = %v, want pending until the callback arrives", resp.Status)
	}
	if resp.PaymentID != "iframe-token-1" {
		t.Errorf("PaymentID = %q, want the iframe token", resp.PaymentID)
	}
	if resp.ConversationID != "ORDER-42" {
		t.Errorf("ConversationID = %q, want ORDER-42", resp.ConversationID)
	}
	if !strings.Contains(resp.ThreeDSHTMLContent, paymentPageBase+"iframe-token-1") {
		t.Error("HTML content should embed the hosted payment page URL")
	}

	if gotForm["payment_amount"] != "10000" {
		t.Errorf("payment_amount = %q, want 10000 kurus", gotForm["payment_amount"])
	}
	if gotForm["merchant_ok_url"] != gotForm["merchant_fail_url"] {
		t.Error("ok and fail URLs should both be the callback URL")
	}
	if gotForm["user_name"] != "John Doe" {
		t.Errorf("user_name = %q, want John Doe", gotForm["user_name"])
	}
	if gotForm["user_basket"] != `[["Item","10000",1]]` {
		t.Errorf("user_basket = %q", gotForm["user_basket"])
	}

	wantToken := generateToken("123456", "test-merchant-salt", "85.34.78.112", "ORDER-42",
		"john@example.com", "10000", `[["Item","10000",1]]`, "0", "0", "TRY", "0")
	if gotForm["paytr_token"] != wantToken {
		t.Error("paytr_token does not match the documented hash construction")
	}
}

func TestInitThreeDSPayment_TokenRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "failed",
			"reason": "hash mismatch",
		})
	}))
	defer server.Close()

	p := newTestProvider(t, server.URL)
	resp, err := p.InitThreeDSPayment(context.Background(), threeDSRequest())
	if err != nil {
		t.Fatalf("gateway rejections must not surface as errors, got %v", err)
	}

	if resp.Status != provider.StatusFailure {
		t.Errorf("Status = %v, want failure", resp.Status)
	}
	if resp.ErrorMessage != "hash mismatch" {
		t.Errorf("ErrorMessage = %q, want the gateway reason", resp.ErrorMessage)
	}
}

func TestInitThreeDSPayment_RequiresCallbackURL(t *testing.T) {
	p := newTestProvider(t, "https://www.paytr.com")

	request := threeDSRequest()
	request.CallbackURL = ""
	if _, err := p.InitThreeDSPayment(context.Background(), request); err == nil {
		t.Error("expected an error without a callback URL")
	}
}

func TestCreatePayment_DelegatesToIframe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "success", "token": "tok"})
	}))
	defer server.Close()

	p := newTestProvider(t, server.URL)
	request := threeDSRequest()
	resp, err := p.CreatePayment(context.Background(), request.PaymentRequest)
	if err != nil {
		t.Fatalf("CreatePayment() error = %v", err)
	}

	if resp.Status != provider.StatusPending {
		t.Errorf("Status = %v, want pending", resp.Status)
	}
	if !strings.Contains(string(resp.RawResponse), "initiated 3DS payment instead") {
		t.Error("raw response should note the iframe delegation")
	}
}

func TestCreatePayment_DefaultsCallbackURL(t *testing.T) {
	var gotForm map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gotForm = make(map[string]string)
		for key := range r.PostForm {
			gotForm[key] = r.PostForm.Get(key)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "success", "token": "tok"})
	}))
	defer server.Close()

	p := newTestProvider(t, server.URL)
	request := threeDSRequest().PaymentRequest
	request.CallbackURL = ""

	resp, err := p.CreatePayment(context.Background(), request)
	if err != nil {
		t.Fatalf("CreatePayment() without callbackUrl must not error, got %v", err)
	}

	if resp.Status != provider.StatusPending {
		t.Errorf("Status = %v, want pending", resp.Status)
	}
	if gotForm["merchant_ok_url"] != defaultCallbackURL {
		t.Errorf("merchant_ok_url = %q, want the default callback URL", gotForm["merchant_ok_url"])
	}
	if gotForm["merchant_fail_url"] != defaultCallbackURL {
		t.Errorf("merchant_fail_url = %q, want the default callback URL", gotForm["merchant_fail_url"])
	}
}

func TestCompleteThreeDSPayment(t *testing.T) {
	p := newTestProvider(t, "https://www.paytr.com")
	salt := "test-merchant-salt"

	t.Run("valid success callback", func(t *testing.T) {
		resp, err := p.CompleteThreeDSPayment(context.Background(), provider.CallbackData{
			"merchant_oid": "ORDER-1",
			"status":       "success",
			"total_amount": "10000",
			"hash":         hmacBase64(salt, "ORDER-1"+salt+"success"+"10000"),
		})
		if err != nil {
			t.Fatalf("CompleteThreeDSPayment() error = %v", err)
		}
		if resp.Status != provider.StatusSuccess {
			t.Errorf("Status = %v, want success", resp.Status)
		}
		if resp.PaymentID != "ORDER-1" {
			t.Errorf("PaymentID = %q, want ORDER-1", resp.PaymentID)
		}
	})

	t.Run("valid failed callback", func(t *testing.T) {
		resp, err := p.CompleteThreeDSPayment(context.Background(), provider.CallbackData{
			"merchant_oid":       "ORDER-1",
			"status":             "failed",
			"total_amount":       "10000",
			"hash":               hmacBase64(salt, "ORDER-1"+salt+"failed"+"10000"),
			"failed_reason_code": "6",
			"failed_reason_msg":  "insufficient funds",
		})
		if err != nil {
			t.Fatalf("CompleteThreeDSPayment() error = %v", err)
		}
		if resp.Status != provider.StatusFailure {
			t.Errorf("Status = %v, want failure", resp.Status)
		}
		if resp.ErrorMessage != "insufficient funds" {
			t.Errorf("ErrorMessage = %q", resp.ErrorMessage)
		}
	})

	t.Run("tampered callback", func(t *testing.T) {
		resp, err := p.CompleteThreeDSPayment(context.Background(), provider.CallbackData{
			"merchant_oid": "ORDER-1",
			"status":       "success",
			"total_amount": "99999",
			"hash":         hmacBase64(salt, "ORDER-1"+salt+"success"+"10000"),
		})
		if err != nil {
			t.Fatalf("CompleteThreeDSPayment() error = %v", err)
		}
		if resp.Status != provider.StatusFailure {
			t.Errorf("Status = %v, want failure", resp.Status)
		}
		if resp.ErrorMessage != "Invalid callback signature" {
			t.Errorf("ErrorMessage = %q, want Invalid callback signature", resp.ErrorMessage)
		}
	})
}

func TestRefund(t *testing.T) {
	var gotForm map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != endpointRefund {
			t.Errorf("path = %q, want %q", r.URL.Path, endpointRefund)
		}
		_ = r.ParseForm()
		gotForm = make(map[string]string)
		for key := range r.PostForm {
			gotForm[key] = r.PostForm.Get(key)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":       "success",
			"merchant_oid": "ORDER-1",
		})
	}))
	defer server.Close()

	p := newTestProvider(t, server.URL)
	resp, err := p.Refund(context.Background(), provider.RefundRequest{
		PaymentID: "ORDER-1",
		Price:     "50.00",
	})
	if err != nil {
		t.Fatalf("Refund() error = %v", err)
	}

	if resp.Status != provider.StatusSuccess {
		t.Errorf("Status = %v, want success", resp.Status)
	}
	if gotForm["return_amount"] != "5000" {
		t.Errorf("return_amount = %q, want 5000 kurus", gotForm["return_amount"])
	}
	wantToken := generateRefundToken("123456", "test-merchant-salt", "ORDER-1", "5000")
	if gotForm["paytr_token"] != wantToken {
		t.Error("refund token does not match the documented hash construction")
	}
}

func TestCancel_IsFullRefund(t *testing.T) {
	var gotForm map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gotForm = make(map[string]string)
		for key := range r.PostForm {
			gotForm[key] = r.PostForm.Get(key)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "success", "merchant_oid": "ORDER-1"})
	}))
	defer server.Close()

	p := newTestProvider(t, server.URL)
	resp, err := p.Cancel(context.Background(), provider.CancelRequest{PaymentID: "ORDER-1"})
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}

	if resp.Status != provider.StatusSuccess {
		t.Errorf("Status = %v, want success", resp.Status)
	}
	// Zero refunds the whole payment
	if gotForm["return_amount"] != "0" {
		t.Errorf("return_amount = %q, want 0", gotForm["return_amount"])
	}
}

func TestGetPayment_NotQueryable(t *testing.T) {
	p := newTestProvider(t, "https://www.paytr.com")

	resp, err := p.GetPayment(context.Background(), "ORDER-1")
	if err != nil {
		t.Fatalf("GetPayment() error = %v", err)
	}

	if resp.Status != provider.StatusPending {
		t.Errorf("Status = %v, want pending", resp.Status)
	}
	if !strings.Contains(resp.ErrorMessage, "does not provide payment query endpoint") {
		t.Errorf("ErrorMessage = %q", resp.ErrorMessage)
	}
}
