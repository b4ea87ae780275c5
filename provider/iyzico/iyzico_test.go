package iyzico

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/furkanczay/better-pay/provider"
)

func newTestProvider(t *testing.T, baseURL string) *IyzicoProvider {
	t.Helper()

	p := NewProvider().(*IyzicoProvider)
	err := p.Initialize(map[string]string{
		"apiKey":    "test-api-key",
		"secretKey": "test-secret-key",
		"baseUrl":   baseURL,
	})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return p
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name        string
		config      map[string]string
		expectError string
	}{
		{
			name: "valid config",
			config: map[string]string{
				"apiKey":    "key",
				"secretKey": "secret",
				"baseUrl":   "https://sandbox-api.iyzipay.com",
			},
		},
		{
			name: "missing secret key",
			config: map[string]string{
				"apiKey":  "key",
				"baseUrl": "https://sandbox-api.iyzipay.com",
			},
			expectError: "secretKey (IYZICO_SECRET_KEY)",
		},
		{
			name:        "all fields missing",
			config:      map[string]string{},
			expectError: "apiKey (IYZICO_API_KEY), secretKey (IYZICO_SECRET_KEY), baseUrl (IYZICO_BASE_URL)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProvider().(*IyzicoProvider)
			err := p.Initialize(tt.config)

			if tt.expectError == "" {
				if err != nil {
					t.Fatalf("Initialize() error = %v", err)
				}
				if p.locale != "tr" {
					t.Errorf("locale = %q, want default tr", p.locale)
				}
				return
			}

			if err == nil {
				t.Fatal("Initialize() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.expectError) {
				t.Errorf("Initialize() error = %q, want it to contain %q", err.Error(), tt.expectError)
			}
		})
	}
}

func TestGenerateAuthHeaderV2_Deterministic(t *testing.T) {
	a := generateAuthHeaderV2("api", "secret", "rnd", "/payment/auth", `{"price":"1.00"}`)
	b := generateAuthHeaderV2("api", "secret", "rnd", "/payment/auth", `{"price":"1.00"}`)
	if a != b {
		t.Error("same inputs must produce the same header")
	}

	if !strings.HasPrefix(a, "IYZWSv2 ") {
		t.Errorf("header = %q, want IYZWSv2 prefix", a)
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(a, "IYZWSv2 "))
	if err != nil {
		t.Fatalf("header payload is not base64: %v", err)
	}
	payload := string(decoded)
	for _, part := range []string{"apiKey:api", "randomKey:rnd", "signature:"} {
		if !strings.Contains(payload, part) {
			t.Errorf("header payload %q missing %q", payload, part)
		}
	}
}

func TestGenerateAuthHeaderV2_InputSensitivity(t *testing.T) {
	base := generateAuthHeaderV2("api", "secret", "rnd", "/payment/auth", `{"price":"1.00"}`)

	variants := []string{
		generateAuthHeaderV2("api", "secret2", "rnd", "/payment/auth", `{"price":"1.00"}`),
		generateAuthHeaderV2("api", "secret", "rnd2", "/payment/auth", `{"price":"1.00"}`),
		generateAuthHeaderV2("api", "secret", "rnd", "/payment/cancel", `{"price":"1.00"}`),
		generateAuthHeaderV2("api", "secret", "rnd", "/payment/auth", `{"price":"1.01"}`),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d produced an identical header", i)
		}
	}
}

func TestGenerateRandomKey_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key := generateRandomKey()
		if seen[key] {
			t.Fatalf("duplicate random key %q", key)
		}
		seen[key] = true
	}
}

func TestMapStatus(t *testing.T) {
	tests := []struct {
		in   string
		want provider.PaymentStatus
	}{
		{"success", provider.StatusSuccess},
		{"failure", provider.StatusFailure},
		{"", provider.StatusPending},
		{"unknown", provider.StatusPending},
	}
	for _, tt := range tests {
		if got := mapStatus(tt.in); got != tt.want {
			t.Errorf("mapStatus(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func testPaymentRequest() provider.PaymentRequest {
	return provider.PaymentRequest{
		Price:     "100.00",
		PaidPrice: "100.00",
		Currency:  provider.CurrencyTRY,
		BasketID:  "B1",
		PaymentCard: provider.PaymentCard{
			CardHolderName: "John Doe",
			CardNumber:     "5528790000000008",
			ExpireMonth:    "12",
			ExpireYear:     "2030",
			CVC:            "123",
		},
		Buyer: provider.Buyer{
			ID:      "BY1",
			Name:    "John",
			Surname: "Doe",
			Email:   "john@example.com",
			IP:      "85.34.78.112",
		},
		BasketItems: []provider.BasketItem{
			{ID: "I1", Name: "Item", Category1: "Cat", ItemType: provider.ItemTypePhysical, Price: "100.00"},
		},
	}
}

func TestCreatePayment(t *testing.T) {
	var gotPath, gotAuth, gotRnd string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotRnd = r.Header.Get("x-iyzi-rnd")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":         "success",
			"paymentId":      "12345",
			"conversationId": "conv-1",
		})
	}))
	defer server.Close()

	p := newTestProvider(t, server.URL)
	resp, err := p.CreatePayment(context.Background(), testPaymentRequest())
	if err != nil {
		t.Fatalf("CreatePayment() error = %v", err)
	}

	if resp.Status != provider.StatusSuccess {
		t.Errorf("Status = %v, want success", resp.Status)
	}
	if resp.PaymentID != "12345" {
		t.Errorf("PaymentID = %q, want 12345", resp.PaymentID)
	}
	if gotPath != endpointPayment {
		t.Errorf("path = %q, want %q", gotPath, endpointPayment)
	}
	if !strings.HasPrefix(gotAuth, "IYZWSv2 ") {
		t.Errorf("Authorization = %q, want IYZWSv2 prefix", gotAuth)
	}
	if gotRnd == "" {
		t.Error("x-iyzi-rnd header is missing")
	}

	if gotBody["paymentChannel"] != "WEB" {
		t.Errorf("paymentChannel = %v, want WEB", gotBody["paymentChannel"])
	}
	if gotBody["paymentGroup"] != "PRODUCT" {
		t.Errorf("paymentGroup = %v, want PRODUCT", gotBody["paymentGroup"])
	}
	if gotBody["installment"] != float64(1) {
		t.Errorf("installment = %v, want 1", gotBody["installment"])
	}
	if gotBody["conversationId"] == "" {
		t.Error("conversationId should default to a generated value")
	}
}

func TestCreatePayment_GatewayFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":       "failure",
			"errorCode":    "5006",
			"errorMessage": "Invalid card",
		})
	}))
	defer server.Close()

	p := newTestProvider(t, server.URL)
	resp, err := p.CreatePayment(context.Background(), testPaymentRequest())
	if err != nil {
		t.Fatalf("gateway declines must not surface as errors, got %v", err)
	}

	if resp.Status != provider.StatusFailure {
		t.Errorf("Status = %v, want failure", resp.Status)
	}
	if resp.ErrorCode != "5006" {
		t.Errorf("ErrorCode = %q, want 5006", resp.ErrorCode)
	}
}

func TestCreatePayment_TransportFailure(t *testing.T) {
	server := httptest.NewServer(nil)
	server.Close() // connection refused

	p := newTestProvider(t, server.URL)
	resp, err := p.CreatePayment(context.Background(), testPaymentRequest())
	if err != nil {
		t.Fatalf("transport failures must not surface as errors, got %v", err)
	}

	if resp.Status != provider.StatusFailure {
		t.Errorf("Status = %v, want failure", resp.Status)
	}
	if resp.ErrorMessage == "" {
		t.Error("ErrorMessage should describe the transport failure")
	}
}

func TestInitThreeDSPayment(t *testing.T) {
	html := `<html><body>3ds form</body></html>`

	tests := []struct {
		name     string
		content  string
		wantHTML string
	}{
		{
			name:     "base64 content is decoded",
			content:  base64.StdEncoding.EncodeToString([]byte(html)),
			wantHTML: html,
		},
		{
			name:     "non-base64 content passes through",
			content:  html,
			wantHTML: html,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != endpoint3DInit {
					t.Errorf("path = %q, want %q", r.URL.Path, endpoint3DInit)
				}
				_ = json.NewEncoder(w).Encode(map[string]any{
					"status":             "success",
					"paymentId":          "12345",
					"threeDSHtmlContent": tt.content,
				})
			}))
			defer server.Close()

			p := newTestProvider(t, server.URL)
			request := provider.ThreeDSPaymentRequest{PaymentRequest: testPaymentRequest()}
			request.CallbackURL = "https://merchant.example.com/callback"

			resp, err := p.InitThreeDSPayment(context.Background(), request)
			if err != nil {
				t.Fatalf("InitThreeDSPayment() error = %v", err)
			}
			if resp.ThreeDSHTMLContent != tt.wantHTML {
				t.Errorf("ThreeDSHTMLContent = %q, want %q", resp.ThreeDSHTMLContent, tt.wantHTML)
			}
		})
	}
}

func TestInitThreeDSPayment_RequiresCallbackURL(t *testing.T) {
	p := newTestProvider(t, "https://sandbox-api.iyzipay.com")

	request := provider.ThreeDSPaymentRequest{PaymentRequest: testPaymentRequest()}
	if _, err := p.InitThreeDSPayment(context.Background(), request); err == nil {
		t.Error("expected an error without a callback URL")
	}
}

func TestCompleteThreeDSPayment(t *testing.T) {
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != endpoint3DComplete {
			t.Errorf("path = %q, want %q", r.URL.Path, endpoint3DComplete)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":    "success",
			"paymentId": "12345",
		})
	}))
	defer server.Close()

	p := newTestProvider(t, server.URL)
	resp, err := p.CompleteThreeDSPayment(context.Background(), provider.CallbackData{
		"paymentId":        "12345",
		"conversationId":   "conv-1",
		"conversationData": "cd",
	})
	if err != nil {
		t.Fatalf("CompleteThreeDSPayment() error = %v", err)
	}

	if resp.Status != provider.StatusSuccess {
		t.Errorf("Status = %v, want success", resp.Status)
	}
	if gotBody["paymentId"] != "12345" || gotBody["conversationData"] != "cd" {
		t.Errorf("unexpected completion payload %v", gotBody)
	}
}

func TestCompleteThreeDSPayment_MissingPaymentID(t *testing.T) {
	p := newTestProvider(t, "https://sandbox-api.iyzipay.com")

	if _, err := p.CompleteThreeDSPayment(context.Background(), provider.CallbackData{}); err == nil {
		t.Error("expected an error without a paymentId")
	}
}

func TestRefund(t *testing.T) {
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != endpointRefund {
			t.Errorf("path = %q, want %q", r.URL.Path, endpointRefund)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":               "success",
			"paymentTransactionId": "tx-9",
		})
	}))
	defer server.Close()

	p := newTestProvider(t, server.URL)
	resp, err := p.Refund(context.Background(), provider.RefundRequest{
		PaymentID: "tx-9",
		Price:     "50.00",
		Currency:  provider.CurrencyTRY,
		IP:        "85.34.78.112",
	})
	if err != nil {
		t.Fatalf("Refund() error = %v", err)
	}

	// The gateway refunds by transaction id, not payment id
	if gotBody["paymentTransactionId"] != "tx-9" {
		t.Errorf("paymentTransactionId = %v, want tx-9", gotBody["paymentTransactionId"])
	}
	if resp.RefundID != "tx-9" {
		t.Errorf("RefundID = %q, want tx-9", resp.RefundID)
	}
}

func TestBinCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != endpointBinCheck {
			t.Errorf("path = %q, want %q", r.URL.Path, endpointBinCheck)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":          "success",
			"binNumber":       "552879",
			"cardType":        "CREDIT_CARD",
			"cardAssociation": "MASTER_CARD",
			"bankName":        "Halkbank",
			"bankCode":        12,
			"commercial":      1,
		})
	}))
	defer server.Close()

	p := newTestProvider(t, server.URL)
	resp, err := p.BinCheck(context.Background(), "552879")
	if err != nil {
		t.Fatalf("BinCheck() error = %v", err)
	}

	if resp.CardAssociation != "MASTER_CARD" {
		t.Errorf("CardAssociation = %q, want MASTER_CARD", resp.CardAssociation)
	}
	if !resp.Commercial {
		t.Error("Commercial should be true when the gateway reports 1")
	}
}

func TestBinCheck_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":       "failure",
			"errorMessage": "bin not found",
		})
	}))
	defer server.Close()

	p := newTestProvider(t, server.URL)
	if _, err := p.BinCheck(context.Background(), "000000"); err == nil {
		t.Error("BinCheck should return an error on gateway failure")
	}
}

func TestInstallmentInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != endpointInstallment {
			t.Errorf("path = %q, want %q", r.URL.Path, endpointInstallment)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"installmentDetails": []map[string]any{
				{
					"binNumber": "552879",
					"price":     100.0,
					"bankName":  "Halkbank",
					"installmentPrices": []map[string]any{
						{"installmentNumber": 1, "totalPrice": 100.0, "installmentPrice": 100.0},
						{"installmentNumber": 3, "totalPrice": 106.5, "installmentPrice": 35.5},
					},
				},
			},
		})
	}))
	defer server.Close()

	p := newTestProvider(t, server.URL)
	resp, err := p.InstallmentInfo(context.Background(), provider.InstallmentInfoRequest{
		BinNumber: "552879",
		Price:     "100.00",
	})
	if err != nil {
		t.Fatalf("InstallmentInfo() error = %v", err)
	}

	if len(resp.InstallmentDetails) != 1 {
		t.Fatalf("got %d details, want 1", len(resp.InstallmentDetails))
	}
	prices := resp.InstallmentDetails[0].InstallmentPrices
	if len(prices) != 2 {
		t.Fatalf("got %d prices, want 2", len(prices))
	}
	if prices[1].InstallmentNumber != 3 || prices[1].TotalPrice != "106.5" {
		t.Errorf("unexpected offer %+v", prices[1])
	}
}

func TestSignedBodySentVerbatim(t *testing.T) {
	// The bytes covered by the signature must reach the wire unmodified.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf strings.Builder
		_, _ = io.Copy(&buf, r.Body)

		auth := r.Header.Get("Authorization")
		rnd := r.Header.Get("x-iyzi-rnd")
		want := generateAuthHeaderV2("test-api-key", "test-secret-key", rnd, r.URL.Path, buf.String())
		if auth != want {
			t.Error("signature does not match the received body")
		}

		_ = json.NewEncoder(w).Encode(map[string]any{"status": "success"})
	}))
	defer server.Close()

	p := newTestProvider(t, server.URL)
	if _, err := p.CreatePayment(context.Background(), testPaymentRequest()); err != nil {
		t.Fatalf("CreatePayment() error = %v", err)
	}
}
