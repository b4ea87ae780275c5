package provider

import (
	"context"
	"encoding/json"
	"errors"
)

// PaymentStatus is the normalized status shared by all payment gateways
type PaymentStatus string

const (
	StatusSuccess   PaymentStatus = "success"
	StatusFailure   PaymentStatus = "failure"
	StatusPending   PaymentStatus = "pending"
	StatusCancelled PaymentStatus = "cancelled"
)

// Currency is an ISO 4217 alphabetic currency code
type Currency string

const (
	CurrencyTRY Currency = "TRY"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// BasketItemType distinguishes shippable goods from digital ones
type BasketItemType string

const (
	ItemTypePhysical BasketItemType = "PHYSICAL"
	ItemTypeVirtual  BasketItemType = "VIRTUAL"
)

// ErrNotSupported is returned when an optional capability is requested
// from a provider that does not implement it
var ErrNotSupported = errors.New("not supported by this provider")

// PaymentCard represents credit card information
type PaymentCard struct {
	CardHolderName string `json:"cardHolderName" validate:"required"`
	CardNumber     string `json:"cardNumber" validate:"required"`
	ExpireMonth    string `json:"expireMonth" validate:"required"`
	ExpireYear     string `json:"expireYear" validate:"required"`
	CVC            string `json:"cvc" validate:"required,min=3,max=4"`
	RegisterCard   int    `json:"registerCard,omitempty"`
}

// Buyer represents the purchasing customer
type Buyer struct {
	ID                  string `json:"id" validate:"required"`
	Name                string `json:"name" validate:"required"`
	Surname             string `json:"surname" validate:"required"`
	Email               string `json:"email" validate:"required,email"`
	IdentityNumber      string `json:"identityNumber" validate:"required"`
	RegistrationAddress string `json:"registrationAddress" validate:"required"`
	City                string `json:"city" validate:"required"`
	Country             string `json:"country" validate:"required"`
	ZipCode             string `json:"zipCode,omitempty"`
	IP                  string `json:"ip" validate:"required,ip"`
	GsmNumber           string `json:"gsmNumber,omitempty"`
}

// Address represents a shipping or billing address
type Address struct {
	ContactName string `json:"contactName" validate:"required"`
	City        string `json:"city" validate:"required"`
	Country     string `json:"country" validate:"required"`
	Address     string `json:"address" validate:"required"`
	ZipCode     string `json:"zipCode,omitempty"`
}

// BasketItem is a single line in the payment basket
type BasketItem struct {
	ID        string         `json:"id" validate:"required"`
	Name      string         `json:"name" validate:"required"`
	Category1 string         `json:"category1" validate:"required"`
	Category2 string         `json:"category2,omitempty"`
	ItemType  BasketItemType `json:"itemType" validate:"required,oneof=PHYSICAL VIRTUAL"`
	Price     string         `json:"price" validate:"required,amount"`
}

// PaymentRequest contains everything needed to charge a card.
// Price and PaidPrice are decimal strings with at most two fraction
// digits; PaidPrice may exceed Price when fees or interest apply.
// ConversationID is a caller-supplied correlation id. It is forwarded to
// the gateway as-is; callers that need idempotency must keep it unique.
type PaymentRequest struct {
	Locale         string       `json:"locale,omitempty"`
	ConversationID string       `json:"conversationId,omitempty"`
	Price          string       `json:"price" validate:"required,amount"`
	PaidPrice      string       `json:"paidPrice" validate:"required,amount"`
	Currency       Currency     `json:"currency" validate:"required,oneof=TRY USD EUR GBP"`
	Installment    int          `json:"installment,omitempty"`
	BasketID       string       `json:"basketId" validate:"required"`
	PaymentCard    PaymentCard  `json:"paymentCard" validate:"required"`
	Buyer          Buyer        `json:"buyer" validate:"required"`
	ShippingAddr   Address      `json:"shippingAddress" validate:"required"`
	BillingAddr    Address      `json:"billingAddress" validate:"required"`
	BasketItems    []BasketItem `json:"basketItems" validate:"required,min=1,dive"`
	CallbackURL    string       `json:"callbackUrl,omitempty" validate:"omitempty,url"`
}

// ThreeDSPaymentRequest is a PaymentRequest whose CallbackURL must be set:
// the gateway redirects or posts the authentication result there.
type ThreeDSPaymentRequest struct {
	PaymentRequest
}

// PaymentResponse is the normalized result of a charge, completion or query.
// RawResponse always carries the untouched provider payload so integrators
// can recover fields the normalized model drops.
type PaymentResponse struct {
	Status         PaymentStatus   `json:"status"`
	PaymentID      string          `json:"paymentId,omitempty"`
	ConversationID string          `json:"conversationId,omitempty"`
	ErrorCode      string          `json:"errorCode,omitempty"`
	ErrorMessage   string          `json:"errorMessage,omitempty"`
	ErrorGroup     string          `json:"errorGroup,omitempty"`
	RawResponse    json.RawMessage `json:"rawResponse,omitempty"`
}

// ThreeDSInitResponse carries the content the end user must be handed to
// authenticate with their bank, either inline HTML or a redirect page
type ThreeDSInitResponse struct {
	Status             PaymentStatus   `json:"status"`
	ThreeDSHTMLContent string          `json:"threeDSHtmlContent,omitempty"`
	PaymentID          string          `json:"paymentId,omitempty"`
	ConversationID     string          `json:"conversationId,omitempty"`
	ErrorCode          string          `json:"errorCode,omitempty"`
	ErrorMessage       string          `json:"errorMessage,omitempty"`
	RawResponse        json.RawMessage `json:"rawResponse,omitempty"`
}

// RefundRequest asks for a full or partial refund of a settled payment.
// IP is the buyer IP, a fraud signal some gateways require on refunds.
type RefundRequest struct {
	PaymentID      string   `json:"paymentId" validate:"required"`
	Price          string   `json:"price" validate:"required"`
	Currency       Currency `json:"currency,omitempty"`
	IP             string   `json:"ip,omitempty"`
	ConversationID string   `json:"conversationId,omitempty"`
}

// RefundResponse contains the normalized refund result
type RefundResponse struct {
	Status         PaymentStatus   `json:"status"`
	RefundID       string          `json:"refundId,omitempty"`
	ConversationID string          `json:"conversationId,omitempty"`
	ErrorCode      string          `json:"errorCode,omitempty"`
	ErrorMessage   string          `json:"errorMessage,omitempty"`
	RawResponse    json.RawMessage `json:"rawResponse,omitempty"`
}

// CancelRequest voids a payment before settlement
type CancelRequest struct {
	PaymentID      string `json:"paymentId" validate:"required"`
	IP             string `json:"ip,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
}

// CancelResponse contains the normalized cancel result
type CancelResponse struct {
	Status         PaymentStatus   `json:"status"`
	ConversationID string          `json:"conversationId,omitempty"`
	ErrorCode      string          `json:"errorCode,omitempty"`
	ErrorMessage   string          `json:"errorMessage,omitempty"`
	RawResponse    json.RawMessage `json:"rawResponse,omitempty"`
}

// CallbackData holds the fields the gateway posts back after 3D Secure
// authentication. Keys are provider specific and must be passed through
// unmodified so signature verification sees exactly what the gateway sent.
type CallbackData map[string]string

// ConfigField describes one credential a provider needs to operate.
// EnvVar names the environment variable the credential is usually read
// from; validation errors reference it so misconfiguration is actionable.
type ConfigField struct {
	Key         string `json:"key"`
	EnvVar      string `json:"envVar"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
	Example     string `json:"example,omitempty"`
}

// PaymentProvider is the contract every payment gateway implements.
//
// Operations never return an error for gateway declines, transport
// failures or signature mismatches; those become responses with Status
// set to StatusFailure so callers can persist and reconcile. Errors are
// reserved for integration mistakes such as calling an operation with a
// nil or structurally unusable request.
type PaymentProvider interface {
	// Initialize configures the provider from its credential map.
	// Missing required credentials fail here, before any money moves.
	Initialize(config map[string]string) error

	// GetRequiredConfig lists the credentials Initialize expects
	GetRequiredConfig() []ConfigField

	// CreatePayment makes a direct charge without 3D Secure
	CreatePayment(ctx context.Context, request PaymentRequest) (*PaymentResponse, error)

	// InitThreeDSPayment starts a 3D Secure flow and returns the
	// content the end user needs to authenticate with their bank
	InitThreeDSPayment(ctx context.Context, request ThreeDSPaymentRequest) (*ThreeDSInitResponse, error)

	// CompleteThreeDSPayment finishes a 3D Secure flow from the gateway
	// callback. The callback integrity hash is verified before any field
	// is trusted; a mismatch yields StatusFailure no matter what the
	// payload claims.
	CompleteThreeDSPayment(ctx context.Context, callback CallbackData) (*PaymentResponse, error)

	// Refund returns money for a settled payment
	Refund(ctx context.Context, request RefundRequest) (*RefundResponse, error)

	// Cancel voids a payment
	Cancel(ctx context.Context, request CancelRequest) (*CancelResponse, error)

	// GetPayment queries the current state of a payment
	GetPayment(ctx context.Context, paymentID string) (*PaymentResponse, error)
}

// BinChecker is implemented by providers that can resolve card BIN metadata
type BinChecker interface {
	BinCheck(ctx context.Context, binNumber string) (*BinCheckResponse, error)
}

// InstallmentQueryer is implemented by providers that expose per-bank
// installment offers for a BIN and amount
type InstallmentQueryer interface {
	InstallmentInfo(ctx context.Context, request InstallmentInfoRequest) (*InstallmentInfoResponse, error)
}

// PWIPayer is implemented by providers that support protected bank
// transfer payments (pay with IBAN)
type PWIPayer interface {
	InitPWIPayment(ctx context.Context, request ThreeDSPaymentRequest) (*PWIInitResponse, error)
	RetrievePWIPayment(ctx context.Context, token, conversationID string) (*PWIRetrieveResponse, error)
}

// CheckoutFormer is implemented by providers with a hosted checkout form
type CheckoutFormer interface {
	InitCheckoutForm(ctx context.Context, request CheckoutFormRequest) (*CheckoutFormInitResponse, error)
	RetrieveCheckoutForm(ctx context.Context, token, conversationID string) (*CheckoutFormRetrieveResponse, error)
}

// SubscriptionManager is implemented by providers with recurring billing
type SubscriptionManager interface {
	CreateSubscriptionProduct(ctx context.Context, request SubscriptionProductRequest) (*SubscriptionProductResponse, error)
	CreatePricingPlan(ctx context.Context, request PricingPlanRequest) (*PricingPlanResponse, error)
	InitializeSubscription(ctx context.Context, request SubscriptionInitRequest) (*SubscriptionResponse, error)
	RetrieveSubscription(ctx context.Context, referenceCode string) (*SubscriptionResponse, error)
	UpgradeSubscription(ctx context.Context, request SubscriptionUpgradeRequest) (*SubscriptionResponse, error)
	CancelSubscription(ctx context.Context, referenceCode string) (*SubscriptionResponse, error)
	UpdateSubscriptionCard(ctx context.Context, request SubscriptionCardUpdateRequest) (*SubscriptionCardUpdateResponse, error)
}

// ProviderFactory creates a fresh, uninitialized provider instance
type ProviderFactory func() PaymentProvider
