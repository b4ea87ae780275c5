package provider

import "encoding/json"

// BinCheckResponse describes the card behind a BIN prefix
type BinCheckResponse struct {
	BinNumber       string          `json:"binNumber"`
	CardType        string          `json:"cardType"`
	CardAssociation string          `json:"cardAssociation"`
	CardFamily      string          `json:"cardFamily"`
	BankName        string          `json:"bankName"`
	BankCode        int             `json:"bankCode"`
	Commercial      bool            `json:"commercial"`
	RawResponse     json.RawMessage `json:"rawResponse,omitempty"`
}

// InstallmentInfoRequest queries installment offers for a BIN and amount
type InstallmentInfoRequest struct {
	BinNumber      string `json:"binNumber" validate:"required,min=6"`
	Price          string `json:"price" validate:"required,amount"`
	ConversationID string `json:"conversationId,omitempty"`
}

// InstallmentPrice is one installment offer. InstallmentNumber 1 is
// always the single-payment, no-interest option.
type InstallmentPrice struct {
	InstallmentNumber int    `json:"installmentNumber"`
	TotalPrice        string `json:"totalPrice"`
	InstallmentPrice  string `json:"installmentPrice"`
}

// InstallmentDetail groups the offers of one bank and card family
type InstallmentDetail struct {
	BinNumber         string             `json:"binNumber,omitempty"`
	Price             string             `json:"price,omitempty"`
	CardType          string             `json:"cardType,omitempty"`
	CardAssociation   string             `json:"cardAssociation,omitempty"`
	CardFamilyName    string             `json:"cardFamilyName,omitempty"`
	BankName          string             `json:"bankName,omitempty"`
	BankCode          int                `json:"bankCode,omitempty"`
	InstallmentPrices []InstallmentPrice `json:"installmentPrices"`
}

// InstallmentInfoResponse lists the available installment offers
type InstallmentInfoResponse struct {
	Status             PaymentStatus       `json:"status"`
	InstallmentDetails []InstallmentDetail `json:"installmentDetails,omitempty"`
	ConversationID     string              `json:"conversationId,omitempty"`
	ErrorCode          string              `json:"errorCode,omitempty"`
	ErrorMessage       string              `json:"errorMessage,omitempty"`
	RawResponse        json.RawMessage     `json:"rawResponse,omitempty"`
}

// PWIPaymentStatus is the state of a protected bank transfer payment
type PWIPaymentStatus string

const (
	PWIStatusWaiting PWIPaymentStatus = "WAITING"
	PWIStatusSuccess PWIPaymentStatus = "SUCCESS"
	PWIStatusFailure PWIPaymentStatus = "FAILURE"
)

// PWIInitResponse is the result of starting a protected transfer payment
type PWIInitResponse struct {
	Status          PaymentStatus   `json:"status"`
	Token           string          `json:"token,omitempty"`
	TokenExpireTime int64           `json:"tokenExpireTime,omitempty"`
	HTMLContent     string          `json:"htmlContent,omitempty"`
	PaymentPageURL  string          `json:"paymentPageUrl,omitempty"`
	ConversationID  string          `json:"conversationId,omitempty"`
	ErrorCode       string          `json:"errorCode,omitempty"`
	ErrorMessage    string          `json:"errorMessage,omitempty"`
	RawResponse     json.RawMessage `json:"rawResponse,omitempty"`
}

// PWIRetrieveResponse is the polled state of a protected transfer payment.
// While PaymentStatus is WAITING, IBAN and BankName tell the payer where
// to send the transfer.
type PWIRetrieveResponse struct {
	Status         PaymentStatus    `json:"status"`
	PaymentStatus  PWIPaymentStatus `json:"paymentStatus,omitempty"`
	PaymentID      string           `json:"paymentId,omitempty"`
	Token          string           `json:"token,omitempty"`
	Price          string           `json:"price,omitempty"`
	PaidPrice      string           `json:"paidPrice,omitempty"`
	Currency       string           `json:"currency,omitempty"`
	BasketID       string           `json:"basketId,omitempty"`
	IBAN           string           `json:"iban,omitempty"`
	BankName       string           `json:"bankName,omitempty"`
	BuyerName      string           `json:"buyerName,omitempty"`
	BuyerSurname   string           `json:"buyerSurname,omitempty"`
	BuyerEmail     string           `json:"buyerEmail,omitempty"`
	ConversationID string           `json:"conversationId,omitempty"`
	ErrorCode      string           `json:"errorCode,omitempty"`
	ErrorMessage   string           `json:"errorMessage,omitempty"`
	RawResponse    json.RawMessage  `json:"rawResponse,omitempty"`
}

// CheckoutFormRequest starts a hosted checkout form session. The card is
// collected on the gateway's page, so none is supplied here.
type CheckoutFormRequest struct {
	Locale              string       `json:"locale,omitempty"`
	ConversationID      string       `json:"conversationId,omitempty"`
	Price               string       `json:"price" validate:"required,amount"`
	PaidPrice           string       `json:"paidPrice" validate:"required,amount"`
	Currency            Currency     `json:"currency" validate:"required"`
	BasketID            string       `json:"basketId" validate:"required"`
	CallbackURL         string       `json:"callbackUrl" validate:"required,url"`
	EnabledInstallments []int        `json:"enabledInstallments,omitempty"`
	Buyer               Buyer        `json:"buyer" validate:"required"`
	ShippingAddr        Address      `json:"shippingAddress" validate:"required"`
	BillingAddr         Address      `json:"billingAddress" validate:"required"`
	BasketItems         []BasketItem `json:"basketItems" validate:"required,min=1,dive"`
}

// CheckoutFormInitResponse carries the hosted form content and its token
type CheckoutFormInitResponse struct {
	Status              PaymentStatus   `json:"status"`
	CheckoutFormContent string          `json:"checkoutFormContent,omitempty"`
	PaymentPageURL      string          `json:"paymentPageUrl,omitempty"`
	Token               string          `json:"token,omitempty"`
	TokenExpireTime     int64           `json:"tokenExpireTime,omitempty"`
	ConversationID      string          `json:"conversationId,omitempty"`
	ErrorCode           string          `json:"errorCode,omitempty"`
	ErrorMessage        string          `json:"errorMessage,omitempty"`
	RawResponse         json.RawMessage `json:"rawResponse,omitempty"`
}

// CheckoutFormRetrieveResponse is the settled result of a checkout form
type CheckoutFormRetrieveResponse struct {
	Status               PaymentStatus   `json:"status"`
	PaymentID            string          `json:"paymentId,omitempty"`
	PaymentStatus        string          `json:"paymentStatus,omitempty"`
	Price                string          `json:"price,omitempty"`
	PaidPrice            string          `json:"paidPrice,omitempty"`
	Currency             string          `json:"currency,omitempty"`
	BasketID             string          `json:"basketId,omitempty"`
	Installment          int             `json:"installment,omitempty"`
	BinNumber            string          `json:"binNumber,omitempty"`
	LastFourDigits       string          `json:"lastFourDigits,omitempty"`
	CardType             string          `json:"cardType,omitempty"`
	CardAssociation      string          `json:"cardAssociation,omitempty"`
	CardFamily           string          `json:"cardFamily,omitempty"`
	CardToken            string          `json:"cardToken,omitempty"`
	CardUserKey          string          `json:"cardUserKey,omitempty"`
	FraudStatus          int             `json:"fraudStatus,omitempty"`
	PaymentTransactionID string          `json:"paymentTransactionId,omitempty"`
	ConversationID       string          `json:"conversationId,omitempty"`
	ErrorCode            string          `json:"errorCode,omitempty"`
	ErrorMessage         string          `json:"errorMessage,omitempty"`
	RawResponse          json.RawMessage `json:"rawResponse,omitempty"`
}

// SubscriptionStatus is the lifecycle state of a recurring subscription
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "ACTIVE"
	SubscriptionPending  SubscriptionStatus = "PENDING"
	SubscriptionCanceled SubscriptionStatus = "CANCELED"
	SubscriptionExpired  SubscriptionStatus = "EXPIRED"
	SubscriptionUnpaid   SubscriptionStatus = "UNPAID"
)

// PaymentInterval is the billing period of a pricing plan
type PaymentInterval string

const (
	IntervalDaily   PaymentInterval = "DAILY"
	IntervalWeekly  PaymentInterval = "WEEKLY"
	IntervalMonthly PaymentInterval = "MONTHLY"
	IntervalYearly  PaymentInterval = "YEARLY"
)

// SubscriptionProductRequest creates a product subscriptions attach to
type SubscriptionProductRequest struct {
	Locale         string `json:"locale,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description,omitempty"`
}

// SubscriptionProductResponse is the created product record
type SubscriptionProductResponse struct {
	Status        PaymentStatus   `json:"status"`
	ReferenceCode string          `json:"referenceCode,omitempty"`
	Name          string          `json:"name,omitempty"`
	ErrorCode     string          `json:"errorCode,omitempty"`
	ErrorMessage  string          `json:"errorMessage,omitempty"`
	RawResponse   json.RawMessage `json:"rawResponse,omitempty"`
}

// PricingPlanRequest creates a billing plan under a product
type PricingPlanRequest struct {
	Locale               string          `json:"locale,omitempty"`
	ConversationID       string          `json:"conversationId,omitempty"`
	ProductReferenceCode string          `json:"productReferenceCode" validate:"required"`
	Name                 string          `json:"name" validate:"required"`
	Price                string          `json:"price" validate:"required,amount"`
	Currency             Currency        `json:"currency,omitempty"`
	PaymentInterval      PaymentInterval `json:"paymentInterval" validate:"required"`
	PaymentIntervalCount int             `json:"paymentIntervalCount" validate:"required,min=1"`
	TrialPeriodDays      int             `json:"trialPeriodDays,omitempty"`
	RecurrenceCount      int             `json:"recurrenceCount,omitempty"`
}

// PricingPlanResponse is the created plan record
type PricingPlanResponse struct {
	Status               PaymentStatus   `json:"status"`
	ReferenceCode        string          `json:"referenceCode,omitempty"`
	ProductReferenceCode string          `json:"productReferenceCode,omitempty"`
	Name                 string          `json:"name,omitempty"`
	ErrorCode            string          `json:"errorCode,omitempty"`
	ErrorMessage         string          `json:"errorMessage,omitempty"`
	RawResponse          json.RawMessage `json:"rawResponse,omitempty"`
}

// SubscriptionCustomer is the subscriber identity and billing contact
type SubscriptionCustomer struct {
	Name           string   `json:"name" validate:"required"`
	Surname        string   `json:"surname" validate:"required"`
	Email          string   `json:"email" validate:"required,email"`
	GsmNumber      string   `json:"gsmNumber" validate:"required"`
	IdentityNumber string   `json:"identityNumber" validate:"required"`
	BillingAddr    Address  `json:"billingAddress" validate:"required"`
	ShippingAddr   *Address `json:"shippingAddress,omitempty"`
}

// SubscriptionInitRequest starts a subscription on a pricing plan
type SubscriptionInitRequest struct {
	Locale                   string               `json:"locale,omitempty"`
	ConversationID           string               `json:"conversationId,omitempty"`
	PricingPlanReferenceCode string               `json:"pricingPlanReferenceCode" validate:"required"`
	InitialStatus            SubscriptionStatus   `json:"subscriptionInitialStatus,omitempty"`
	Customer                 SubscriptionCustomer `json:"customer" validate:"required"`
	PaymentCard              PaymentCard          `json:"paymentCard" validate:"required"`
}

// SubscriptionUpgradeRequest moves a subscription to a new pricing plan
type SubscriptionUpgradeRequest struct {
	SubscriptionReferenceCode   string `json:"subscriptionReferenceCode" validate:"required"`
	NewPricingPlanReferenceCode string `json:"newPricingPlanReferenceCode" validate:"required"`
	UseTrial                    bool   `json:"useTrial,omitempty"`
	ResetRecurrenceCount        bool   `json:"resetRecurrenceCount,omitempty"`
}

// SubscriptionCardUpdateRequest starts a hosted form to replace the
// stored card of a subscription
type SubscriptionCardUpdateRequest struct {
	Locale                    string `json:"locale,omitempty"`
	ConversationID            string `json:"conversationId,omitempty"`
	SubscriptionReferenceCode string `json:"subscriptionReferenceCode" validate:"required"`
	CallbackURL               string `json:"callbackUrl" validate:"required,url"`
}

// SubscriptionCardUpdateResponse carries the card update form content
type SubscriptionCardUpdateResponse struct {
	Status              PaymentStatus   `json:"status"`
	Token               string          `json:"token,omitempty"`
	CheckoutFormContent string          `json:"checkoutFormContent,omitempty"`
	TokenExpireTime     int64           `json:"tokenExpireTime,omitempty"`
	PaymentPageURL      string          `json:"paymentPageUrl,omitempty"`
	ErrorCode           string          `json:"errorCode,omitempty"`
	ErrorMessage        string          `json:"errorMessage,omitempty"`
	RawResponse         json.RawMessage `json:"rawResponse,omitempty"`
}

// SubscriptionResponse is the normalized subscription record returned by
// initialize, retrieve, upgrade and cancel
type SubscriptionResponse struct {
	Status                   PaymentStatus      `json:"status"`
	ReferenceCode            string             `json:"referenceCode,omitempty"`
	ParentReferenceCode      string             `json:"parentReferenceCode,omitempty"`
	PricingPlanReferenceCode string             `json:"pricingPlanReferenceCode,omitempty"`
	CustomerReferenceCode    string             `json:"customerReferenceCode,omitempty"`
	SubscriptionStatus       SubscriptionStatus `json:"subscriptionStatus,omitempty"`
	TrialDays                int                `json:"trialDays,omitempty"`
	CreatedDate              int64              `json:"createdDate,omitempty"`
	StartDate                int64              `json:"startDate,omitempty"`
	EndDate                  int64              `json:"endDate,omitempty"`
	ErrorCode                string             `json:"errorCode,omitempty"`
	ErrorMessage             string             `json:"errorMessage,omitempty"`
	RawResponse              json.RawMessage    `json:"rawResponse,omitempty"`
}
