package iyzico

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/furkanczay/better-pay/provider"
)

// Subscription endpoints live under the v2 API; they share the request
// signing of the payment endpoints but nest their payload under "data".

type subscriptionResult struct {
	Status       string `json:"status"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
	Data         struct {
		ReferenceCode            string `json:"referenceCode"`
		ParentReferenceCode      string `json:"parentReferenceCode"`
		PricingPlanReferenceCode string `json:"pricingPlanReferenceCode"`
		CustomerReferenceCode    string `json:"customerReferenceCode"`
		SubscriptionStatus       string `json:"subscriptionStatus"`
		TrialDays                int    `json:"trialDays"`
		CreatedDate              int64  `json:"createdDate"`
		StartDate                int64  `json:"startDate"`
		EndDate                  int64  `json:"endDate"`
	} `json:"data"`
}

func (p *IyzicoProvider) subscriptionResponse(body []byte, sendErr error) (*provider.SubscriptionResponse, error) {
	if sendErr != nil {
		return &provider.SubscriptionResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: sendErr.Error(),
			RawResponse:  rawJSON(body),
		}, nil
	}

	var result subscriptionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return &provider.SubscriptionResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: fmt.Sprintf("iyzico: unexpected response: %v", err),
			RawResponse:  rawJSON(body),
		}, nil
	}

	return &provider.SubscriptionResponse{
		Status:                   mapStatus(result.Status),
		ReferenceCode:            result.Data.ReferenceCode,
		ParentReferenceCode:      result.Data.ParentReferenceCode,
		PricingPlanReferenceCode: result.Data.PricingPlanReferenceCode,
		CustomerReferenceCode:    result.Data.CustomerReferenceCode,
		SubscriptionStatus:       provider.SubscriptionStatus(result.Data.SubscriptionStatus),
		TrialDays:                result.Data.TrialDays,
		CreatedDate:              result.Data.CreatedDate,
		StartDate:                result.Data.StartDate,
		EndDate:                  result.Data.EndDate,
		ErrorCode:                result.ErrorCode,
		ErrorMessage:             result.ErrorMessage,
		RawResponse:              rawJSON(body),
	}, nil
}

// CreateSubscriptionProduct creates the product subscriptions attach to
func (p *IyzicoProvider) CreateSubscriptionProduct(ctx context.Context, request provider.SubscriptionProductRequest) (*provider.SubscriptionProductResponse, error) {
	if request.Name == "" {
		return nil, errors.New("iyzico: product name is required")
	}

	body, err := p.send(ctx, endpointSubscriptionProducts, map[string]any{
		"locale":         p.requestLocale(request.Locale),
		"conversationId": p.conversationID(request.ConversationID),
		"name":           request.Name,
		"description":    request.Description,
	})
	if err != nil {
		return &provider.SubscriptionProductResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: err.Error(),
			RawResponse:  rawJSON(body),
		}, nil
	}

	var result struct {
		Status       string `json:"status"`
		ErrorCode    string `json:"errorCode"`
		ErrorMessage string `json:"errorMessage"`
		Data         struct {
			ReferenceCode string `json:"referenceCode"`
			Name          string `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return &provider.SubscriptionProductResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: fmt.Sprintf("iyzico: unexpected response: %v", err),
			RawResponse:  rawJSON(body),
		}, nil
	}

	return &provider.SubscriptionProductResponse{
		Status:        mapStatus(result.Status),
		ReferenceCode: result.Data.ReferenceCode,
		Name:          result.Data.Name,
		ErrorCode:     result.ErrorCode,
		ErrorMessage:  result.ErrorMessage,
		RawResponse:   rawJSON(body),
	}, nil
}

// CreatePricingPlan creates a billing plan under an existing product
func (p *IyzicoProvider) CreatePricingPlan(ctx context.Context, request provider.PricingPlanRequest) (*provider.PricingPlanResponse, error) {
	if request.ProductReferenceCode == "" {
		return nil, errors.New("iyzico: productReferenceCode is required")
	}

	currency := request.Currency
	if currency == "" {
		currency = provider.CurrencyTRY
	}

	payload := map[string]any{
		"locale":               p.requestLocale(request.Locale),
		"conversationId":       p.conversationID(request.ConversationID),
		"name":                 request.Name,
		"price":                request.Price,
		"currencyCode":         string(currency),
		"paymentInterval":      string(request.PaymentInterval),
		"paymentIntervalCount": request.PaymentIntervalCount,
		"planPaymentType":      "RECURRING",
	}
	if request.TrialPeriodDays > 0 {
		payload["trialPeriodDays"] = request.TrialPeriodDays
	}
	if request.RecurrenceCount > 0 {
		payload["recurrenceCount"] = request.RecurrenceCount
	}

	endpoint := endpointSubscriptionProducts + "/" + request.ProductReferenceCode + "/pricing-plans"
	body, err := p.send(ctx, endpoint, payload)
	if err != nil {
		return &provider.PricingPlanResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: err.Error(),
			RawResponse:  rawJSON(body),
		}, nil
	}

	var result struct {
		Status       string `json:"status"`
		ErrorCode    string `json:"errorCode"`
		ErrorMessage string `json:"errorMessage"`
		Data         struct {
			ReferenceCode        string `json:"referenceCode"`
			ProductReferenceCode string `json:"productReferenceCode"`
			Name                 string `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return &provider.PricingPlanResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: fmt.Sprintf("iyzico: unexpected response: %v", err),
			RawResponse:  rawJSON(body),
		}, nil
	}

	return &provider.PricingPlanResponse{
		Status:               mapStatus(result.Status),
		ReferenceCode:        result.Data.ReferenceCode,
		ProductReferenceCode: result.Data.ProductReferenceCode,
		Name:                 result.Data.Name,
		ErrorCode:            result.ErrorCode,
		ErrorMessage:         result.ErrorMessage,
		RawResponse:          rawJSON(body),
	}, nil
}

// InitializeSubscription starts recurring billing on a pricing plan
func (p *IyzicoProvider) InitializeSubscription(ctx context.Context, request provider.SubscriptionInitRequest) (*provider.SubscriptionResponse, error) {
	if request.PricingPlanReferenceCode == "" {
		return nil, errors.New("iyzico: pricingPlanReferenceCode is required")
	}

	initialStatus := request.InitialStatus
	if initialStatus == "" {
		initialStatus = provider.SubscriptionActive
	}

	customer := map[string]any{
		"name":           request.Customer.Name,
		"surname":        request.Customer.Surname,
		"email":          request.Customer.Email,
		"gsmNumber":      request.Customer.GsmNumber,
		"identityNumber": request.Customer.IdentityNumber,
		"billingAddress": mapAddress(request.Customer.BillingAddr),
	}
	if request.Customer.ShippingAddr != nil {
		customer["shippingAddress"] = mapAddress(*request.Customer.ShippingAddr)
	}

	body, err := p.send(ctx, endpointSubscriptionInit, map[string]any{
		"locale":                    p.requestLocale(request.Locale),
		"conversationId":            p.conversationID(request.ConversationID),
		"pricingPlanReferenceCode":  request.PricingPlanReferenceCode,
		"subscriptionInitialStatus": string(initialStatus),
		"customer":                  customer,
		"paymentCard": map[string]any{
			"cardHolderName": request.PaymentCard.CardHolderName,
			"cardNumber":     request.PaymentCard.CardNumber,
			"expireMonth":    request.PaymentCard.ExpireMonth,
			"expireYear":     request.PaymentCard.ExpireYear,
			"cvc":            request.PaymentCard.CVC,
		},
	})
	return p.subscriptionResponse(body, err)
}

// RetrieveSubscription fetches a subscription by reference code
func (p *IyzicoProvider) RetrieveSubscription(ctx context.Context, referenceCode string) (*provider.SubscriptionResponse, error) {
	if referenceCode == "" {
		return nil, errors.New("iyzico: subscription reference code is required")
	}

	body, err := p.send(ctx, endpointSubscriptions+"/"+referenceCode, map[string]any{
		"locale": p.locale,
	})
	return p.subscriptionResponse(body, err)
}

// UpgradeSubscription moves a subscription to a new pricing plan
func (p *IyzicoProvider) UpgradeSubscription(ctx context.Context, request provider.SubscriptionUpgradeRequest) (*provider.SubscriptionResponse, error) {
	if request.SubscriptionReferenceCode == "" {
		return nil, errors.New("iyzico: subscriptionReferenceCode is required")
	}
	if request.NewPricingPlanReferenceCode == "" {
		return nil, errors.New("iyzico: newPricingPlanReferenceCode is required")
	}

	body, err := p.send(ctx, endpointSubscriptions+"/"+request.SubscriptionReferenceCode+"/upgrade", map[string]any{
		"locale":                      p.locale,
		"newPricingPlanReferenceCode": request.NewPricingPlanReferenceCode,
		"useTrial":                    request.UseTrial,
		"resetRecurrenceCount":        request.ResetRecurrenceCount,
	})
	return p.subscriptionResponse(body, err)
}

// CancelSubscription stops recurring billing on a subscription
func (p *IyzicoProvider) CancelSubscription(ctx context.Context, referenceCode string) (*provider.SubscriptionResponse, error) {
	if referenceCode == "" {
		return nil, errors.New("iyzico: subscription reference code is required")
	}

	body, err := p.send(ctx, endpointSubscriptions+"/"+referenceCode+"/cancel", map[string]any{
		"locale": p.locale,
	})
	return p.subscriptionResponse(body, err)
}

// UpdateSubscriptionCard opens a hosted form to replace the stored card
func (p *IyzicoProvider) UpdateSubscriptionCard(ctx context.Context, request provider.SubscriptionCardUpdateRequest) (*provider.SubscriptionCardUpdateResponse, error) {
	if request.SubscriptionReferenceCode == "" {
		return nil, errors.New("iyzico: subscriptionReferenceCode is required")
	}
	if request.CallbackURL == "" {
		return nil, errors.New("iyzico: callbackUrl is required")
	}

	body, err := p.send(ctx, endpointSubscriptionCard, map[string]any{
		"locale":                    p.requestLocale(request.Locale),
		"conversationId":            p.conversationID(request.ConversationID),
		"subscriptionReferenceCode": request.SubscriptionReferenceCode,
		"callbackUrl":               request.CallbackURL,
	})
	if err != nil {
		return &provider.SubscriptionCardUpdateResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: err.Error(),
			RawResponse:  rawJSON(body),
		}, nil
	}

	var result struct {
		Status       string `json:"status"`
		ErrorCode    string `json:"errorCode"`
		ErrorMessage string `json:"errorMessage"`
		Data         struct {
			Token               string `json:"token"`
			CheckoutFormContent string `json:"checkoutFormContent"`
			TokenExpireTime     int64  `json:"tokenExpireTime"`
			PaymentPageURL      string `json:"paymentPageUrl"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return &provider.SubscriptionCardUpdateResponse{
			Status:       provider.StatusFailure,
			ErrorMessage: fmt.Sprintf("iyzico: unexpected response: %v", err),
			RawResponse:  rawJSON(body),
		}, nil
	}

	return &provider.SubscriptionCardUpdateResponse{
		Status:              mapStatus(result.Status),
		Token:               result.Data.Token,
		CheckoutFormContent: result.Data.CheckoutFormContent,
		TokenExpireTime:     result.Data.TokenExpireTime,
		PaymentPageURL:      result.Data.PaymentPageURL,
		ErrorCode:           result.ErrorCode,
		ErrorMessage:        result.ErrorMessage,
		RawResponse:         rawJSON(body),
	}, nil
}
