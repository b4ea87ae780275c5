package provider

import (
	"context"
	"fmt"
)

// Optional capabilities are probed by type assertion. The As helpers
// wrap the probe so callers get a uniform ErrNotSupported to test with
// errors.Is instead of sprinkling assertions around.

// AsBinChecker returns the provider's BIN lookup capability
func AsBinChecker(p PaymentProvider) (BinChecker, error) {
	if c, ok := p.(BinChecker); ok {
		return c, nil
	}
	return nil, fmt.Errorf("bin check is %w", ErrNotSupported)
}

// AsInstallmentQueryer returns the provider's installment query capability
func AsInstallmentQueryer(p PaymentProvider) (InstallmentQueryer, error) {
	if c, ok := p.(InstallmentQueryer); ok {
		return c, nil
	}
	return nil, fmt.Errorf("installment info is %w", ErrNotSupported)
}

// AsPWIPayer returns the provider's protected transfer capability
func AsPWIPayer(p PaymentProvider) (PWIPayer, error) {
	if c, ok := p.(PWIPayer); ok {
		return c, nil
	}
	return nil, fmt.Errorf("pay with IBAN is %w", ErrNotSupported)
}

// AsCheckoutFormer returns the provider's hosted checkout capability
func AsCheckoutFormer(p PaymentProvider) (CheckoutFormer, error) {
	if c, ok := p.(CheckoutFormer); ok {
		return c, nil
	}
	return nil, fmt.Errorf("checkout form is %w", ErrNotSupported)
}

// AsSubscriptionManager returns the provider's recurring billing capability
func AsSubscriptionManager(p PaymentProvider) (SubscriptionManager, error) {
	if c, ok := p.(SubscriptionManager); ok {
		return c, nil
	}
	return nil, fmt.Errorf("subscriptions are %w", ErrNotSupported)
}

// Facade accessors for the optional capabilities of the default provider.

// BinCheck resolves BIN metadata with the default provider
func (bp *BetterPay) BinCheck(ctx context.Context, binNumber string) (*BinCheckResponse, error) {
	p, err := bp.useDefault()
	if err != nil {
		return nil, err
	}
	c, err := AsBinChecker(p)
	if err != nil {
		return nil, err
	}
	return c.BinCheck(ctx, binNumber)
}

// InstallmentInfo queries installment offers with the default provider
func (bp *BetterPay) InstallmentInfo(ctx context.Context, request InstallmentInfoRequest) (*InstallmentInfoResponse, error) {
	p, err := bp.useDefault()
	if err != nil {
		return nil, err
	}
	c, err := AsInstallmentQueryer(p)
	if err != nil {
		return nil, err
	}
	return c.InstallmentInfo(ctx, request)
}
