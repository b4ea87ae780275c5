package provider

import (
	"context"
	"fmt"
	"sort"
)

// ProviderEntry enables one provider and carries its credentials
type ProviderEntry struct {
	Enabled bool              `json:"enabled"`
	Config  map[string]string `json:"config"`
}

// Config declares which providers a BetterPay instance runs with.
// DefaultProvider is optional; with exactly one enabled provider it is
// inferred automatically.
type Config struct {
	Providers       map[string]ProviderEntry `json:"providers"`
	DefaultProvider string                   `json:"defaultProvider,omitempty"`
}

// BetterPay is the facade over the configured payment providers.
//
// All providers are constructed and their credentials validated once in
// New; the resulting instance is immutable and safe for concurrent use.
type BetterPay struct {
	providers       map[string]PaymentProvider
	registry        *Registry
	defaultProvider string
}

// New builds a BetterPay from the default registry. Every enabled
// provider is initialized eagerly, so credential problems surface here
// rather than on the first payment.
func New(config Config) (*BetterPay, error) {
	return NewWithRegistry(config, DefaultRegistry)
}

// NewWithRegistry is New with an explicit provider registry
func NewWithRegistry(config Config, registry *Registry) (*BetterPay, error) {
	bp := &BetterPay{
		providers:       make(map[string]PaymentProvider),
		registry:        registry,
		defaultProvider: config.DefaultProvider,
	}

	for name, entry := range config.Providers {
		if !entry.Enabled {
			continue
		}

		p, err := registry.CreateProvider(name)
		if err != nil {
			return nil, err
		}
		if err := p.Initialize(entry.Config); err != nil {
			return nil, err
		}
		bp.providers[name] = p
	}

	if bp.defaultProvider != "" {
		if _, ok := bp.providers[bp.defaultProvider]; !ok {
			return nil, fmt.Errorf("default provider '%s' is not enabled or configured", bp.defaultProvider)
		}
	}

	// A single enabled provider is the obvious default
	if bp.defaultProvider == "" && len(bp.providers) == 1 {
		for name := range bp.providers {
			bp.defaultProvider = name
		}
	}

	return bp, nil
}

// Use returns the named provider for direct calls
func (bp *BetterPay) Use(name string) (PaymentProvider, error) {
	p, ok := bp.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider '%s' is not enabled or configured", name)
	}
	return p, nil
}

// GetEnabledProviders lists the enabled provider names, sorted
func (bp *BetterPay) GetEnabledProviders() []string {
	names := make([]string, 0, len(bp.providers))
	for name := range bp.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsProviderEnabled reports whether the named provider is available
func (bp *BetterPay) IsProviderEnabled(name string) bool {
	_, ok := bp.providers[name]
	return ok
}

// IsProviderKnown reports whether the named provider is registered at
// all, enabled or not
func (bp *BetterPay) IsProviderKnown(name string) bool {
	_, err := bp.registry.Get(name)
	return err == nil
}

// DefaultProvider returns the resolved default provider name, or ""
func (bp *BetterPay) DefaultProvider() string {
	return bp.defaultProvider
}

func (bp *BetterPay) useDefault() (PaymentProvider, error) {
	if bp.defaultProvider == "" {
		return nil, fmt.Errorf("no default provider set: select one with Use or set DefaultProvider in configuration")
	}
	return bp.Use(bp.defaultProvider)
}

// CreatePayment charges with the default provider
func (bp *BetterPay) CreatePayment(ctx context.Context, request PaymentRequest) (*PaymentResponse, error) {
	p, err := bp.useDefault()
	if err != nil {
		return nil, err
	}
	return p.CreatePayment(ctx, request)
}

// InitThreeDSPayment starts a 3D Secure flow with the default provider
func (bp *BetterPay) InitThreeDSPayment(ctx context.Context, request ThreeDSPaymentRequest) (*ThreeDSInitResponse, error) {
	p, err := bp.useDefault()
	if err != nil {
		return nil, err
	}
	return p.InitThreeDSPayment(ctx, request)
}

// CompleteThreeDSPayment completes a 3D Secure flow with the default provider
func (bp *BetterPay) CompleteThreeDSPayment(ctx context.Context, callback CallbackData) (*PaymentResponse, error) {
	p, err := bp.useDefault()
	if err != nil {
		return nil, err
	}
	return p.CompleteThreeDSPayment(ctx, callback)
}

// Refund refunds with the default provider
func (bp *BetterPay) Refund(ctx context.Context, request RefundRequest) (*RefundResponse, error) {
	p, err := bp.useDefault()
	if err != nil {
		return nil, err
	}
	return p.Refund(ctx, request)
}

// Cancel cancels with the default provider
func (bp *BetterPay) Cancel(ctx context.Context, request CancelRequest) (*CancelResponse, error) {
	p, err := bp.useDefault()
	if err != nil {
		return nil, err
	}
	return p.Cancel(ctx, request)
}

// GetPayment queries a payment with the default provider
func (bp *BetterPay) GetPayment(ctx context.Context, paymentID string) (*PaymentResponse, error) {
	p, err := bp.useDefault()
	if err != nil {
		return nil, err
	}
	return p.GetPayment(ctx, paymentID)
}
