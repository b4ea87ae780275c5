// Package provider implements a unified payment processing interface that
// abstracts multiple payment gateways behind a single, consistent API.
//
// # Core Concepts
//
//   - PaymentProvider: the mandatory interface every gateway implements
//     (create, 3D Secure init/complete, refund, cancel, query)
//   - BetterPay: the facade that owns configured providers and forwards
//     calls to the default one
//   - Registry: maps provider names to factories; gateway packages
//     register themselves in init()
//   - PaymentRequest/PaymentResponse: the normalized request and
//     response model shared by all gateways
//
// # Result Semantics
//
// Gateway declines, gateway-reported errors and transport failures are
// all reported as responses with Status failure and a nil error, so a
// declined card and a timed-out gateway flow through the same path.
// A non-nil error means the call itself was invalid: missing required
// arguments, a provider that is not configured, or a capability the
// provider does not implement.
//
// # Optional Capabilities
//
// Beyond the mandatory interface, providers may implement BinChecker,
// InstallmentQueryer, CheckoutFormer, PWIPayer or SubscriptionManager.
// Capabilities are probed with the As helpers:
//
//	checker, err := provider.AsBinChecker(p)
//	if errors.Is(err, provider.ErrNotSupported) {
//	    // provider has no BIN lookup
//	}
//
// # Money
//
// Amounts are decimal strings ("100.50") at the API surface. Providers
// that bill in minor units (kurus) convert with ToMinorUnits and
// FromMinorUnits; the codec rejects negative amounts and more than two
// fraction digits rather than rounding silently past half-up on a
// third digit.
//
// # Adding a Provider
//
// A new gateway package implements PaymentProvider, declares its
// credential fields via GetRequiredConfig and registers a factory:
//
//	func init() {
//	    provider.Register("acmepay", func() provider.PaymentProvider {
//	        return &AcmeProvider{}
//	    })
//	}
//
// Initialize validates the credential map with ValidateConfigFields so
// misconfiguration surfaces at startup, not on the first charge.
package provider
