// Package betterpay provides a unified payment layer over Turkish payment
// gateways. One request model, one response model and one callback flow
// cover providers with very different wire formats: iyzico's signed JSON
// API, PayTR's hosted iframe and Akbank's virtual POS.
//
// # Overview
//
// Integrating a second payment provider usually means a second set of
// request structs, a second signature scheme and a second callback
// handler. better-pay normalizes all of that behind one interface:
//
//	pay, err := provider.New(provider.Config{
//	    Providers: map[string]provider.ProviderEntry{
//	        "iyzico": {Enabled: true, Config: map[string]string{
//	            "apiKey":    "...",
//	            "secretKey": "...",
//	            "baseUrl":   "https://sandbox-api.iyzipay.com",
//	        }},
//	    },
//	})
//	resp, err := pay.CreatePayment(ctx, request)
//
// Declined and failed payments come back as responses with Status set to
// failure, not as errors; errors are reserved for misuse (bad arguments,
// missing capability, broken configuration).
//
// # Supported Providers
//
//   - iyzico: direct payment, 3D Secure, refund, cancel, BIN check,
//     installments, checkout form, pay-with-iyzico and subscriptions
//   - PayTR: hosted iframe payments with salted-hash callbacks
//   - Akbank: virtual POS direct payment, 3D Secure, refund and void
//
// # Service Mode
//
// Besides library use, cmd/main.go runs the same providers behind an
// HTTP API:
//
//	POST /api/pay/{provider}/payment
//	POST /api/pay/{provider}/payment/init-3ds
//	POST /api/pay/{provider}/callback
//	POST /api/pay/{provider}/refund
//	POST /api/pay/{provider}/cancel
//	GET  /api/pay/{provider}/payment/{paymentId}
//
// Providers are enabled via environment variables (IYZICO_ENABLED,
// PAYTR_ENABLED, AKBANK_ENABLED) with credentials read from the env vars
// each provider declares.
package betterpay
