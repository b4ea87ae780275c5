// Package handler dispatches payment API requests to the configured
// providers without binding to a specific HTTP framework.
//
// The dispatcher works on transport-neutral Request/Response values, so
// the same routing logic serves net/http, a serverless event, or a
// test harness:
//
//	h := handler.New(pay)
//	resp := h.Handle(ctx, handler.Request{
//	    Method: "POST",
//	    URL:    "/api/pay/iyzico/payment",
//	    Body:   body,
//	})
//
// Routes follow /api/pay/{provider}/{action}; the prefix may appear
// anywhere in the path, so the service keeps working behind a gateway
// base path. Supported actions:
//
//	POST /api/pay/{provider}/payment                direct charge
//	POST /api/pay/{provider}/payment/init-3ds       start 3D Secure
//	POST /api/pay/{provider}/payment/complete-3ds   finish 3D Secure
//	POST /api/pay/{provider}/callback               alias of complete-3ds
//	POST /api/pay/{provider}/refund                 refund
//	POST /api/pay/{provider}/cancel                 cancel/void
//	GET  /api/pay/{provider}/payment/{paymentId}    query status
//
// Any path ending in /health or /ok answers with service status and
// the enabled provider list. A provider name no package has registered
// is a 404; a registered provider that is not enabled is a 400.
// Errors use a flat envelope:
//
//	{"error": true, "message": "...", "timestamp": "..."}
//
// The package also ships an http.Handler adapter (ServeHTTP) that
// flattens form-encoded gateway callbacks into JSON before dispatch.
package handler
