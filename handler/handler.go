package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/furkanczay/better-pay/infra/logger"
	"github.com/furkanczay/better-pay/infra/validate"
	"github.com/furkanczay/better-pay/provider"
)

const (
	serviceName    = "better-pay"
	serviceVersion = "1.0.0"
	routePrefix    = "/api/pay/"
)

// PaymentService is the slice of the provider facade the dispatcher
// needs. *provider.BetterPay satisfies it.
type PaymentService interface {
	IsProviderKnown(name string) bool
	IsProviderEnabled(name string) bool
	GetEnabledProviders() []string
	Use(name string) (provider.PaymentProvider, error)
}

// Request is a transport-neutral inbound request. Adapters build one
// from whatever runtime they serve (net/http, a serverless event, a
// test) and hand it to Handle.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response is the transport-neutral result of Handle. Body is a
// JSON-serializable value.
type Response struct {
	Status  int
	Headers map[string]string
	Body    any
}

// RouteContext is the parsed provider/action pair of a request path
type RouteContext struct {
	Provider  string
	Action    string
	PaymentID string
}

// Handler dispatches payment API requests to the configured providers
type Handler struct {
	pay      PaymentService
	validate *validator.Validate
}

// New creates a dispatcher over the given provider facade
func New(pay PaymentService) *Handler {
	return &Handler{
		pay:      pay,
		validate: validate.New(),
	}
}

var paymentIDPattern = regexp.MustCompile(`^payment/([^/]+)$`)

// ParseRoute extracts the provider and action from a request path.
// The route prefix may sit anywhere in the path, so mounting the
// service under a gateway base path keeps working. Returns nil when
// the path does not contain a routable provider/action pair.
func ParseRoute(path string) *RouteContext {
	idx := strings.Index(path, routePrefix)
	if idx < 0 {
		return nil
	}

	rest := path[idx+len(routePrefix):]
	segments := strings.Split(rest, "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return nil
	}

	route := &RouteContext{
		Provider: segments[0],
		Action:   strings.Join(segments[1:], "/"),
	}
	if m := paymentIDPattern.FindStringSubmatch(route.Action); m != nil {
		// payment/init-3ds and payment/complete-3ds are sub-actions,
		// not payment ids
		if m[1] != "init-3ds" && m[1] != "complete-3ds" {
			route.PaymentID = m[1]
		}
	}
	return route
}

// Handle routes a single request and never panics out; unexpected
// failures become a 500 response.
func (h *Handler) Handle(ctx context.Context, req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while handling payment request", fmt.Errorf("%v", r), logger.LogContext{
				Fields: map[string]any{"url": req.URL},
			})
			resp = errorResponse(http.StatusInternalServerError, "Internal server error")
		}
	}()

	path := cleanPath(req.URL)

	// Any path ending in /health or /ok is the health route, even
	// /api/pay/<provider>/health, so neither name can be used as an
	// action.
	if path == "/health" || path == "/ok" || strings.HasSuffix(path, "/health") || strings.HasSuffix(path, "/ok") {
		return h.health()
	}

	// A provider name nothing has registered is not a route at all;
	// 400 is reserved for providers that exist but are not enabled.
	route := ParseRoute(path)
	if route == nil || !h.pay.IsProviderKnown(route.Provider) {
		return errorResponse(http.StatusNotFound, "Route not found")
	}

	if !h.pay.IsProviderEnabled(route.Provider) {
		return errorResponse(http.StatusBadRequest,
			fmt.Sprintf("Provider '%s' is not enabled or configured", route.Provider))
	}

	p, err := h.pay.Use(route.Provider)
	if err != nil {
		return errorResponse(http.StatusBadRequest, err.Error())
	}

	switch route.Action {
	case "payment":
		return h.createPayment(ctx, p, req)
	case "payment/init-3ds":
		return h.initThreeDS(ctx, p, req)
	case "payment/complete-3ds", "callback":
		return h.completeThreeDS(ctx, p, req)
	case "refund":
		return h.refund(ctx, p, req)
	case "cancel":
		return h.cancel(ctx, p, req)
	default:
		if req.Method == http.MethodGet && route.PaymentID != "" {
			return h.getPayment(ctx, p, route.PaymentID)
		}
		return errorResponse(http.StatusNotFound,
			fmt.Sprintf("Action '%s' not found", route.Action))
	}
}

func (h *Handler) createPayment(ctx context.Context, p provider.PaymentProvider, req Request) Response {
	if resp, ok := requirePost(req); !ok {
		return resp
	}

	var payment provider.PaymentRequest
	if err := json.Unmarshal(req.Body, &payment); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid request format")
	}
	if err := h.validate.Struct(payment); err != nil {
		return errorResponse(http.StatusBadRequest, fmt.Sprintf("Validation error: %s", err))
	}

	result, err := p.CreatePayment(ctx, payment)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, err.Error())
	}
	return okResponse(result)
}

func (h *Handler) initThreeDS(ctx context.Context, p provider.PaymentProvider, req Request) Response {
	if resp, ok := requirePost(req); !ok {
		return resp
	}

	var payment provider.ThreeDSPaymentRequest
	if err := json.Unmarshal(req.Body, &payment); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid request format")
	}
	if err := h.validate.Struct(payment); err != nil {
		return errorResponse(http.StatusBadRequest, fmt.Sprintf("Validation error: %s", err))
	}

	result, err := p.InitThreeDSPayment(ctx, payment)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, err.Error())
	}
	return okResponse(result)
}

func (h *Handler) completeThreeDS(ctx context.Context, p provider.PaymentProvider, req Request) Response {
	if resp, ok := requirePost(req); !ok {
		return resp
	}

	var callback provider.CallbackData
	if err := json.Unmarshal(req.Body, &callback); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid request format")
	}

	result, err := p.CompleteThreeDSPayment(ctx, callback)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, err.Error())
	}
	return okResponse(result)
}

func (h *Handler) refund(ctx context.Context, p provider.PaymentProvider, req Request) Response {
	if resp, ok := requirePost(req); !ok {
		return resp
	}

	var refund provider.RefundRequest
	if err := json.Unmarshal(req.Body, &refund); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid request format")
	}

	result, err := p.Refund(ctx, refund)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, err.Error())
	}
	return okResponse(result)
}

func (h *Handler) cancel(ctx context.Context, p provider.PaymentProvider, req Request) Response {
	if resp, ok := requirePost(req); !ok {
		return resp
	}

	var cancel provider.CancelRequest
	if err := json.Unmarshal(req.Body, &cancel); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid request format")
	}

	result, err := p.Cancel(ctx, cancel)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, err.Error())
	}
	return okResponse(result)
}

func (h *Handler) getPayment(ctx context.Context, p provider.PaymentProvider, paymentID string) Response {
	result, err := p.GetPayment(ctx, paymentID)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, err.Error())
	}
	return okResponse(result)
}

func (h *Handler) health() Response {
	return okResponse(map[string]any{
		"status":    "ok",
		"service":   serviceName,
		"version":   serviceVersion,
		"providers": h.pay.GetEnabledProviders(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// cleanPath strips the query string and a trailing slash
func cleanPath(rawURL string) string {
	path := rawURL
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

func requirePost(req Request) (Response, bool) {
	if req.Method != http.MethodPost {
		return errorResponse(http.StatusMethodNotAllowed, "Method not allowed"), false
	}
	return Response{}, true
}

func okResponse(body any) Response {
	return Response{
		Status:  http.StatusOK,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    body,
	}
}

func errorResponse(status int, message string) Response {
	return Response{
		Status:  status,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body: map[string]any{
			"error":     true,
			"message":   message,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}
}
