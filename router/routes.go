package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/furkanczay/better-pay/handler"
	"github.com/furkanczay/better-pay/infra/middle"
	"github.com/furkanczay/better-pay/infra/opensearch"
	"github.com/furkanczay/better-pay/provider"

	// Import for side-effect registration
	_ "github.com/furkanczay/better-pay/provider/akbank"
	_ "github.com/furkanczay/better-pay/provider/iyzico"
	_ "github.com/furkanczay/better-pay/provider/paytr"
)

// New assembles the HTTP router: middleware stack, payment dispatcher
// and health endpoints. openSearchLogger may be nil; request logging is
// skipped then.
func New(pay *provider.BetterPay, openSearchLogger *opensearch.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middle.PanicRecoveryMiddleware())

	if openSearchLogger != nil {
		r.Use(middle.PaymentLoggingMiddleware(openSearchLogger))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "Content-Length", "Access-Control-Allow-Origin"},
		AllowCredentials: true,
		MaxAge:           300, // Preflight cache time (second)
	}))

	h := handler.New(pay)

	r.Handle("/api/pay/*", h)
	r.Get("/health", h.ServeHTTP)
	r.Get("/ok", h.ServeHTTP)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		h.ServeHTTP(w, req)
	})

	return r
}
