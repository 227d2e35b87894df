package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/easydelivery/easydelivery/internal/metrics"
	"github.com/easydelivery/easydelivery/internal/middleware"
	"github.com/easydelivery/easydelivery/internal/service"
)

// RouterConfig collects everything the router serves.
type RouterConfig struct {
	Logger *slog.Logger

	Users    *service.UserService
	Parcels  *service.ParcelService
	Payments *service.PaymentService

	// HealthCheckers are pinged by /readyz, keyed by dependency name.
	HealthCheckers map[string]HealthChecker

	// Metrics records request latency. MetricsHandler, when set, is served
	// at /metrics.
	Metrics        metrics.Recorder
	MetricsHandler http.Handler

	CORS               middleware.CORSConfig
	Security           middleware.SecurityConfig
	MaxRequestBodySize int64

	// RateLimit applies to the write routes.
	RateLimit middleware.RateLimitConfig
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := New()
	healthHandler := NewHealthHandler(cfg.HealthCheckers)
	userHandler := NewUserHandler(cfg.Users, logger)
	parcelHandler := NewParcelHandler(cfg.Parcels, logger)
	paymentHandler := NewPaymentHandler(cfg.Payments, logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Security(cfg.Security))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	r.Get("/", h.Hello)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	limited := r.With(middleware.RateLimitIP(cfg.RateLimit))

	limited.Post("/users", userHandler.Create)

	r.Get("/parcels", parcelHandler.List)
	r.Get("/parcels/{id}", parcelHandler.Get)
	limited.Post("/parcels", parcelHandler.Create)

	limited.Post("/create-payment-intent", paymentHandler.CreateIntent)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
