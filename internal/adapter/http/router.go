package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/famledger/internal/adapter/http/handler"
	"github.com/iho/famledger/internal/adapter/http/middleware"
	"github.com/iho/famledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	InstallmentHandler *handler.InstallmentHandler
	RecurringHandler   *handler.RecurringHandler
	DuplicateHandler   *handler.DuplicateHandler
	EntryHandler       *handler.EntryHandler
	SummaryHandler     *handler.SummaryHandler
	SettingsHandler    *handler.SettingsHandler
	HealthHandler      *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter

	// Metrics and Gatherer are optional; /metrics is served when Gatherer is set.
	Metrics  middleware.HTTPObserver
	Gatherer prometheus.Gatherer

	Logger         zerolog.Logger
	RequestTimeout time.Duration
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		r.Route("/installments", func(r chi.Router) {
			r.Post("/", cfg.InstallmentHandler.Expand)
			r.Get("/{parentId}", cfg.InstallmentHandler.Get)
			r.Put("/{parentId}", cfg.InstallmentHandler.Resize)
		})

		r.Route("/recurring-rules", func(r chi.Router) {
			r.Post("/", cfg.RecurringHandler.Create)
			r.Get("/", cfg.RecurringHandler.List)
			r.Post("/{id}/generate", cfg.RecurringHandler.Generate)
			r.Post("/{id}/retire", cfg.RecurringHandler.Retire)
		})

		r.Route("/duplicates", func(r chi.Router) {
			r.Get("/", cfg.DuplicateHandler.List)
			r.Post("/prune", cfg.DuplicateHandler.Prune)
		})

		r.Route("/entries", func(r chi.Router) {
			r.Post("/", cfg.EntryHandler.Create)
			r.Get("/", cfg.EntryHandler.List)
			r.Post("/delete", cfg.EntryHandler.Delete)
			r.Get("/{id}", cfg.EntryHandler.Get)
		})

		r.Get("/summary", cfg.SummaryHandler.Get)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", cfg.SettingsHandler.Get)
			r.Put("/", cfg.SettingsHandler.Update)
		})
	})

	return r
}
