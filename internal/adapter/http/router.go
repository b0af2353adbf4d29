package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/caixaflow/caixaflow/internal/adapter/http/handler"
	"github.com/caixaflow/caixaflow/internal/adapter/http/middleware"
	"github.com/caixaflow/caixaflow/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler    *handler.AccountHandler
	LedgerHandler     *handler.LedgerHandler
	StatementHandler  *handler.StatementHandler
	TransferHandler   *handler.TransferHandler
	RecurringHandler  *handler.RecurringExpenseHandler
	ProjectionHandler *handler.ProjectionHandler
	SessionHandler    *handler.SessionHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	RateLimiter       *middleware.RateLimiter
	RequestLogger     *middleware.LoggingMiddleware
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RequestLogger != nil {
		r.Use(cfg.RequestLogger.Wrap)
	}

	// Health and observability endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/balance", cfg.LedgerHandler.Balance)
			r.Get("/{id}/movements", cfg.StatementHandler.Movements)
			r.Get("/{id}/statement", cfg.StatementHandler.Statement)
			r.Get("/{id}/statement/daily", cfg.StatementHandler.Daily)
			r.Get("/{id}/transfers", cfg.TransferHandler.ListByAccount)
			r.Post("/{id}/sessions", cfg.SessionHandler.Open)
			r.Get("/{id}/sessions/current", cfg.SessionHandler.Current)
		})

		// Movements
		r.Post("/movements", cfg.LedgerHandler.RecordMovement)

		// Balances
		r.Route("/balances", func(r chi.Router) {
			r.Get("/total", cfg.LedgerHandler.TotalBalance)
			r.Get("/consistency", cfg.LedgerHandler.CheckConsistency)
		})

		// Transfers
		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", cfg.TransferHandler.Create)
			r.Post("/sweep", cfg.TransferHandler.Sweep)
			r.Get("/{id}", cfg.TransferHandler.Get)
			r.Post("/{id}/cancel", cfg.TransferHandler.Cancel)
		})

		// Recurring expenses
		r.Route("/recurring-expenses", func(r chi.Router) {
			r.Post("/", cfg.RecurringHandler.Create)
			r.Get("/", cfg.RecurringHandler.List)
			r.Get("/{id}", cfg.RecurringHandler.Get)
			r.Post("/{id}/activate", cfg.RecurringHandler.Activate)
			r.Post("/{id}/deactivate", cfg.RecurringHandler.Deactivate)
			r.Get("/{id}/occurrences", cfg.RecurringHandler.Occurrences)
		})

		// Projections
		r.Get("/projections", cfg.ProjectionHandler.Generate)

		// Sessions
		r.Post("/sessions/{id}/close", cfg.SessionHandler.Close)
	})

	return r
}
