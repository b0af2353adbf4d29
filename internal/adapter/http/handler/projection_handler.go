package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/caixaflow/internal/adapter/http/dto"
	"github.com/caixaflow/caixaflow/internal/domain"
	"github.com/caixaflow/caixaflow/internal/infrastructure/metrics"
	"github.com/caixaflow/caixaflow/internal/usecase"
)

// ProjectionService defines the behavior needed by ProjectionHandler.
type ProjectionService interface {
	Generate(ctx context.Context, input usecase.GenerateProjectionInput) (*domain.Projection, error)
}

// ProjectionHandler handles cash-flow projection requests. Projections
// are deterministic for a given day and inputs, so responses are cached
// per scenario/horizon/threshold until the TTL expires.
type ProjectionHandler struct {
	projectionUC   ProjectionService
	cache          usecase.Cache
	cacheTTL       time.Duration
	defaultDays    int
	defaultMinimum decimal.Decimal
	metrics        *metrics.Metrics
}

// ProjectionHandlerConfig holds dependencies for ProjectionHandler.
type ProjectionHandlerConfig struct {
	ProjectionUC   ProjectionService
	Cache          usecase.Cache // optional
	CacheTTL       time.Duration
	DefaultDays    int
	DefaultMinimum decimal.Decimal
	Metrics        *metrics.Metrics // optional
}

// NewProjectionHandler creates a new ProjectionHandler.
func NewProjectionHandler(cfg ProjectionHandlerConfig) *ProjectionHandler {
	if cfg.DefaultDays == 0 {
		cfg.DefaultDays = 30
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	return &ProjectionHandler{
		projectionUC:   cfg.ProjectionUC,
		cache:          cfg.Cache,
		cacheTTL:       cfg.CacheTTL,
		defaultDays:    cfg.DefaultDays,
		defaultMinimum: cfg.DefaultMinimum,
		metrics:        cfg.Metrics,
	}
}

// Generate produces a projection. Query parameters: "scenario"
// (OPTIMISTIC, REALISTIC or PESSIMISTIC; default REALISTIC), "days"
// (horizon length) and "minimum" (safety threshold).
func (h *ProjectionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	scenario := domain.Scenario(r.URL.Query().Get("scenario"))
	if scenario == "" {
		scenario = domain.ScenarioRealistic
	}

	days := parseIntQuery(r, "days", h.defaultDays)

	minimum := h.defaultMinimum
	if v := r.URL.Query().Get("minimum"); v != "" {
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "malformed minimum", err.Error())
			return
		}
		minimum = parsed
	}

	cacheKey := fmt.Sprintf("projection:%s:%d:%s", scenario, days, minimum)

	if h.cache != nil {
		if cached, err := h.cache.Get(r.Context(), cacheKey); err == nil {
			if h.metrics != nil {
				h.metrics.ProjectionCacheHits.Inc()
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "hit")
			w.Write([]byte(cached))
			return
		}
	}

	start := time.Now()
	projection, err := h.projectionUC.Generate(r.Context(), usecase.GenerateProjectionInput{
		Scenario:        scenario,
		Days:            days,
		MinimumRequired: minimum,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to generate projection", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.ProjectionsGenerated.WithLabelValues(string(scenario)).Inc()
		h.metrics.ProjectionDuration.Observe(time.Since(start).Seconds())
	}

	body, err := json.Marshal(dto.ProjectionFromDomain(projection))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode projection", err.Error())
		return
	}

	if h.cache != nil {
		// Best effort; a failed cache write must not fail the request.
		h.cache.Set(r.Context(), cacheKey, string(body), h.cacheTTL)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}
