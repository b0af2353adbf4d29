package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/caixaflow/caixaflow/internal/adapter/http/dto"
	"github.com/caixaflow/caixaflow/internal/domain"
	"github.com/caixaflow/caixaflow/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	RecordMovement(ctx context.Context, input usecase.RecordMovementInput) (*domain.Movement, error)
	CurrentBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	TotalBalance(ctx context.Context, accountIDs []string) (decimal.Decimal, error)
	CheckConsistency(ctx context.Context) ([]usecase.BalanceDrift, error)
}

// LedgerHandler handles movement and balance HTTP requests.
type LedgerHandler struct {
	ledgerUC LedgerService
	cache    usecase.Cache
	cacheTTL time.Duration
}

// NewLedgerHandler creates a new LedgerHandler. The cache is optional;
// when set, the dashboard total-balance snapshot is served from it.
func NewLedgerHandler(ledgerUC LedgerService, cache usecase.Cache, cacheTTL time.Duration) *LedgerHandler {
	if cacheTTL == 0 {
		cacheTTL = 15 * time.Second
	}
	return &LedgerHandler{ledgerUC: ledgerUC, cache: cache, cacheTTL: cacheTTL}
}

// RecordMovement appends a movement to an account's log.
func (h *LedgerHandler) RecordMovement(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	movement, err := h.ledgerUC.RecordMovement(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record movement", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.MovementFromDomain(movement))
}

// Balance returns one account's cached balance.
func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	balance, err := h.ledgerUC.CurrentBalance(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		AccountID: id,
		Balance:   balance,
	})
}

// TotalBalance returns the combined balance across accounts. Account
// IDs come from the repeated "account_id" query parameter; none means
// all active accounts.
func (h *LedgerHandler) TotalBalance(w http.ResponseWriter, r *http.Request) {
	accountIDs := r.URL.Query()["account_id"]

	// Only the all-accounts dashboard figure is cached; filtered
	// queries hit the database directly.
	cacheable := h.cache != nil && len(accountIDs) == 0
	const cacheKey = "balances:total"

	if cacheable {
		if cached, err := h.cache.Get(r.Context(), cacheKey); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "hit")
			w.Write([]byte(cached))
			return
		}
	}

	total, err := h.ledgerUC.TotalBalance(r.Context(), accountIDs)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute total balance", err.Error())
		return
	}

	if cacheable {
		if body, err := json.Marshal(dto.TotalBalanceResponse{Total: total}); err == nil {
			// Best effort; a failed cache write must not fail the request.
			h.cache.Set(r.Context(), cacheKey, string(body), h.cacheTTL)
		}
	}

	writeJSON(w, http.StatusOK, dto.TotalBalanceResponse{Total: total})
}

// CheckConsistency recomputes every balance from the movement log and
// reports accounts whose cached balance drifted.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	drifts, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil && !errors.Is(err, usecase.ErrInconsistentBalance) {
		writeError(w, http.StatusInternalServerError, "consistency check failed", err.Error())
		return
	}

	// Drift is the report, not a failure of the check itself.
	writeJSON(w, http.StatusOK, dto.ConsistencyFromDomain(drifts))
}
