package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/caixaflow/caixaflow/internal/adapter/http/dto"
	"github.com/caixaflow/caixaflow/internal/domain"
)

// SessionService defines the behavior needed by SessionHandler.
type SessionService interface {
	OpenSession(ctx context.Context, accountID string, openingFloat decimal.Decimal) (*domain.CashSession, error)
	CloseSession(ctx context.Context, sessionID string) (*domain.CashSession, error)
	CurrentSession(ctx context.Context, accountID string) (*domain.CashSession, error)
}

// SessionHandler handles cash session HTTP requests.
type SessionHandler struct {
	sessionUC SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionUC SessionService) *SessionHandler {
	return &SessionHandler{sessionUC: sessionUC}
}

// Open opens a cash session for an account.
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.OpenSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := h.sessionUC.OpenSession(r.Context(), accountID, req.OpeningFloat)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to open session", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.SessionFromDomain(session))
}

// Current returns the account's open session, if any.
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	session, err := h.sessionUC.CurrentSession(r.Context(), accountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get session", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}

// Close closes a session. Closing is terminal; a new session must be
// opened for further activity.
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "missing session ID", "")
		return
	}

	session, err := h.sessionUC.CloseSession(r.Context(), sessionID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to close session", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}
