package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/caixaflow/caixaflow/internal/adapter/http/dto"
	"github.com/caixaflow/caixaflow/internal/domain"
	"github.com/caixaflow/caixaflow/internal/usecase"
)

// RecurringExpenseService defines the behavior needed by
// RecurringExpenseHandler.
type RecurringExpenseService interface {
	CreateRecurringExpense(ctx context.Context, input usecase.CreateRecurringExpenseInput) (*domain.RecurringExpense, error)
	GetRecurringExpense(ctx context.Context, id string) (*domain.RecurringExpense, error)
	ListRecurringExpenses(ctx context.Context, input usecase.ListRecurringExpensesInput) ([]*domain.RecurringExpense, error)
	SetRecurringExpenseActive(ctx context.Context, id string, active bool) error
	ExpandRecurringExpense(ctx context.Context, id string, from, to time.Time) ([]domain.Occurrence, error)
}

// RecurringExpenseHandler handles recurring expense template requests.
type RecurringExpenseHandler struct {
	recurringUC RecurringExpenseService
}

// NewRecurringExpenseHandler creates a new RecurringExpenseHandler.
func NewRecurringExpenseHandler(recurringUC RecurringExpenseService) *RecurringExpenseHandler {
	return &RecurringExpenseHandler{recurringUC: recurringUC}
}

// Create creates a recurring expense template.
func (h *RecurringExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRecurringExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	expense, err := h.recurringUC.CreateRecurringExpense(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create recurring expense", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.RecurringExpenseFromDomain(expense))
}

// Get retrieves a template by ID.
func (h *RecurringExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing recurring expense ID", "")
		return
	}

	expense, err := h.recurringUC.GetRecurringExpense(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get recurring expense", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RecurringExpenseFromDomain(expense))
}

// List lists templates.
func (h *RecurringExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.recurringUC.ListRecurringExpenses(r.Context(), usecase.ListRecurringExpensesInput{
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list recurring expenses", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RecurringExpensesFromDomain(expenses))
}

// Activate resumes occurrence generation for a template.
func (h *RecurringExpenseHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

// Deactivate pauses a template without losing its history.
func (h *RecurringExpenseHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *RecurringExpenseHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing recurring expense ID", "")
		return
	}

	if err := h.recurringUC.SetRecurringExpenseActive(r.Context(), id, active); err != nil {
		writeError(w, mapDomainError(err), "failed to update recurring expense", err.Error())
		return
	}

	expense, err := h.recurringUC.GetRecurringExpense(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get recurring expense", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RecurringExpenseFromDomain(expense))
}

// Occurrences expands a template into its dated occurrences within
// [from, to]. Both bounds are required YYYY-MM-DD dates, inclusive.
func (h *RecurringExpenseHandler) Occurrences(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing recurring expense ID", "")
		return
	}

	from, okFrom := parseDateQuery(r, "from")
	to, okTo := parseDateQuery(r, "to")
	if !okFrom || !okTo {
		writeError(w, http.StatusBadRequest, "missing or malformed horizon", "from and to must be YYYY-MM-DD")
		return
	}

	occurrences, err := h.recurringUC.ExpandRecurringExpense(r.Context(), id, from, to)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to expand recurring expense", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OccurrencesFromDomain(occurrences))
}
