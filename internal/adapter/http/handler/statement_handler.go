package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caixaflow/caixaflow/internal/adapter/http/dto"
	"github.com/caixaflow/caixaflow/internal/domain"
	"github.com/caixaflow/caixaflow/internal/usecase"
)

// StatementService defines the behavior needed by StatementHandler.
type StatementService interface {
	BuildStatement(ctx context.Context, accountID string, period domain.Period) (*domain.Statement, error)
	FilteredMovements(ctx context.Context, input usecase.FilterInput) ([]*domain.Movement, error)
	GroupedByDay(ctx context.Context, accountID string, period domain.Period) ([]domain.DayGroup, error)
	ListMovements(ctx context.Context, input usecase.ListMovementsInput) ([]*domain.Movement, error)
}

// StatementHandler handles statement and movement-listing requests.
type StatementHandler struct {
	statementUC StatementService
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(statementUC StatementService) *StatementHandler {
	return &StatementHandler{statementUC: statementUC}
}

// Statement builds an account statement for a period. Both "start" and
// "end" are required YYYY-MM-DD dates; end is exclusive.
func (h *StatementHandler) Statement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	period, ok := periodFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or malformed period", "start and end must be YYYY-MM-DD")
		return
	}

	statement, err := h.statementUC.BuildStatement(r.Context(), id, period)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build statement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromDomain(statement))
}

// Daily returns an account's movements bucketed by calendar day.
func (h *StatementHandler) Daily(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	period, ok := periodFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or malformed period", "start and end must be YYYY-MM-DD")
		return
	}

	groups, err := h.statementUC.GroupedByDay(r.Context(), id, period)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to group movements", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DayGroupsFromDomain(groups))
}

// Movements lists an account's movements. With "start" and "end" set it
// filters within the period by direction, method, source_type and free
// text; without them it pages through the full history, newest first.
func (h *StatementHandler) Movements(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	period, ok := periodFromQuery(r)
	if !ok {
		movements, err := h.statementUC.ListMovements(r.Context(), usecase.ListMovementsInput{
			AccountID: id,
			Limit:     parseIntQuery(r, "limit", 50),
			Offset:    parseIntQuery(r, "offset", 0),
		})
		if err != nil {
			writeError(w, mapDomainError(err), "failed to list movements", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, dto.ListMovementsResponse{
			Movements: dto.MovementsFromDomain(movements),
			Total:     int64(len(movements)),
		})
		return
	}

	movements, err := h.statementUC.FilteredMovements(r.Context(), usecase.FilterInput{
		AccountID: id,
		Period:    period,
		Filter:    filterFromQuery(r),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to filter movements", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListMovementsResponse{
		Movements: dto.MovementsFromDomain(movements),
		Total:     int64(len(movements)),
	})
}

func periodFromQuery(r *http.Request) (domain.Period, bool) {
	start, okStart := parseDateQuery(r, "start")
	end, okEnd := parseDateQuery(r, "end")
	if !okStart || !okEnd {
		return domain.Period{}, false
	}
	return domain.Period{Start: start, End: end}, true
}

func filterFromQuery(r *http.Request) domain.MovementFilter {
	var filter domain.MovementFilter

	if v := r.URL.Query().Get("direction"); v != "" {
		d := domain.Direction(v)
		filter.Direction = &d
	}
	if v := r.URL.Query().Get("method"); v != "" {
		m := domain.Method(v)
		filter.Method = &m
	}
	if v := r.URL.Query().Get("source_type"); v != "" {
		s := domain.SourceType(v)
		filter.SourceType = &s
	}
	filter.FreeText = r.URL.Query().Get("q")

	return filter
}
