package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/caixaflow/internal/adapter/http/dto"
	"github.com/caixaflow/caixaflow/internal/domain"
	"github.com/caixaflow/caixaflow/internal/usecase"
)

type statementServiceStub struct {
	buildFn    func(ctx context.Context, accountID string, period domain.Period) (*domain.Statement, error)
	filteredFn func(ctx context.Context, input usecase.FilterInput) ([]*domain.Movement, error)
	groupedFn  func(ctx context.Context, accountID string, period domain.Period) ([]domain.DayGroup, error)
	listFn     func(ctx context.Context, input usecase.ListMovementsInput) ([]*domain.Movement, error)
}

func (s *statementServiceStub) BuildStatement(ctx context.Context, accountID string, period domain.Period) (*domain.Statement, error) {
	return s.buildFn(ctx, accountID, period)
}

func (s *statementServiceStub) FilteredMovements(ctx context.Context, input usecase.FilterInput) ([]*domain.Movement, error) {
	return s.filteredFn(ctx, input)
}

func (s *statementServiceStub) GroupedByDay(ctx context.Context, accountID string, period domain.Period) ([]domain.DayGroup, error) {
	return s.groupedFn(ctx, accountID, period)
}

func (s *statementServiceStub) ListMovements(ctx context.Context, input usecase.ListMovementsInput) ([]*domain.Movement, error) {
	return s.listFn(ctx, input)
}

func TestStatementHandler_Statement_RequiresPeriod(t *testing.T) {
	handler := NewStatementHandler(&statementServiceStub{})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/accounts/acc-1/statement", nil), "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Statement(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without period, got %d", rec.Code)
	}
}

func TestStatementHandler_Statement_Success(t *testing.T) {
	var capturedID string
	var capturedPeriod domain.Period
	handler := NewStatementHandler(&statementServiceStub{
		buildFn: func(ctx context.Context, accountID string, period domain.Period) (*domain.Statement, error) {
			capturedID = accountID
			capturedPeriod = period
			return &domain.Statement{
				AccountID:      accountID,
				Period:         period,
				InitialBalance: decimal.RequireFromString("150"),
				ClosingBalance: decimal.RequireFromString("470"),
			}, nil
		},
	})

	req := withURLParam(
		httptest.NewRequest(http.MethodGet, "/accounts/acc-1/statement?start=2025-05-01&end=2025-06-01", nil),
		"id", "acc-1",
	)
	rec := httptest.NewRecorder()

	handler.Statement(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if capturedID != "acc-1" {
		t.Fatalf("account ID = %s", capturedID)
	}
	if capturedPeriod.Start.Day() != 1 || capturedPeriod.End.Month() != 6 {
		t.Fatalf("unexpected period: %+v", capturedPeriod)
	}

	var resp dto.StatementResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.ClosingBalance.Equal(decimal.RequireFromString("470")) {
		t.Fatalf("closing balance = %s", resp.ClosingBalance)
	}
}

func TestStatementHandler_Movements_WithoutPeriodPaginates(t *testing.T) {
	var captured usecase.ListMovementsInput
	handler := NewStatementHandler(&statementServiceStub{
		listFn: func(ctx context.Context, input usecase.ListMovementsInput) ([]*domain.Movement, error) {
			captured = input
			return []*domain.Movement{{ID: "mv-1"}}, nil
		},
	})

	req := withURLParam(
		httptest.NewRequest(http.MethodGet, "/accounts/acc-1/movements?limit=10&offset=20", nil),
		"id", "acc-1",
	)
	rec := httptest.NewRecorder()

	handler.Movements(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.AccountID != "acc-1" || captured.Limit != 10 || captured.Offset != 20 {
		t.Fatalf("unexpected list input: %+v", captured)
	}
}

func TestStatementHandler_Movements_WithPeriodFilters(t *testing.T) {
	var captured usecase.FilterInput
	handler := NewStatementHandler(&statementServiceStub{
		filteredFn: func(ctx context.Context, input usecase.FilterInput) ([]*domain.Movement, error) {
			captured = input
			return []*domain.Movement{}, nil
		},
	})

	target := "/accounts/acc-1/movements?start=2025-05-01&end=2025-06-01&direction=IN&method=PIX&q=haircut"
	req := withURLParam(httptest.NewRequest(http.MethodGet, target, nil), "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Movements(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Filter.Direction == nil || *captured.Filter.Direction != domain.DirectionIn {
		t.Fatalf("direction filter not wired: %+v", captured.Filter)
	}
	if captured.Filter.Method == nil || *captured.Filter.Method != domain.MethodPix {
		t.Fatalf("method filter not wired: %+v", captured.Filter)
	}
	if captured.Filter.FreeText != "haircut" {
		t.Fatalf("free text filter = %q", captured.Filter.FreeText)
	}
}

func TestStatementHandler_Daily(t *testing.T) {
	handler := NewStatementHandler(&statementServiceStub{
		groupedFn: func(ctx context.Context, accountID string, period domain.Period) ([]domain.DayGroup, error) {
			return []domain.DayGroup{
				{
					Net: decimal.RequireFromString("60"),
				},
			}, nil
		},
	})

	req := withURLParam(
		httptest.NewRequest(http.MethodGet, "/accounts/acc-1/statement/daily?start=2025-05-01&end=2025-06-01", nil),
		"id", "acc-1",
	)
	rec := httptest.NewRecorder()

	handler.Daily(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []dto.DayGroupResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || !resp[0].Net.Equal(decimal.RequireFromString("60")) {
		t.Fatalf("unexpected day groups: %+v", resp)
	}
}
