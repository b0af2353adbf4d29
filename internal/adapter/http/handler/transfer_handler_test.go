package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/caixaflow/internal/adapter/http/dto"
	"github.com/caixaflow/caixaflow/internal/domain"
	"github.com/caixaflow/caixaflow/internal/usecase"
)

type transferServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateTransferInput) (*domain.Transfer, error)
	getFn    func(ctx context.Context, id string) (*domain.Transfer, error)
	cancelFn func(ctx context.Context, transferID string) (*domain.Transfer, error)
	listFn   func(ctx context.Context, input usecase.ListTransfersByAccountInput) ([]*domain.Transfer, error)
	sweepFn  func(ctx context.Context, today time.Time) (usecase.SweepResult, error)
}

func (s *transferServiceStub) CreateTransfer(ctx context.Context, input usecase.CreateTransferInput) (*domain.Transfer, error) {
	return s.createFn(ctx, input)
}

func (s *transferServiceStub) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	return s.getFn(ctx, id)
}

func (s *transferServiceStub) CancelTransfer(ctx context.Context, transferID string) (*domain.Transfer, error) {
	return s.cancelFn(ctx, transferID)
}

func (s *transferServiceStub) ListTransfersByAccount(ctx context.Context, input usecase.ListTransfersByAccountInput) ([]*domain.Transfer, error) {
	return s.listFn(ctx, input)
}

func (s *transferServiceStub) SweepDue(ctx context.Context, today time.Time) (usecase.SweepResult, error) {
	return s.sweepFn(ctx, today)
}

func TestTransferHandler_Create_Success(t *testing.T) {
	scheduled := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	transfer := &domain.Transfer{
		ID:            "tr-1",
		FromAccountID: "acc-a",
		ToAccountID:   "acc-b",
		Amount:        decimal.RequireFromString("250"),
		ScheduledDate: scheduled,
		Status:        domain.TransferScheduled,
	}

	var captured usecase.CreateTransferInput
	handler := NewTransferHandler(&transferServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateTransferInput) (*domain.Transfer, error) {
			captured = input
			return transfer, nil
		},
	}, time.UTC)

	body, _ := json.Marshal(dto.CreateTransferRequest{
		FromAccountID: "acc-a",
		ToAccountID:   "acc-b",
		Amount:        decimal.RequireFromString("250"),
		ScheduledDate: scheduled,
	})

	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.FromAccountID != "acc-a" || !captured.Amount.Equal(decimal.RequireFromString("250")) {
		t.Fatalf("expected input to match request, got %+v", captured)
	}
	if captured.Today == nil {
		t.Fatal("expected handler to stamp the business-day reference")
	}

	var resp dto.TransferResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "SCHEDULED" || resp.ScheduledDate != "2025-06-15" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestTransferHandler_Create_UsesBusinessCalendarDay(t *testing.T) {
	// A UTC-3 business zone: late evening local time is already the
	// next day in UTC, and the two must not disagree on dueness.
	saoPaulo := time.FixedZone("-03", -3*60*60)

	var captured usecase.CreateTransferInput
	handler := NewTransferHandler(&transferServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateTransferInput) (*domain.Transfer, error) {
			captured = input
			return &domain.Transfer{Status: domain.TransferScheduled}, nil
		},
	}, saoPaulo)

	body, _ := json.Marshal(dto.CreateTransferRequest{
		FromAccountID: "acc-a",
		ToAccountID:   "acc-b",
		Amount:        decimal.RequireFromString("10"),
		ScheduledDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	})

	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Today == nil {
		t.Fatal("expected a business-day reference on the input")
	}
	if got := captured.Today.Location().String(); got != saoPaulo.String() {
		t.Fatalf("expected today in the business zone, got %s", got)
	}
	wantDay := domain.DayOf(time.Now().In(saoPaulo))
	if !domain.DayOf(*captured.Today).Equal(wantDay) {
		t.Fatalf("expected business day %s, got %s", wantDay, domain.DayOf(*captured.Today))
	}
}

func TestTransferHandler_Create_SameAccount(t *testing.T) {
	handler := NewTransferHandler(&transferServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateTransferInput) (*domain.Transfer, error) {
			return nil, domain.ErrSameAccount
		},
	}, time.UTC)

	body, _ := json.Marshal(dto.CreateTransferRequest{
		FromAccountID: "acc-a",
		ToAccountID:   "acc-a",
		Amount:        decimal.RequireFromString("10"),
	})

	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransferHandler_Cancel(t *testing.T) {
	tests := []struct {
		name     string
		cancelFn func(ctx context.Context, transferID string) (*domain.Transfer, error)
		expected int
	}{
		{
			name: "scheduled transfer is cancelled",
			cancelFn: func(ctx context.Context, transferID string) (*domain.Transfer, error) {
				return &domain.Transfer{ID: transferID, Status: domain.TransferCancelled}, nil
			},
			expected: http.StatusOK,
		},
		{
			name: "executed transfer conflicts",
			cancelFn: func(ctx context.Context, transferID string) (*domain.Transfer, error) {
				return nil, domain.ErrTransferNotScheduled
			},
			expected: http.StatusConflict,
		},
		{
			name: "missing transfer",
			cancelFn: func(ctx context.Context, transferID string) (*domain.Transfer, error) {
				return nil, domain.ErrTransferNotFound
			},
			expected: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewTransferHandler(&transferServiceStub{cancelFn: tt.cancelFn}, time.UTC)

			req := withURLParam(httptest.NewRequest(http.MethodPost, "/transfers/tr-1/cancel", nil), "id", "tr-1")
			rec := httptest.NewRecorder()

			handler.Cancel(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d: %s", tt.expected, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestTransferHandler_Sweep(t *testing.T) {
	var sweptAt time.Time
	handler := NewTransferHandler(&transferServiceStub{
		sweepFn: func(ctx context.Context, today time.Time) (usecase.SweepResult, error) {
			sweptAt = today
			return usecase.SweepResult{Due: 3, Executed: 2, Skipped: 1}, nil
		},
	}, time.UTC)

	req := httptest.NewRequest(http.MethodPost, "/transfers/sweep", nil)
	rec := httptest.NewRecorder()

	handler.Sweep(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if sweptAt.IsZero() {
		t.Fatal("expected sweep to receive a reference day")
	}

	var resp dto.SweepResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Due != 3 || resp.Executed != 2 || resp.Skipped != 1 {
		t.Fatalf("unexpected sweep response: %+v", resp)
	}
}

func TestTransferHandler_ListByAccount(t *testing.T) {
	var captured usecase.ListTransfersByAccountInput
	handler := NewTransferHandler(&transferServiceStub{
		listFn: func(ctx context.Context, input usecase.ListTransfersByAccountInput) ([]*domain.Transfer, error) {
			captured = input
			return []*domain.Transfer{{ID: "tr-1"}}, nil
		},
	}, time.UTC)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/accounts/acc-a/transfers?limit=7", nil), "id", "acc-a")
	rec := httptest.NewRecorder()

	handler.ListByAccount(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.AccountID != "acc-a" || captured.Limit != 7 {
		t.Fatalf("unexpected list input: %+v", captured)
	}
}
