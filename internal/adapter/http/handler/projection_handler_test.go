package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/caixaflow/internal/adapter/http/dto"
	"github.com/caixaflow/caixaflow/internal/domain"
	"github.com/caixaflow/caixaflow/internal/usecase"
)

type projectionServiceStub struct {
	generateFn func(ctx context.Context, input usecase.GenerateProjectionInput) (*domain.Projection, error)
	calls      int
}

func (s *projectionServiceStub) Generate(ctx context.Context, input usecase.GenerateProjectionInput) (*domain.Projection, error) {
	s.calls++
	return s.generateFn(ctx, input)
}

type fakeCache struct {
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := c.data[key]
	if !ok {
		return "", errors.New("cache miss")
	}
	return v, nil
}

func (c *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func stubProjection(scenario domain.Scenario) *domain.Projection {
	return &domain.Projection{
		Scenario:     scenario,
		GeneratedFor: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
		Days: []domain.ProjectionDay{
			{
				Date:           time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC),
				OpeningBalance: decimal.RequireFromString("1000"),
				ClosingBalance: decimal.RequireFromString("1000"),
				Status:         domain.DayHealthy,
			},
		},
	}
}

func TestProjectionHandler_DefaultsToRealistic(t *testing.T) {
	var captured usecase.GenerateProjectionInput
	svc := &projectionServiceStub{
		generateFn: func(ctx context.Context, input usecase.GenerateProjectionInput) (*domain.Projection, error) {
			captured = input
			return stubProjection(input.Scenario), nil
		},
	}
	handler := NewProjectionHandler(ProjectionHandlerConfig{ProjectionUC: svc, DefaultDays: 30})

	req := httptest.NewRequest(http.MethodGet, "/projections", nil)
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Scenario != domain.ScenarioRealistic || captured.Days != 30 {
		t.Fatalf("unexpected input: %+v", captured)
	}
}

func TestProjectionHandler_ParsesQuery(t *testing.T) {
	var captured usecase.GenerateProjectionInput
	svc := &projectionServiceStub{
		generateFn: func(ctx context.Context, input usecase.GenerateProjectionInput) (*domain.Projection, error) {
			captured = input
			return stubProjection(input.Scenario), nil
		},
	}
	handler := NewProjectionHandler(ProjectionHandlerConfig{ProjectionUC: svc})

	req := httptest.NewRequest(http.MethodGet, "/projections?scenario=PESSIMISTIC&days=60&minimum=500", nil)
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Scenario != domain.ScenarioPessimistic || captured.Days != 60 {
		t.Fatalf("unexpected input: %+v", captured)
	}
	if !captured.MinimumRequired.Equal(decimal.RequireFromString("500")) {
		t.Fatalf("minimum = %s", captured.MinimumRequired)
	}
}

func TestProjectionHandler_InvalidScenario(t *testing.T) {
	svc := &projectionServiceStub{
		generateFn: func(ctx context.Context, input usecase.GenerateProjectionInput) (*domain.Projection, error) {
			return nil, usecase.ErrInvalidScenario
		},
	}
	handler := NewProjectionHandler(ProjectionHandlerConfig{ProjectionUC: svc})

	req := httptest.NewRequest(http.MethodGet, "/projections?scenario=WILD", nil)
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestProjectionHandler_CachesResponses(t *testing.T) {
	svc := &projectionServiceStub{
		generateFn: func(ctx context.Context, input usecase.GenerateProjectionInput) (*domain.Projection, error) {
			return stubProjection(input.Scenario), nil
		},
	}
	cache := newFakeCache()
	handler := NewProjectionHandler(ProjectionHandlerConfig{
		ProjectionUC: svc,
		Cache:        cache,
		CacheTTL:     time.Minute,
	})

	req := httptest.NewRequest(http.MethodGet, "/projections?scenario=REALISTIC&days=30", nil)

	rec1 := httptest.NewRecorder()
	handler.Generate(rec1, req)
	if rec1.Code != http.StatusOK || svc.calls != 1 {
		t.Fatalf("first request: code %d, calls %d", rec1.Code, svc.calls)
	}

	rec2 := httptest.NewRecorder()
	handler.Generate(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Fatalf("second request: code %d", rec2.Code)
	}
	if svc.calls != 1 {
		t.Fatalf("expected cached response, usecase called %d times", svc.calls)
	}
	if rec2.Header().Get("X-Cache") != "hit" {
		t.Fatal("expected cache hit header")
	}

	var first, second dto.ProjectionResponse
	if err := json.Unmarshal(rec1.Body.Bytes(), &first); err != nil {
		t.Fatalf("decode first: %v", err)
	}
	if err := json.Unmarshal(rec2.Body.Bytes(), &second); err != nil {
		t.Fatalf("decode second: %v", err)
	}
	if first.GeneratedFor != second.GeneratedFor || len(first.Days) != len(second.Days) {
		t.Fatalf("cached response differs: %+v vs %+v", first, second)
	}
}

func TestProjectionHandler_MalformedMinimum(t *testing.T) {
	svc := &projectionServiceStub{
		generateFn: func(ctx context.Context, input usecase.GenerateProjectionInput) (*domain.Projection, error) {
			return stubProjection(input.Scenario), nil
		},
	}
	handler := NewProjectionHandler(ProjectionHandlerConfig{ProjectionUC: svc})

	req := httptest.NewRequest(http.MethodGet, "/projections?minimum=abc", nil)
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatal("usecase must not run on malformed input")
	}
}
