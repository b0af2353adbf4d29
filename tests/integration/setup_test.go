package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	adaptershttp "github.com/caixaflow/caixaflow/internal/adapter/http"
	"github.com/caixaflow/caixaflow/internal/adapter/http/handler"
	postgresRepo "github.com/caixaflow/caixaflow/internal/adapter/repository/postgres"
	redisrepo "github.com/caixaflow/caixaflow/internal/adapter/repository/redis"
	infraredis "github.com/caixaflow/caixaflow/internal/infrastructure/redis"
	"github.com/caixaflow/caixaflow/internal/usecase"
	"github.com/caixaflow/caixaflow/tests/testutil"
)

// testEnv wires the full stack against a real database so tests can
// drive the HTTP API and inspect state through the use cases.
type testEnv struct {
	DB         *testutil.TestDB
	Router     http.Handler
	Accounts   *usecase.AccountUseCase
	Ledger     *usecase.LedgerUseCase
	Statements *usecase.StatementUseCase
	Transfers  *usecase.TransferUseCase
	Recurring  *usecase.RecurringExpenseUseCase
	Sessions   *usecase.CashSessionUseCase
	Outbox     *postgresRepo.OutboxRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)

	pool := testDB.Pool
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	movementRepo := postgresRepo.NewMovementRepository(pool)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	recurringRepo := postgresRepo.NewRecurringExpenseRepository(pool)
	sessionRepo := postgresRepo.NewCashSessionRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	revenueProvider := postgresRepo.NewRevenueProvider(pool)
	payableProvider := postgresRepo.NewPayableProvider(pool)
	idGen := postgresRepo.NewULIDGenerator()

	accountUC := usecase.NewAccountUseCase(accountRepo, idGen)
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, movementRepo, outboxRepo, idGen)
	statementUC := usecase.NewStatementUseCase(accountRepo, movementRepo, time.UTC)
	transferUC := usecase.NewTransferUseCase(txManager, accountRepo, transferRepo, movementRepo, outboxRepo, idGen)
	recurringUC := usecase.NewRecurringExpenseUseCase(recurringRepo, idGen)
	sessionUC := usecase.NewCashSessionUseCase(sessionRepo, accountRepo, idGen)
	projectionUC := usecase.NewProjectionUseCase(accountRepo, recurringRepo, revenueProvider, payableProvider, time.UTC)

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { _ = redisClient.Close() })

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(accountUC),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC, nil, 0),
		StatementHandler: handler.NewStatementHandler(statementUC),
		TransferHandler:  handler.NewTransferHandler(transferUC, time.UTC),
		RecurringHandler: handler.NewRecurringExpenseHandler(recurringUC),
		ProjectionHandler: handler.NewProjectionHandler(handler.ProjectionHandlerConfig{
			ProjectionUC: projectionUC,
		}),
		SessionHandler:   handler.NewSessionHandler(sessionUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: redisrepo.NewIdempotencyStore(redisClient),
	})

	return &testEnv{
		DB:         testDB,
		Router:     router,
		Accounts:   accountUC,
		Ledger:     ledgerUC,
		Statements: statementUC,
		Transfers:  transferUC,
		Recurring:  recurringUC,
		Sessions:   sessionUC,
		Outbox:     outboxRepo,
	}
}

// doRequest performs an HTTP request against the router and returns
// the recorded response.
func (e *testEnv) doRequest(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}
