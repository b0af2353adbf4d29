package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/caixaflow/caixaflow/internal/adapter/http"
	"github.com/caixaflow/caixaflow/internal/adapter/http/handler"
	"github.com/caixaflow/caixaflow/internal/adapter/http/middleware"
	postgresRepo "github.com/caixaflow/caixaflow/internal/adapter/repository/postgres"
	redisRepo "github.com/caixaflow/caixaflow/internal/adapter/repository/redis"
	"github.com/caixaflow/caixaflow/internal/infrastructure/amqp"
	"github.com/caixaflow/caixaflow/internal/infrastructure/config"
	"github.com/caixaflow/caixaflow/internal/infrastructure/eventpublisher"
	"github.com/caixaflow/caixaflow/internal/infrastructure/logger"
	"github.com/caixaflow/caixaflow/internal/infrastructure/metrics"
	"github.com/caixaflow/caixaflow/internal/infrastructure/postgres"
	"github.com/caixaflow/caixaflow/internal/infrastructure/redis"
	"github.com/caixaflow/caixaflow/internal/infrastructure/sweeper"
	"github.com/caixaflow/caixaflow/internal/usecase"
)

func main() {
	// Load .env for local development; absent in containers.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MigrationsPath != "" {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	location := cfg.Location()
	appMetrics := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	movementRepo := postgresRepo.NewMovementRepository(pool)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	recurringRepo := postgresRepo.NewRecurringExpenseRepository(pool)
	sessionRepo := postgresRepo.NewCashSessionRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	revenueProvider := postgresRepo.NewRevenueProvider(pool)
	payableProvider := postgresRepo.NewPayableProvider(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Use cases
	accountUC := usecase.NewAccountUseCase(accountRepo, idGen)
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, movementRepo, outboxRepo, idGen)
	statementUC := usecase.NewStatementUseCase(accountRepo, movementRepo, location)
	transferUC := usecase.NewTransferUseCase(txManager, accountRepo, transferRepo, movementRepo, outboxRepo, idGen)
	recurringUC := usecase.NewRecurringExpenseUseCase(recurringRepo, idGen)
	sessionUC := usecase.NewCashSessionUseCase(sessionRepo, accountRepo, idGen)
	projectionUC := usecase.NewProjectionUseCase(accountRepo, recurringRepo, revenueProvider, payableProvider, location)

	defaultMinimum, err := decimal.NewFromString(cfg.ProjectionMinimumRequired)
	if err != nil {
		log.Fatal().Err(err).Str("value", cfg.ProjectionMinimumRequired).
			Msg("invalid PROJECTION_MINIMUM_REQUIRED")
	}

	// Handlers
	accountHandler := handler.NewAccountHandler(accountUC)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC, cache, cfg.BalanceCacheTTL)
	statementHandler := handler.NewStatementHandler(statementUC)
	transferHandler := handler.NewTransferHandler(transferUC, location)
	recurringHandler := handler.NewRecurringExpenseHandler(recurringUC)
	sessionHandler := handler.NewSessionHandler(sessionUC)
	projectionHandler := handler.NewProjectionHandler(handler.ProjectionHandlerConfig{
		ProjectionUC:   projectionUC,
		Cache:          cache,
		CacheTTL:       cfg.ProjectionCacheTTL,
		DefaultDays:    cfg.ProjectionDays,
		DefaultMinimum: defaultMinimum,
		Metrics:        appMetrics,
	})
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:    accountHandler,
		LedgerHandler:     ledgerHandler,
		StatementHandler:  statementHandler,
		TransferHandler:   transferHandler,
		RecurringHandler:  recurringHandler,
		ProjectionHandler: projectionHandler,
		SessionHandler:    sessionHandler,
		HealthHandler:     healthHandler,
		IdempotencyStore:  idempotencyStore,
		RateLimiter:       middleware.NewRateLimiter(100, 200),
		RequestLogger:     middleware.NewLoggingMiddleware(log),
	})

	publisher, closePublisher, err := newEventSink(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to amqp broker")
	}
	defer closePublisher()

	outboxPublisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		Logger:     log,
		Metrics:    appMetrics,
		BatchSize:  cfg.PublishBatch,
		Interval:   cfg.PublishInterval,
	})

	transferSweeper := sweeper.New(sweeper.Config{
		Transfers: &retryingSweeper{
			transfers: transferUC,
			retrier:   postgresRepo.NewRetrier(log),
		},
		Location:  location,
		Logger:    log,
		Metrics:   appMetrics,
		Interval:  cfg.SweepInterval,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		if err := outboxPublisher.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("event publisher: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := transferSweeper.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("transfer sweeper: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}

	log.Info().Msg("server stopped")
}

// retryingSweeper reruns a sweep that failed with a retryable database
// error, so deadlocks against concurrent manual executions resolve on
// the next attempt instead of waiting a full sweep interval.
type retryingSweeper struct {
	transfers *usecase.TransferUseCase
	retrier   *postgresRepo.Retrier
}

func (s *retryingSweeper) SweepDue(ctx context.Context, today time.Time) (usecase.SweepResult, error) {
	var result usecase.SweepResult
	err := s.retrier.Retry(ctx, func() error {
		r, sweepErr := s.transfers.SweepDue(ctx, today)
		if sweepErr == nil {
			result = r
		}
		return sweepErr
	})
	return result, err
}

// newEventSink picks the outbox event sink: an AMQP publisher when a
// broker is configured, a log sink otherwise.
func newEventSink(cfg *config.Config, log zerolog.Logger) (eventpublisher.Publisher, func(), error) {
	if cfg.AMQPURL == "" {
		return eventpublisher.NewLogPublisher(log), func() {}, nil
	}

	publisher, err := amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, log)
	if err != nil {
		return nil, nil, err
	}

	log.Info().Str("exchange", cfg.AMQPExchange).Msg("connected to amqp broker")
	return publisher, func() { _ = publisher.Close() }, nil
}
