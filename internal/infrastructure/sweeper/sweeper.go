package sweeper

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/caixaflow/caixaflow/internal/infrastructure/metrics"
	"github.com/caixaflow/caixaflow/internal/usecase"
)

// TransferSweeper executes scheduled transfers that have come due.
type TransferSweeper interface {
	SweepDue(ctx context.Context, today time.Time) (usecase.SweepResult, error)
}

// Sweeper periodically runs the due-transfer sweep. The business
// timezone decides which calendar day "today" is, so a transfer
// scheduled for the 15th executes on the 15th local time, not UTC.
type Sweeper struct {
	transfers TransferSweeper
	location  *time.Location
	logger    zerolog.Logger
	metrics   *metrics.Metrics
	interval  time.Duration
}

// Config for Sweeper.
type Config struct {
	Transfers TransferSweeper
	Location  *time.Location
	Logger    zerolog.Logger
	Metrics   *metrics.Metrics
	Interval  time.Duration
}

// New creates a new Sweeper.
func New(cfg Config) *Sweeper {
	if cfg.Interval == 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	return &Sweeper{
		transfers: cfg.Transfers,
		location:  cfg.Location,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		interval:  cfg.Interval,
	}
}

// Start runs the sweep loop until the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.interval).
		Str("timezone", s.location.String()).
		Msg("transfer sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Sweep immediately on start to catch transfers that came due
	// while the service was down.
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("transfer sweeper shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()
	today := time.Now().In(s.location)

	result, err := s.transfers.SweepDue(ctx, today)
	if err != nil {
		s.logger.Error().Err(err).Msg("sweep failed")
		return
	}

	if s.metrics != nil {
		s.metrics.SweepRuns.Inc()
		s.metrics.SweepDue.Add(float64(result.Due))
		s.metrics.SweepExecuted.Add(float64(result.Executed))
		s.metrics.SweepSkipped.Add(float64(result.Skipped))
		s.metrics.SweepFailed.Add(float64(result.Failed))
		s.metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}

	if result.Due == 0 {
		return
	}

	s.logger.Info().
		Int("due", result.Due).
		Int("executed", result.Executed).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("sweep completed")
}
