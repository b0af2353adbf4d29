package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database
	// transaction. Prevents long-running transactions from blocking
	// account rows.
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultProjectionDays is the horizon used when a caller does not
	// specify one.
	DefaultProjectionDays = 30

	// MaxProjectionDays caps the projection horizon.
	MaxProjectionDays = 365

	// SweepBatchSize caps due transfers processed per sweep run.
	SweepBatchSize = 500
)
