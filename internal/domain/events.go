package domain

import "time"

// Event types
const (
	EventTypeMovementRecorded  = "movement.recorded"
	EventTypeTransferScheduled = "transfer.scheduled"
	EventTypeTransferExecuted  = "transfer.executed"
	EventTypeTransferCancelled = "transfer.cancelled"
	EventTypeSessionOpened     = "session.opened"
	EventTypeSessionClosed     = "session.closed"
)

// Aggregate types
const (
	AggregateTypeMovement = "movement"
	AggregateTypeTransfer = "transfer"
	AggregateTypeSession  = "session"
)

// OutboxEvent represents an event to be published. Outbox rows are
// written in the same transaction as the state change they describe.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// MovementRecordedEvent payload
type MovementRecordedEvent struct {
	MovementID   string `json:"movement_id"`
	AccountID    string `json:"account_id"`
	Direction    string `json:"direction"`
	Amount       string `json:"amount"`
	Method       string `json:"method"`
	SourceType   string `json:"source_type"`
	BalanceAfter string `json:"balance_after"`
	OccurredAt   string `json:"occurred_at"`
}

// TransferExecutedEvent payload
type TransferExecutedEvent struct {
	TransferID    string `json:"transfer_id"`
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        string `json:"amount"`
	ExecutedAt    string `json:"executed_at"`
}

// TransferCancelledEvent payload
type TransferCancelledEvent struct {
	TransferID string `json:"transfer_id"`
}
