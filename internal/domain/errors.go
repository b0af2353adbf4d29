package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrInvalidAccountKind  = errors.New("unknown account kind")

	// Movement errors
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidDirection = errors.New("unknown movement direction")
	ErrInvalidMethod    = errors.New("unknown payment method")
	ErrInvalidSource    = errors.New("unknown movement source type")
	ErrMovementNotFound = errors.New("movement not found")

	// Transfer errors
	ErrSameAccount             = errors.New("cannot transfer to same account")
	ErrTransferNotFound        = errors.New("transfer not found")
	ErrAlreadyExecuted         = errors.New("transfer already executed")
	ErrTransferNotScheduled    = errors.New("transfer is not in scheduled state")
	ErrTransferExecutionFailed = errors.New("transfer execution failed")

	// Recurring expense errors
	ErrInvalidDateRange         = errors.New("end date must not be before start date")
	ErrInvalidFrequency         = errors.New("unknown recurrence frequency")
	ErrRecurringExpenseNotFound = errors.New("recurring expense not found")

	// Cash session errors
	ErrSessionNotFound    = errors.New("cash session not found")
	ErrSessionAlreadyOpen = errors.New("account already has an open cash session")
	ErrSessionClosed      = errors.New("cash session already closed")
)
