package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionStatus is the lifecycle state of a cash register session.
type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// CashSession is an explicit cash register session value. A session is
// opened against one wallet or cash account with an opening float and
// is owned by the session manager, not by ambient UI state. At most one
// session per account may be open at a time.
type CashSession struct {
	ID           string
	AccountID    string
	OpeningFloat decimal.Decimal
	Status       SessionStatus
	OpenedAt     time.Time
	ClosedAt     *time.Time
}

// Open reports whether the session accepts activity.
func (s *CashSession) Open() bool {
	return s.Status == SessionOpen
}
