package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/caixaflow/internal/domain"
)

// CashSessionUseCase is the single owner of cash register session
// state. Sessions are explicit values passed by callers, never ambient
// UI state; open/close transitions happen only here.
type CashSessionUseCase struct {
	sessionRepo CashSessionRepository
	accountRepo AccountRepository
	idGen       IDGenerator
}

// NewCashSessionUseCase creates a new CashSessionUseCase.
func NewCashSessionUseCase(sessionRepo CashSessionRepository, accountRepo AccountRepository, idGen IDGenerator) *CashSessionUseCase {
	return &CashSessionUseCase{
		sessionRepo: sessionRepo,
		accountRepo: accountRepo,
		idGen:       idGen,
	}
}

// OpenSession opens a session against an account. At most one session
// per account may be open.
func (uc *CashSessionUseCase) OpenSession(ctx context.Context, accountID string, openingFloat decimal.Decimal) (*domain.CashSession, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.Active {
		return nil, domain.ErrAccountInactive
	}

	_, err = uc.sessionRepo.GetOpenByAccount(ctx, accountID)
	switch {
	case err == nil:
		return nil, domain.ErrSessionAlreadyOpen
	case !errors.Is(err, domain.ErrSessionNotFound):
		return nil, err
	}

	session := &domain.CashSession{
		ID:           uc.idGen.Generate(),
		AccountID:    accountID,
		OpeningFloat: openingFloat,
		Status:       domain.SessionOpen,
		OpenedAt:     time.Now().UTC(),
	}

	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// CloseSession closes an open session. CLOSED is terminal.
func (uc *CashSessionUseCase) CloseSession(ctx context.Context, sessionID string) (*domain.CashSession, error) {
	session, err := uc.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !session.Open() {
		return nil, domain.ErrSessionClosed
	}

	now := time.Now().UTC()
	if err := uc.sessionRepo.Close(ctx, sessionID, now); err != nil {
		return nil, err
	}

	session.Status = domain.SessionClosed
	session.ClosedAt = &now

	return session, nil
}

// CurrentSession returns the open session for an account, or
// domain.ErrSessionNotFound when none is open.
func (uc *CashSessionUseCase) CurrentSession(ctx context.Context, accountID string) (*domain.CashSession, error) {
	return uc.sessionRepo.GetOpenByAccount(ctx, accountID)
}
