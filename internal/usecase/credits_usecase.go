package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/gethired/gethired/internal/domain/user"

	"github.com/google/uuid"
)

// Operation enumerates the credit-consuming AI operations and their fixed
// prices.
type Operation string

const (
	OpResumeReview Operation = "resume_review"
	OpAISearch     Operation = "ai_search"
	OpSummary      Operation = "summary"
)

func Cost(op Operation) int {
	switch op {
	case OpResumeReview:
		return 5
	case OpAISearch:
		return 3
	case OpSummary:
		return 1
	default:
		return 0
	}
}

type creditStore interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (user.Profile, error)
	DeductCredits(ctx context.Context, userID uuid.UUID, cost int) (bool, error)
}

// CreditGate guards paid AI operations: balance is checked before any paid
// work runs and decremented once, atomically, after it succeeds.
type CreditGate struct {
	store  creditStore
	logger *log.Logger
}

func NewCreditGate(store creditStore, logger *log.Logger) *CreditGate {
	return &CreditGate{store: store, logger: logger}
}

func (g *CreditGate) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	p, err := g.store.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrProfileNotFound) {
			return 0, ErrNotFound
		}
		return 0, ErrInternal
	}
	return p.AICredits, nil
}

// Charge runs fn only when the caller can afford op. fn's error aborts the
// charge. A decrement that loses the race (balance drained by a concurrent
// request between check and deduct) is logged but does not fail the call:
// the paid work has already been delivered.
func (g *CreditGate) Charge(ctx context.Context, userID uuid.UUID, op Operation, fn func(ctx context.Context) error) error {
	cost := Cost(op)
	if cost <= 0 {
		return ErrInvalidInput
	}

	balance, err := g.Balance(ctx, userID)
	if err != nil {
		return err
	}
	if balance < cost {
		return ErrInsufficientCredits
	}

	if err := fn(ctx); err != nil {
		return err
	}

	ok, err := g.store.DeductCredits(ctx, userID, cost)
	if err != nil {
		if g.logger != nil {
			g.logger.Printf("[Credits] deduct failed user=%s op=%s cost=%d err=%v", userID, op, cost, err)
		}
		return nil
	}
	if !ok && g.logger != nil {
		g.logger.Printf("[Credits] deduct raced below cost user=%s op=%s cost=%d", userID, op, cost)
	}
	return nil
}
