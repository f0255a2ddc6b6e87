package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/gethired/gethired/internal/domain/user"

	"github.com/google/uuid"
)

type mockCreditStore struct {
	balance     int
	profileErr  error
	deductErr   error
	deductOK    bool
	deductCalls []int
}

func (m *mockCreditStore) GetProfile(context.Context, uuid.UUID) (user.Profile, error) {
	if m.profileErr != nil {
		return user.Profile{}, m.profileErr
	}
	return user.Profile{AICredits: m.balance}, nil
}

func (m *mockCreditStore) DeductCredits(_ context.Context, _ uuid.UUID, cost int) (bool, error) {
	m.deductCalls = append(m.deductCalls, cost)
	if m.deductErr != nil {
		return false, m.deductErr
	}
	if m.deductOK {
		m.balance -= cost
	}
	return m.deductOK, nil
}

func TestCreditGate_RejectsBelowCost(t *testing.T) {
	store := &mockCreditStore{balance: 3}
	gate := NewCreditGate(store, nil)

	ran := false
	err := gate.Charge(context.Background(), uuid.New(), OpResumeReview, func(context.Context) error {
		ran = true
		return nil
	})
	if !errors.Is(err, ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}
	if ran {
		t.Fatal("paid work must not run when the balance is below cost")
	}
	if len(store.deductCalls) != 0 {
		t.Fatal("no deduction expected on rejection")
	}
}

func TestCreditGate_DeductsExactCostOnSuccess(t *testing.T) {
	store := &mockCreditStore{balance: 10, deductOK: true}
	gate := NewCreditGate(store, nil)

	err := gate.Charge(context.Background(), uuid.New(), OpAISearch, func(context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(store.deductCalls) != 1 || store.deductCalls[0] != Cost(OpAISearch) {
		t.Fatalf("expected one deduction of %d, got %v", Cost(OpAISearch), store.deductCalls)
	}
	if store.balance != 10-Cost(OpAISearch) {
		t.Fatalf("expected balance %d, got %d", 10-Cost(OpAISearch), store.balance)
	}
}

func TestCreditGate_NoChargeWhenWorkFails(t *testing.T) {
	store := &mockCreditStore{balance: 10, deductOK: true}
	gate := NewCreditGate(store, nil)

	boom := errors.New("model unavailable")
	err := gate.Charge(context.Background(), uuid.New(), OpSummary, func(context.Context) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected work error to propagate, got %v", err)
	}
	if len(store.deductCalls) != 0 {
		t.Fatal("no deduction expected when the paid work fails")
	}
}

func TestCreditGate_ProfileMissing(t *testing.T) {
	store := &mockCreditStore{profileErr: user.ErrProfileNotFound}
	gate := NewCreditGate(store, nil)

	err := gate.Charge(context.Background(), uuid.New(), OpSummary, func(context.Context) error { return nil })
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCost_Enumerated(t *testing.T) {
	cases := map[Operation]int{
		OpResumeReview: 5,
		OpAISearch:     3,
		OpSummary:      1,
		Operation("x"): 0,
	}
	for op, want := range cases {
		if got := Cost(op); got != want {
			t.Fatalf("Cost(%s) = %d, want %d", op, got, want)
		}
	}
}
