package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/gethired/gethired/internal/domain/waitlist"
)

type mockWaitlistRepo struct {
	seen    map[string]bool
	upserts int
	err     error
}

func (m *mockWaitlistRepo) Upsert(_ context.Context, e waitlist.Entry) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.upserts++
	if m.seen == nil {
		m.seen = map[string]bool{}
	}
	if m.seen[e.Email] {
		return false, nil
	}
	m.seen[e.Email] = true
	return true, nil
}

func (m *mockWaitlistRepo) CreateFeedback(context.Context, waitlist.Feedback) error { return m.err }
func (m *mockWaitlistRepo) ListEmails(context.Context) ([]string, error)            { return nil, nil }

func TestWaitlist_JoinIsIdempotent(t *testing.T) {
	repo := &mockWaitlistRepo{}
	uc := NewWaitlistUsecase(repo, nil)

	already, err := uc.Join(context.Background(), "jo@example.com", "", "")
	if err != nil || already {
		t.Fatalf("first join: already=%v err=%v", already, err)
	}

	already, err = uc.Join(context.Background(), "JO@example.com ", "", "")
	if err != nil {
		t.Fatalf("second join must not error: %v", err)
	}
	if !already {
		t.Fatal("second join should report already on the list")
	}
}

func TestWaitlist_HoneypotSilentNoWrite(t *testing.T) {
	repo := &mockWaitlistRepo{}
	uc := NewWaitlistUsecase(repo, nil)

	already, err := uc.Join(context.Background(), "bot@example.com", "", "I am human")
	if err != nil || already {
		t.Fatalf("honeypot must look like a fresh success: already=%v err=%v", already, err)
	}
	if repo.upserts != 0 {
		t.Fatal("honeypot submission must not touch the database")
	}
}

func TestWaitlist_RejectsBadEmail(t *testing.T) {
	uc := NewWaitlistUsecase(&mockWaitlistRepo{}, nil)

	for _, email := range []string{"", "  ", "not-an-email"} {
		if _, err := uc.Join(context.Background(), email, "", ""); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("email %q: expected ErrInvalidInput, got %v", email, err)
		}
	}
}

func TestWaitlist_FeedbackRequiresMessage(t *testing.T) {
	uc := NewWaitlistUsecase(&mockWaitlistRepo{}, nil)

	if err := uc.SubmitFeedback(context.Background(), nil, "a@b.c", "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := uc.SubmitFeedback(context.Background(), nil, "", "love it"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}
