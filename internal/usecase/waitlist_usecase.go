package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/gethired/gethired/internal/domain/waitlist"
	"github.com/gethired/gethired/internal/repository"

	"github.com/google/uuid"
)

type WaitlistUsecase interface {
	Join(ctx context.Context, email, referrer, honeypot string) (alreadyOn bool, err error)
	SubmitFeedback(ctx context.Context, userID *uuid.UUID, email, message string) error
}

type Waitlist struct {
	repo   repository.WaitlistRepository
	logger *log.Logger
}

func NewWaitlistUsecase(repo repository.WaitlistRepository, logger *log.Logger) *Waitlist {
	return &Waitlist{repo: repo, logger: logger}
}

// Join is idempotent: a repeated email succeeds with alreadyOn=true. A
// populated honeypot field gets a silent success and no database write.
func (u *Waitlist) Join(ctx context.Context, email, referrer, honeypot string) (bool, error) {
	if strings.TrimSpace(honeypot) != "" {
		if u.logger != nil {
			u.logger.Printf("[Waitlist] honeypot tripped, dropping submission")
		}
		return false, nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return false, ErrInvalidInput
	}

	e := waitlist.Entry{ID: uuid.New(), Email: email}
	if ref := strings.TrimSpace(referrer); ref != "" {
		e.Referrer = &ref
	}

	inserted, err := u.repo.Upsert(ctx, e)
	if err != nil {
		return false, ErrInternal
	}
	return !inserted, nil
}

func (u *Waitlist) SubmitFeedback(ctx context.Context, userID *uuid.UUID, email, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return ErrInvalidInput
	}

	f := waitlist.Feedback{ID: uuid.New(), UserID: userID, Message: message}
	if em := strings.ToLower(strings.TrimSpace(email)); em != "" {
		f.Email = &em
	}

	if err := u.repo.CreateFeedback(ctx, f); err != nil {
		return ErrInternal
	}
	return nil
}
