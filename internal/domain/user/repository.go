package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
)

type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	CreateProfile(ctx context.Context, p Profile) error
	GetProfile(ctx context.Context, userID uuid.UUID) (Profile, error)
	UpdateProfile(ctx context.Context, p Profile) error

	// DeductCredits decrements atomically and reports false when the
	// balance was below cost; the balance can never go negative.
	DeductCredits(ctx context.Context, userID uuid.UUID, cost int) (bool, error)
}
