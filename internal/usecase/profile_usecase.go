package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/gethired/gethired/internal/domain/user"

	"github.com/google/uuid"
)

type ProfileUpdateInput struct {
	FullName     string
	DesiredRoles []string
	Locations    []string
	SalaryMin    *int
	SalaryMax    *int
	Skills       []string
}

type ProfileUsecase interface {
	Get(ctx context.Context, userID uuid.UUID) (user.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, in ProfileUpdateInput) (user.Profile, error)
}

type Profiles struct {
	users      user.Repository
	embeddings EmbeddingUsecase
	logger     *log.Logger
}

func NewProfileUsecase(users user.Repository, embeddings EmbeddingUsecase, logger *log.Logger) *Profiles {
	return &Profiles{users: users, embeddings: embeddings, logger: logger}
}

func (u *Profiles) Get(ctx context.Context, userID uuid.UUID) (user.Profile, error) {
	p, err := u.users.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrProfileNotFound) {
			return user.Profile{}, ErrNotFound
		}
		return user.Profile{}, ErrInternal
	}
	return p, nil
}

func (u *Profiles) Update(ctx context.Context, userID uuid.UUID, in ProfileUpdateInput) (user.Profile, error) {
	if in.SalaryMin != nil && *in.SalaryMin < 0 {
		return user.Profile{}, ErrInvalidInput
	}
	if in.SalaryMax != nil && in.SalaryMin != nil && *in.SalaryMax < *in.SalaryMin {
		return user.Profile{}, ErrInvalidInput
	}

	p, err := u.Get(ctx, userID)
	if err != nil {
		return user.Profile{}, err
	}

	if name := strings.TrimSpace(in.FullName); name != "" {
		p.FullName = &name
	}
	p.DesiredRoles = cleanList(in.DesiredRoles)
	p.Locations = cleanList(in.Locations)
	p.Skills = cleanList(in.Skills)
	p.SalaryMin = in.SalaryMin
	p.SalaryMax = in.SalaryMax

	if err := u.users.UpdateProfile(ctx, p); err != nil {
		return user.Profile{}, ErrInternal
	}

	// Preference changes shift the relevance anchor, so refresh the
	// profile embedding in the background.
	if u.embeddings != nil {
		if err := u.embeddings.EnqueueProfileEmbed(ctx, userID); err != nil && u.logger != nil {
			u.logger.Printf("[Profiles] embed enqueue failed user=%s err=%v", userID, err)
		}
	}
	return p, nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
