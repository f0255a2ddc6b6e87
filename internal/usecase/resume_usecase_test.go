package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/gethired/gethired/internal/domain/resume"
	"github.com/gethired/gethired/internal/repository"

	"github.com/google/uuid"
)

type mockResumeRepo struct {
	resumes map[uuid.UUID]resume.Resume
	reviews map[uuid.UUID]resume.Review
}

func (m *mockResumeRepo) Create(_ context.Context, r resume.Resume) error {
	m.resumes[r.ID] = r
	return nil
}

func (m *mockResumeRepo) GetByID(_ context.Context, id uuid.UUID) (resume.Resume, error) {
	r, ok := m.resumes[id]
	if !ok {
		return resume.Resume{}, repository.ErrResumeNotFound
	}
	return r, nil
}

func (m *mockResumeRepo) SetContent(context.Context, uuid.UUID, string) error { return nil }
func (m *mockResumeRepo) MarkParseFailed(context.Context, uuid.UUID) error    { return nil }

func (m *mockResumeRepo) CreateReview(_ context.Context, rv resume.Review) error {
	m.reviews[rv.ID] = rv
	return nil
}

func (m *mockResumeRepo) GetReview(_ context.Context, id uuid.UUID) (resume.Review, error) {
	rv, ok := m.reviews[id]
	if !ok {
		return resume.Review{}, repository.ErrReviewNotFound
	}
	return rv, nil
}

func reviewFixture() (*mockResumeRepo, uuid.UUID, resume.Review) {
	owner := uuid.New()
	rec := resume.Resume{ID: uuid.New(), UserID: owner, FileName: "cv.pdf"}
	rv := resume.Review{ID: uuid.New(), ResumeID: rec.ID, Score: 72, Verdict: "solid"}

	repo := &mockResumeRepo{
		resumes: map[uuid.UUID]resume.Resume{rec.ID: rec},
		reviews: map[uuid.UUID]resume.Review{rv.ID: rv},
	}
	return repo, owner, rv
}

func TestGetReview_Owner(t *testing.T) {
	repo, owner, rv := reviewFixture()
	uc := NewResumeUsecase(repo, nil, nil, nil, nil, nil, nil)

	got, err := uc.GetReview(context.Background(), owner, rv.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.ID != rv.ID || got.Score != 72 {
		t.Fatalf("wrong review returned: %+v", got)
	}
}

func TestGetReview_ForeignReadsAsMissing(t *testing.T) {
	repo, _, rv := reviewFixture()
	uc := NewResumeUsecase(repo, nil, nil, nil, nil, nil, nil)

	_, err := uc.GetReview(context.Background(), uuid.New(), rv.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign review, got %v", err)
	}
}

func TestGetReview_Missing(t *testing.T) {
	repo, owner, _ := reviewFixture()
	uc := NewResumeUsecase(repo, nil, nil, nil, nil, nil, nil)

	_, err := uc.GetReview(context.Background(), owner, uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
