package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gethired/gethired/internal/domain/job"
	"github.com/gethired/gethired/internal/domain/user"
	"github.com/gethired/gethired/internal/repository"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type mockJobRepo struct {
	items      []job.WithDistance
	total      int
	err        error
	lastFilter repository.JobFilter
	embedding  *pgvector.Vector
	embErr     error
}

func (m *mockJobRepo) ListJobs(_ context.Context, f repository.JobFilter) ([]job.WithDistance, int, error) {
	m.lastFilter = f
	return m.items, m.total, m.err
}
func (m *mockJobRepo) GetByID(context.Context, uuid.UUID) (job.Job, error) {
	return job.Job{}, repository.ErrJobNotFound
}
func (m *mockJobRepo) GetEmbedding(context.Context, uuid.UUID) (*pgvector.Vector, error) {
	return m.embedding, m.embErr
}
func (m *mockJobRepo) SetSummary(context.Context, uuid.UUID, string) error { return nil }
func (m *mockJobRepo) SetEmbedding(context.Context, uuid.UUID, pgvector.Vector) error {
	return nil
}
func (m *mockJobRepo) ListIDsMissingEmbedding(context.Context, int) ([]uuid.UUID, error) {
	return nil, nil
}
func (m *mockJobRepo) ListIDs(context.Context, int, int) ([]uuid.UUID, error) { return nil, nil }
func (m *mockJobRepo) ListLocationSlugs(context.Context) ([]string, error)    { return nil, nil }

type mockProfiles struct {
	p   user.Profile
	err error
}

func (m mockProfiles) GetProfile(context.Context, uuid.UUID) (user.Profile, error) {
	return m.p, m.err
}

func TestJobList_RejectsUnknownEnums(t *testing.T) {
	uc := NewJobListUsecase(&mockJobRepo{}, mockProfiles{}, nil, nil, nil)

	cases := []JobListParams{
		{JobType: "Freelance"},
		{SortBy: "salary_max"},
		{SortOrder: "sideways"},
		{Tab: "archived", RequesterID: uuid.New()},
		{ApplicationStatus: "interviewing"}, // status without applied tab
		{Page: -1},
		{Limit: -5},
	}
	for i, p := range cases {
		if _, err := uc.ListJobs(context.Background(), p); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestJobList_TabsRequireAuth(t *testing.T) {
	uc := NewJobListUsecase(&mockJobRepo{}, mockProfiles{}, nil, nil, nil)

	_, err := uc.ListJobs(context.Background(), JobListParams{Tab: "saved"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestJobList_Success(t *testing.T) {
	jobID := uuid.New()
	summary := "short"
	repo := &mockJobRepo{
		items: []job.WithDistance{{Job: job.Job{
			ID:          jobID,
			Title:       "Backend Engineer",
			Description: "desc",
			Summary:     &summary,
			CompanyName: "Acme",
			Locations:   []string{"Berlin"},
			CreatedAt:   time.Now().UTC(),
		}}},
		total: 41,
	}
	uc := NewJobListUsecase(repo, mockProfiles{}, nil, nil, nil)

	out, err := uc.ListJobs(context.Background(), JobListParams{
		JobType:   "Fulltime",
		MinSalary: 100000,
		SortBy:    "salary_min",
		SortOrder: "desc",
		Page:      1,
		Limit:     20,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.Items) != 1 || out.Items[0].ID != jobID || out.Items[0].Summary != "short" {
		t.Fatalf("unexpected items: %+v", out.Items)
	}
	if out.Total != 41 || out.Page != 1 || out.PageSize != 20 {
		t.Fatalf("unexpected window: %+v", out)
	}
	if repo.lastFilter.SortBy != repository.SortSalaryMin || repo.lastFilter.MinSalary != 100000 {
		t.Fatalf("filter not forwarded: %+v", repo.lastFilter)
	}
}

func TestJobList_RelevanceNeedsPrincipalAndEmbedding(t *testing.T) {
	uc := NewJobListUsecase(&mockJobRepo{}, mockProfiles{}, nil, nil, nil)

	_, err := uc.ListJobs(context.Background(), JobListParams{SortBy: "relevance"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("anonymous relevance: expected ErrUnauthorized, got %v", err)
	}

	// Authenticated but profile has no embedding yet.
	_, err = uc.ListJobs(context.Background(), JobListParams{SortBy: "relevance", RequesterID: uuid.New()})
	if !errors.Is(err, ErrNoAnchorEmbedding) {
		t.Fatalf("expected ErrNoAnchorEmbedding, got %v", err)
	}
}

func TestJobList_RelevanceAnchorFromProfile(t *testing.T) {
	anchor := pgvector.NewVector([]float32{1, 2, 3})
	repo := &mockJobRepo{}
	uc := NewJobListUsecase(repo, mockProfiles{p: user.Profile{Embedding: &anchor}}, nil, nil, nil)

	_, err := uc.ListJobs(context.Background(), JobListParams{SortBy: "relevance", RequesterID: uuid.New()})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.lastFilter.AnchorEmbedding == nil {
		t.Fatal("anchor embedding not forwarded to the filter")
	}
}

func TestJobList_RelevanceAnchorFromJob(t *testing.T) {
	anchor := pgvector.NewVector([]float32{1, 2, 3})
	repo := &mockJobRepo{embedding: &anchor}
	uc := NewJobListUsecase(repo, mockProfiles{}, nil, nil, nil)

	jobID := uuid.New()
	_, err := uc.ListJobs(context.Background(), JobListParams{
		SortBy:      "relevance",
		RequesterID: uuid.New(),
		AnchorJobID: &jobID,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.lastFilter.AnchorEmbedding == nil {
		t.Fatal("anchor embedding not forwarded to the filter")
	}
}

func TestJobList_QueryFailureIsGeneric(t *testing.T) {
	repo := &mockJobRepo{err: errors.New("connection refused")}
	uc := NewJobListUsecase(repo, mockProfiles{}, nil, nil, nil)

	_, err := uc.ListJobs(context.Background(), JobListParams{})
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}
