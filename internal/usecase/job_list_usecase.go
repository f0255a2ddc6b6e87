package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gethired/gethired/internal/domain/job"
	"github.com/gethired/gethired/internal/domain/user"
	"github.com/gethired/gethired/internal/repository"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// ErrNoAnchorEmbedding is returned when a relevance sort is requested but
// no embedding exists for the anchor entity yet.
var ErrNoAnchorEmbedding = errors.New("no embedding available for relevance sort")

type JobListParams struct {
	JobType           string
	Location          string
	VisaRequirement   string
	Platform          string
	CompanyName       string
	TitleKeywords     []string
	MinSalary         int
	MinExperience     int
	CreatedAfter      *time.Time
	SortBy            string
	SortOrder         string
	Tab               string
	ApplicationStatus string
	Page              int
	Limit             int

	RequesterID  uuid.UUID  // uuid.Nil when anonymous
	AnchorJobID  *uuid.UUID // "jobs similar to this one"
	AnchorUserID *uuid.UUID // internal trust path only
}

type JobListItem struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	Description string    `json:"description"`
	Locations   []string  `json:"locations"`
	JobType     string    `json:"job_type,omitempty"`
	SalaryMin   *int      `json:"salary_min"`
	SalaryMax   *int      `json:"salary_max"`
	Platform    string    `json:"platform,omitempty"`
	CompanyName string    `json:"company_name"`
	CreatedAt   time.Time `json:"created_at"`
	Distance    *float64  `json:"distance,omitempty"`
}

type JobListResult struct {
	Items    []JobListItem `json:"items"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

type JobListUsecase interface {
	ListJobs(ctx context.Context, params JobListParams) (JobListResult, error)
}

type profileReader interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (user.Profile, error)
}

// Reranker reorders a relevance page; implementations must degrade by
// returning the input unchanged on any failure.
type Reranker interface {
	Rerank(ctx context.Context, userID uuid.UUID, items []JobListItem) []JobListItem
}

type JobList struct {
	jobs     repository.JobRepository
	profiles profileReader
	reranker Reranker
	cache    SearchCache
	logger   *log.Logger
}

func NewJobListUsecase(jobs repository.JobRepository, profiles profileReader, reranker Reranker, cache SearchCache, logger *log.Logger) *JobList {
	return &JobList{jobs: jobs, profiles: profiles, reranker: reranker, cache: cache, logger: logger}
}

func (u *JobList) ListJobs(ctx context.Context, params JobListParams) (JobListResult, error) {
	f, err := u.validate(params)
	if err != nil {
		return JobListResult{}, err
	}

	relevance := f.SortBy == repository.SortRelevance
	if relevance {
		anchor, err := u.resolveAnchor(ctx, params)
		if err != nil {
			return JobListResult{}, err
		}
		f.AnchorEmbedding = anchor
	}

	// Tab pages are user-specific and relevance pages depend on a profile
	// embedding that changes between requests; neither is cached.
	cacheable := u.cache != nil && f.Tab == "" && !relevance
	cacheKey := ""
	lockKey := ""
	lockAcquired := false

	if cacheable {
		cacheKey = JobsSearchCacheKey(f)
		lockKey = JobsSearchLockKey(cacheKey)

		var cached JobListResult
		hit, err := u.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil && hit {
			if u.logger != nil {
				u.logger.Printf("[Jobs] Cache HIT: %s", cacheKey)
			}
			return cached, nil
		}

		ok, err := u.cache.SetIfNotExists(ctx, lockKey, "1", 30*time.Second)
		if err == nil && ok {
			lockAcquired = true
		} else if err == nil && !ok {
			jitter := time.Duration(time.Now().UnixNano()%201) * time.Millisecond
			time.Sleep(300*time.Millisecond + jitter)
			hit, err2 := u.cache.GetJSON(ctx, cacheKey, &cached)
			if err2 == nil && hit {
				return cached, nil
			}
		}
	}

	rows, total, err := u.jobs.ListJobs(ctx, f)
	if err != nil {
		if u.logger != nil {
			u.logger.Printf("[Jobs] list query failed: %v", err)
		}
		return JobListResult{}, ErrInternal
	}

	items := make([]JobListItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, toListItem(r))
	}

	if relevance && u.reranker != nil && params.RequesterID != uuid.Nil {
		items = u.reranker.Rerank(ctx, params.RequesterID, items)
	}

	size, _ := pageWindow(params)
	out := JobListResult{Items: items, Total: total, Page: maxInt(params.Page, 1), PageSize: size}

	if cacheable {
		_ = u.cache.SetJSON(ctx, cacheKey, out, 0)
		if lockAcquired {
			_ = u.cache.Delete(ctx, lockKey)
		}
	}
	return out, nil
}

// validate rejects unknown enum values instead of passing them through to
// the query layer.
func (u *JobList) validate(params JobListParams) (repository.JobFilter, error) {
	if params.JobType != "" && !job.ValidType(params.JobType) {
		return repository.JobFilter{}, ErrInvalidInput
	}

	sortBy := repository.SortKey(strings.TrimSpace(params.SortBy))
	switch sortBy {
	case "", repository.SortCreatedAt, repository.SortCompany, repository.SortSalaryMin, repository.SortRelevance:
	default:
		return repository.JobFilter{}, ErrInvalidInput
	}

	order := strings.ToLower(strings.TrimSpace(params.SortOrder))
	if order != "" && order != "asc" && order != "desc" {
		return repository.JobFilter{}, ErrInvalidInput
	}

	tab := repository.Tab(strings.TrimSpace(params.Tab))
	switch tab {
	case "", repository.TabSaved, repository.TabApplied:
	default:
		return repository.JobFilter{}, ErrInvalidInput
	}
	if tab != "" && params.RequesterID == uuid.Nil {
		return repository.JobFilter{}, ErrUnauthorized
	}
	if params.ApplicationStatus != "" && tab != repository.TabApplied {
		return repository.JobFilter{}, ErrInvalidInput
	}

	if params.Page < 0 || params.Limit < 0 {
		return repository.JobFilter{}, ErrInvalidInput
	}
	size, page := pageWindow(params)

	return repository.JobFilter{
		JobType:           params.JobType,
		Location:          params.Location,
		VisaRequirement:   params.VisaRequirement,
		Platform:          params.Platform,
		CompanyName:       params.CompanyName,
		TitleKeywords:     params.TitleKeywords,
		MinSalary:         params.MinSalary,
		MinExperience:     params.MinExperience,
		CreatedAfter:      params.CreatedAfter,
		SortBy:            sortBy,
		SortOrder:         order,
		Page:              page,
		PageSize:          size,
		Tab:               tab,
		ApplicationStatus: params.ApplicationStatus,
		UserID:            params.RequesterID,
	}, nil
}

// resolveAnchor picks the embedding the relevance sort orders against:
// an explicit target user (internal callers), a reference job, or the
// requesting user's own profile.
func (u *JobList) resolveAnchor(ctx context.Context, params JobListParams) (*pgvector.Vector, error) {
	if params.AnchorUserID != nil {
		return u.profileAnchor(ctx, *params.AnchorUserID)
	}
	if params.AnchorJobID != nil {
		emb, err := u.jobs.GetEmbedding(ctx, *params.AnchorJobID)
		if err != nil {
			if errors.Is(err, repository.ErrJobNotFound) {
				return nil, ErrNotFound
			}
			return nil, ErrInternal
		}
		if emb == nil {
			return nil, ErrNoAnchorEmbedding
		}
		return emb, nil
	}
	if params.RequesterID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	return u.profileAnchor(ctx, params.RequesterID)
}

func (u *JobList) profileAnchor(ctx context.Context, userID uuid.UUID) (*pgvector.Vector, error) {
	p, err := u.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrProfileNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrInternal
	}
	if p.Embedding == nil {
		return nil, ErrNoAnchorEmbedding
	}
	return p.Embedding, nil
}

func pageWindow(params JobListParams) (size, page int) {
	size = params.Limit
	if size <= 0 {
		size = repository.DefaultPageSize
	}
	if size > repository.MaxPageSize {
		size = repository.MaxPageSize
	}
	page = params.Page
	if page <= 0 {
		page = 1
	}
	return size, page
}

func toListItem(r job.WithDistance) JobListItem {
	it := JobListItem{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Locations:   r.Locations,
		SalaryMin:   r.SalaryMin,
		SalaryMax:   r.SalaryMax,
		CompanyName: r.CompanyName,
		CreatedAt:   r.CreatedAt,
		Distance:    r.Distance,
	}
	if r.Summary != nil {
		it.Summary = *r.Summary
	}
	if r.JobType != nil {
		it.JobType = *r.JobType
	}
	if r.Platform != nil {
		it.Platform = *r.Platform
	}
	return it
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
