package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gethired/gethired/internal/database"
	"github.com/gethired/gethired/internal/domain/job"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

var (
	ErrJobNotFound   = errors.New("job not found")
	ErrMissingAnchor = errors.New("relevance sort requires an anchor embedding")
)

type SortKey string

const (
	SortCreatedAt SortKey = "created_at"
	SortCompany   SortKey = "company_name"
	SortSalaryMin SortKey = "salary_min"
	SortRelevance SortKey = "relevance"
)

type Tab string

const (
	TabSaved   Tab = "saved"
	TabApplied Tab = "applied"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// JobFilter is the request-scoped set of listing predicates. Zero values mean
// "no constraint"; page size is carried here rather than in any shared
// state so concurrent requests cannot observe each other's overrides.
type JobFilter struct {
	JobType         string
	Location        string
	VisaRequirement string
	Platform        string
	CompanyName     string
	TitleKeywords   []string
	MinSalary       int
	MinExperience   int
	CreatedAfter    *time.Time

	SortBy    SortKey
	SortOrder string // "asc" | "desc"

	Page     int
	PageSize int

	Tab               Tab
	ApplicationStatus string
	UserID            uuid.UUID // bookmark/application owner for tab filters

	AnchorEmbedding *pgvector.Vector
}

func (f JobFilter) window() (limit, offset int) {
	size := f.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	return size, (page - 1) * size
}

type JobRepository interface {
	ListJobs(ctx context.Context, f JobFilter) ([]job.WithDistance, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (job.Job, error)
	GetEmbedding(ctx context.Context, id uuid.UUID) (*pgvector.Vector, error)
	SetSummary(ctx context.Context, id uuid.UUID, summary string) error
	SetEmbedding(ctx context.Context, id uuid.UUID, emb pgvector.Vector) error
	ListIDsMissingEmbedding(ctx context.Context, limit int) ([]uuid.UUID, error)
	ListIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, error)
	ListLocationSlugs(ctx context.Context) ([]string, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `j.id, COALESCE(j.title, ''), COALESCE(j.description, ''), j.summary,
	COALESCE(j.locations, '{}'), j.job_type, j.visa_requirement, j.salary_min, j.salary_max,
	j.experience_min, j.platform, COALESCE(j.company_name, ''), j.created_at, j.updated_at`

// buildListQuery translates a JobFilter into the SELECT and COUNT statements
// with their own argument lists. Every provided field becomes one conjunctive
// predicate; sort columns are taken from a closed map, never from the request
// string. countArgs covers only the WHERE placeholders: the anchor embedding
// and the window are bound after it and appear only in listSQL.
func buildListQuery(f JobFilter) (listSQL, countSQL string, listArgs, countArgs []any, err error) {
	var (
		where []string
		joins []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.JobType != "" {
		where = append(where, "j.job_type = "+arg(f.JobType))
	}
	if f.Location != "" {
		where = append(where, arg(f.Location)+" = ANY(j.locations)")
	}
	if f.VisaRequirement != "" {
		where = append(where, "j.visa_requirement = "+arg(f.VisaRequirement))
	}
	if f.MinSalary > 0 {
		where = append(where, "j.salary_min >= "+arg(f.MinSalary))
	}
	if f.MinExperience > 0 {
		where = append(where, "j.experience_min >= "+arg(f.MinExperience))
	}
	if f.Platform != "" {
		where = append(where, "j.platform = "+arg(f.Platform))
	}
	if f.CompanyName != "" {
		where = append(where, "j.company_name ILIKE "+arg("%"+f.CompanyName+"%"))
	}
	if len(f.TitleKeywords) > 0 {
		kw := make([]string, 0, len(f.TitleKeywords))
		for _, k := range f.TitleKeywords {
			k = strings.TrimSpace(k)
			if k == "" {
				continue
			}
			kw = append(kw, "j.title ILIKE "+arg("%"+k+"%"))
		}
		if len(kw) > 0 {
			where = append(where, "("+strings.Join(kw, " OR ")+")")
		}
	}
	if f.CreatedAfter != nil {
		where = append(where, "j.created_at >= "+arg(*f.CreatedAfter))
	}

	switch f.Tab {
	case TabSaved:
		joins = append(joins, "JOIN bookmarks b ON b.job_id = j.id")
		where = append(where, "b.user_id = "+arg(f.UserID))
	case TabApplied:
		joins = append(joins, "JOIN applications a ON a.job_id = j.id")
		where = append(where, "a.user_id = "+arg(f.UserID))
		if f.ApplicationStatus != "" {
			where = append(where, "a.status = "+arg(f.ApplicationStatus))
		}
	}

	// Everything bound so far belongs to the shared WHERE clause.
	countN := len(args)

	selectCols := jobColumns + ", NULL::float8 AS distance"
	var orderBy string
	dir := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		dir = "ASC"
	}

	switch f.SortBy {
	case SortRelevance:
		if f.AnchorEmbedding == nil {
			return "", "", nil, nil, ErrMissingAnchor
		}
		anchor := arg(*f.AnchorEmbedding)
		selectCols = jobColumns + ", (j.embedding <=> " + anchor + ") AS distance"
		orderBy = "j.embedding <=> " + anchor + " ASC"
		where = append(where, "j.embedding IS NOT NULL")
	case SortCompany:
		orderBy = "j.company_name " + dir
	case SortSalaryMin:
		orderBy = "j.salary_min " + dir + " NULLS LAST"
	case SortCreatedAt, "":
		orderBy = "j.created_at " + dir
	default:
		return "", "", nil, nil, fmt.Errorf("unknown sort key %q", f.SortBy)
	}

	base := "FROM jobs j"
	if len(joins) > 0 {
		base += " " + strings.Join(joins, " ")
	}
	if len(where) > 0 {
		base += " WHERE " + strings.Join(where, " AND ")
	}

	countSQL = "SELECT COUNT(1) " + base

	limit, offset := f.window()
	listSQL = "SELECT " + selectCols + " " + base +
		" ORDER BY " + orderBy +
		" LIMIT " + arg(limit) + " OFFSET " + arg(offset)

	return listSQL, countSQL, args, args[:countN:countN], nil
}

func (r *PostgresJobRepository) ListJobs(ctx context.Context, f JobFilter) ([]job.WithDistance, int, error) {
	listSQL, countSQL, args, countArgs, err := buildListQuery(f)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]job.WithDistance, 0)
	for rows.Next() {
		var j job.WithDistance
		if err := rows.Scan(
			&j.ID, &j.Title, &j.Description, &j.Summary,
			&j.Locations, &j.JobType, &j.VisaRequirement, &j.SalaryMin, &j.SalaryMax,
			&j.ExperienceMin, &j.Platform, &j.CompanyName, &j.CreatedAt, &j.UpdatedAt,
			&j.Distance,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	row := r.db.QueryRow(ctx,
		"SELECT "+jobColumns+" FROM jobs j WHERE j.id = $1", id)

	var j job.Job
	err := row.Scan(
		&j.ID, &j.Title, &j.Description, &j.Summary,
		&j.Locations, &j.JobType, &j.VisaRequirement, &j.SalaryMin, &j.SalaryMax,
		&j.ExperienceMin, &j.Platform, &j.CompanyName, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

func (r *PostgresJobRepository) GetEmbedding(ctx context.Context, id uuid.UUID) (*pgvector.Vector, error) {
	row := r.db.QueryRow(ctx, `SELECT embedding FROM jobs WHERE id = $1`, id)
	var emb *pgvector.Vector
	if err := row.Scan(&emb); err != nil {
		if isNoRows(err) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return emb, nil
}

func (r *PostgresJobRepository) SetSummary(ctx context.Context, id uuid.UUID, summary string) error {
	n, err := r.db.Exec(ctx,
		`UPDATE jobs SET summary = $2, updated_at = NOW() WHERE id = $1`, id, summary)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *PostgresJobRepository) SetEmbedding(ctx context.Context, id uuid.UUID, emb pgvector.Vector) error {
	n, err := r.db.Exec(ctx,
		`UPDATE jobs SET embedding = $2, updated_at = NOW() WHERE id = $1`, id, emb)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *PostgresJobRepository) ListIDsMissingEmbedding(ctx context.Context, limit int) ([]uuid.UUID, error) {
	if limit <= 0 {
		limit = 200
	}
	if limit > 5000 {
		limit = 5000
	}
	return r.scanIDs(ctx,
		`SELECT id FROM jobs WHERE embedding IS NULL ORDER BY created_at ASC LIMIT $1`, limit)
}

func (r *PostgresJobRepository) ListIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, error) {
	if limit <= 0 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	return r.scanIDs(ctx,
		`SELECT id FROM jobs ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *PostgresJobRepository) CountJobs(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresJobRepository) ListLocationSlugs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT LOWER(REPLACE(loc, ' ', '-'))
		 FROM jobs, UNNEST(locations) AS loc
		 ORDER BY 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) scanIDs(ctx context.Context, q string, args ...any) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
