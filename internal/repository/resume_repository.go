package repository

import (
	"context"
	"errors"

	"github.com/gethired/gethired/internal/database"
	"github.com/gethired/gethired/internal/domain/resume"

	"github.com/google/uuid"
)

var (
	ErrResumeNotFound = errors.New("resume not found")
	ErrReviewNotFound = errors.New("review not found")
)

type ResumeRepository interface {
	Create(ctx context.Context, r resume.Resume) error
	GetByID(ctx context.Context, id uuid.UUID) (resume.Resume, error)
	SetContent(ctx context.Context, id uuid.UUID, content string) error
	MarkParseFailed(ctx context.Context, id uuid.UUID) error
	CreateReview(ctx context.Context, rv resume.Review) error
	GetReview(ctx context.Context, id uuid.UUID) (resume.Review, error)
}

type PostgresResumeRepository struct {
	db database.DB
}

func NewPostgresResumeRepository(db database.DB) *PostgresResumeRepository {
	return &PostgresResumeRepository{db: db}
}

func (r *PostgresResumeRepository) Create(ctx context.Context, rec resume.Resume) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO resumes (id, user_id, file_name, storage_path, content, parse_failed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NULL, false, NOW(), NOW())`,
		rec.ID, rec.UserID, rec.FileName, rec.StoragePath)
	return err
}

func (r *PostgresResumeRepository) GetByID(ctx context.Context, id uuid.UUID) (resume.Resume, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, file_name, storage_path, content, parse_failed, created_at, updated_at
		 FROM resumes WHERE id = $1`, id)

	var rec resume.Resume
	err := row.Scan(&rec.ID, &rec.UserID, &rec.FileName, &rec.StoragePath,
		&rec.Content, &rec.ParseFailed, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return resume.Resume{}, ErrResumeNotFound
		}
		return resume.Resume{}, err
	}
	return rec, nil
}

func (r *PostgresResumeRepository) SetContent(ctx context.Context, id uuid.UUID, content string) error {
	n, err := r.db.Exec(ctx,
		`UPDATE resumes SET content = $2, parse_failed = false, updated_at = NOW() WHERE id = $1`,
		id, content)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrResumeNotFound
	}
	return nil
}

func (r *PostgresResumeRepository) MarkParseFailed(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx,
		`UPDATE resumes SET parse_failed = true, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrResumeNotFound
	}
	return nil
}

func (r *PostgresResumeRepository) CreateReview(ctx context.Context, rv resume.Review) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO resume_reviews (id, resume_id, job_id, score, strengths, gaps, verdict, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`,
		rv.ID, rv.ResumeID, rv.JobID, rv.Score, rv.Strengths, rv.Gaps, rv.Verdict)
	return err
}

func (r *PostgresResumeRepository) GetReview(ctx context.Context, id uuid.UUID) (resume.Review, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, resume_id, job_id, score, COALESCE(strengths, '{}'), COALESCE(gaps, '{}'), verdict, created_at
		 FROM resume_reviews WHERE id = $1`, id)

	var rv resume.Review
	err := row.Scan(&rv.ID, &rv.ResumeID, &rv.JobID, &rv.Score, &rv.Strengths, &rv.Gaps, &rv.Verdict, &rv.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return resume.Review{}, ErrReviewNotFound
		}
		return resume.Review{}, err
	}
	return rv, nil
}
