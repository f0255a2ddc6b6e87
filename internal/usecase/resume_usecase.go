package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/gethired/gethired/internal/ai"
	"github.com/gethired/gethired/internal/domain/resume"
	"github.com/gethired/gethired/internal/domain/task"
	"github.com/gethired/gethired/internal/repository"

	"github.com/google/uuid"
)

const maxResumeBytes = 5 << 20

var ErrResumeNotParsed = errors.New("resume not parsed yet")

type TaskEnqueuer interface {
	Enqueue(ctx context.Context, t task.Task) error
}

type presigner interface {
	PresignedGetURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

type ResumeUsecase interface {
	Upload(ctx context.Context, userID uuid.UUID, fileName string, data []byte) (resume.Resume, error)
	Get(ctx context.Context, userID, id uuid.UUID) (resume.Resume, string, error)
	Review(ctx context.Context, userID, resumeID uuid.UUID, jobID *uuid.UUID) (resume.Review, error)
	GetReview(ctx context.Context, userID, reviewID uuid.UUID) (resume.Review, error)
}

type Resumes struct {
	resumes repository.ResumeRepository
	jobs    repository.JobRepository
	tasks   TaskEnqueuer
	storage presigner
	gate    *CreditGate
	model   textGenerator
	logger  *log.Logger
}

func NewResumeUsecase(resumes repository.ResumeRepository, jobs repository.JobRepository, tasks TaskEnqueuer, storage presigner, gate *CreditGate, model textGenerator, logger *log.Logger) *Resumes {
	return &Resumes{resumes: resumes, jobs: jobs, tasks: tasks, storage: storage, gate: gate, model: model, logger: logger}
}

// Upload creates the resume row synchronously with content NULL and hands
// the binary to the durable task queue; the caller gets its record back
// before any storage or parsing work happens.
func (u *Resumes) Upload(ctx context.Context, userID uuid.UUID, fileName string, data []byte) (resume.Resume, error) {
	fileName = path.Base(strings.TrimSpace(fileName))
	if fileName == "" || fileName == "." || len(data) == 0 {
		return resume.Resume{}, ErrInvalidInput
	}
	if len(data) > maxResumeBytes {
		return resume.Resume{}, ErrInvalidInput
	}

	rec := resume.Resume{
		ID:          uuid.New(),
		UserID:      userID,
		FileName:    fileName,
		StoragePath: fmt.Sprintf("resumes/%s/%s/%s", userID, uuid.New(), fileName),
	}
	if err := u.resumes.Create(ctx, rec); err != nil {
		return resume.Resume{}, ErrInternal
	}

	t, err := newTask(task.KindResumeUpload, task.ResumeUploadPayload{
		ResumeID:    rec.ID,
		UserID:      userID,
		FileName:    fileName,
		StoragePath: rec.StoragePath,
		ContentB64:  base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return resume.Resume{}, ErrInternal
	}
	if err := u.tasks.Enqueue(ctx, t); err != nil {
		if u.logger != nil {
			u.logger.Printf("[Resumes] enqueue upload task failed resume=%s err=%v", rec.ID, err)
		}
		return resume.Resume{}, ErrInternal
	}
	return rec, nil
}

func (u *Resumes) Get(ctx context.Context, userID, id uuid.UUID) (resume.Resume, string, error) {
	rec, err := u.resumes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrResumeNotFound) {
			return resume.Resume{}, "", ErrNotFound
		}
		return resume.Resume{}, "", ErrInternal
	}
	if rec.UserID != userID {
		return resume.Resume{}, "", ErrForbidden
	}

	url := ""
	if u.storage != nil {
		url, err = u.storage.PresignedGetURL(ctx, rec.StoragePath, 15*time.Minute)
		if err != nil {
			// The record is still useful without a download link.
			if u.logger != nil {
				u.logger.Printf("[Resumes] presign failed resume=%s err=%v", rec.ID, err)
			}
			url = ""
		}
	}
	return rec, url, nil
}

type reviewResponse struct {
	Score     int      `json:"score"`
	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`
	Verdict   string   `json:"verdict"`
}

func (u *Resumes) Review(ctx context.Context, userID, resumeID uuid.UUID, jobID *uuid.UUID) (resume.Review, error) {
	rec, _, err := u.Get(ctx, userID, resumeID)
	if err != nil {
		return resume.Review{}, err
	}
	if rec.Content == nil || *rec.Content == "" {
		return resume.Review{}, ErrResumeNotParsed
	}

	jobDescription := "General fit for the roles the candidate targets."
	if jobID != nil {
		j, err := u.jobs.GetByID(ctx, *jobID)
		if err != nil {
			if errors.Is(err, repository.ErrJobNotFound) {
				return resume.Review{}, ErrNotFound
			}
			return resume.Review{}, ErrInternal
		}
		jobDescription = j.Title + "\n\n" + j.Description
	}

	var review resume.Review
	err = u.gate.Charge(ctx, userID, OpResumeReview, func(ctx context.Context) error {
		var sb strings.Builder
		err := ai.ResumeReviewTemplate.Execute(&sb, struct {
			JobDescription string
			Resume         string
		}{JobDescription: jobDescription, Resume: *rec.Content})
		if err != nil {
			return err
		}

		raw, err := u.model.GenerateText(ctx, sb.String())
		if err != nil {
			return err
		}

		var resp reviewResponse
		if err := json.Unmarshal([]byte(stripCodeFence(raw)), &resp); err != nil {
			return fmt.Errorf("malformed review response: %w", err)
		}
		if resp.Score < 0 {
			resp.Score = 0
		}
		if resp.Score > 100 {
			resp.Score = 100
		}

		review = resume.Review{
			ID:        uuid.New(),
			ResumeID:  resumeID,
			JobID:     jobID,
			Score:     resp.Score,
			Strengths: resp.Strengths,
			Gaps:      resp.Gaps,
			Verdict:   resp.Verdict,
		}
		return u.resumes.CreateReview(ctx, review)
	})
	if err != nil {
		return resume.Review{}, err
	}
	return review, nil
}

// GetReview returns a stored review; reviews of another user's resume
// read as missing.
func (u *Resumes) GetReview(ctx context.Context, userID, reviewID uuid.UUID) (resume.Review, error) {
	rv, err := u.resumes.GetReview(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return resume.Review{}, ErrNotFound
		}
		return resume.Review{}, ErrInternal
	}

	rec, err := u.resumes.GetByID(ctx, rv.ResumeID)
	if err != nil {
		return resume.Review{}, ErrInternal
	}
	if rec.UserID != userID {
		return resume.Review{}, ErrNotFound
	}
	return rv, nil
}

func newTask(kind task.Kind, payload any) (task.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return task.Task{}, err
	}
	return task.Task{ID: uuid.New(), Kind: kind, Payload: b}, nil
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
