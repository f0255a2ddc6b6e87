package tasks

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"mime"
	"path"
	"strings"

	"github.com/gethired/gethired/internal/ai"
	"github.com/gethired/gethired/internal/domain/job"
	"github.com/gethired/gethired/internal/domain/resume"
	"github.com/gethired/gethired/internal/domain/task"
	"github.com/gethired/gethired/internal/domain/user"
	"github.com/gethired/gethired/internal/usecase"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type jobStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (job.Job, error)
	SetEmbedding(ctx context.Context, id uuid.UUID, emb pgvector.Vector) error
}

type userStore interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (user.Profile, error)
	SetResumeDigest(ctx context.Context, userID uuid.UUID, digest string) error
	SetEmbedding(ctx context.Context, userID uuid.UUID, emb pgvector.Vector) error
}

type resumeStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (resume.Resume, error)
	SetContent(ctx context.Context, id uuid.UUID, content string) error
	MarkParseFailed(ctx context.Context, id uuid.UUID) error
}

// ObjectStore is exported so the wiring layer can pass a nil store when
// object storage is not configured.
type ObjectStore interface {
	Put(ctx context.Context, objectPath string, data []byte, contentType string) error
	Get(ctx context.Context, objectPath string) ([]byte, error)
}

type model interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Handlers holds the per-kind task bodies. Each returns nil only when the
// task's effect is fully durable; any error sends the row to failed with
// the reason recorded.
type Handlers struct {
	jobs    jobStore
	users   userStore
	resumes resumeStore
	storage ObjectStore
	model   model
	queue   usecase.TaskEnqueuer
	logger  *log.Logger
}

func NewHandlers(jobs jobStore, users userStore, resumes resumeStore, storage ObjectStore, model model, queue usecase.TaskEnqueuer, logger *log.Logger) *Handlers {
	return &Handlers{
		jobs:    jobs,
		users:   users,
		resumes: resumes,
		storage: storage,
		model:   model,
		queue:   queue,
		logger:  logger,
	}
}

func (h *Handlers) Handle(ctx context.Context, t task.Task) error {
	switch t.Kind {
	case task.KindResumeUpload:
		return h.resumeUpload(ctx, t)
	case task.KindResumeParse:
		return h.resumeParse(ctx, t)
	case task.KindJobEmbed:
		return h.jobEmbed(ctx, t)
	case task.KindProfileEmbed:
		return h.profileEmbed(ctx, t)
	default:
		return fmt.Errorf("unknown task kind %q", t.Kind)
	}
}

// resumeUpload moves the carried binary into object storage and chains a
// parse task. The base64 payload is what makes the upload replayable
// after a crash.
func (h *Handlers) resumeUpload(ctx context.Context, t task.Task) error {
	var p task.ResumeUploadPayload
	if err := json.Unmarshal(t.Payload, &p); err != nil {
		return fmt.Errorf("bad payload: %w", err)
	}

	data, err := base64.StdEncoding.DecodeString(p.ContentB64)
	if err != nil {
		return fmt.Errorf("bad payload content: %w", err)
	}

	if h.storage == nil {
		return fmt.Errorf("object storage is not configured")
	}
	if err := h.storage.Put(ctx, p.StoragePath, data, contentTypeFor(p.FileName)); err != nil {
		return err
	}

	next, err := newTask(task.KindResumeParse, task.ResumeParsePayload{
		ResumeID:    p.ResumeID,
		UserID:      p.UserID,
		FileName:    p.FileName,
		StoragePath: p.StoragePath,
	})
	if err != nil {
		return err
	}
	return h.queue.Enqueue(ctx, next)
}

// resumeParse digests the stored file with the model and writes the digest
// to both the resume row and the owner's profile, then chains a profile
// embed. A model or parse failure also flags the resume row so the UI can
// show the terminal state.
func (h *Handlers) resumeParse(ctx context.Context, t task.Task) error {
	var p task.ResumeParsePayload
	if err := json.Unmarshal(t.Payload, &p); err != nil {
		return fmt.Errorf("bad payload: %w", err)
	}

	digest, err := h.parseStoredResume(ctx, p)
	if err != nil {
		if markErr := h.resumes.MarkParseFailed(ctx, p.ResumeID); markErr != nil && h.logger != nil {
			h.logger.Printf("[Tasks] mark parse failed resume=%s err=%v", p.ResumeID, markErr)
		}
		return err
	}

	if err := h.resumes.SetContent(ctx, p.ResumeID, digest); err != nil {
		return err
	}
	if err := h.users.SetResumeDigest(ctx, p.UserID, digest); err != nil {
		return err
	}

	next, err := newTask(task.KindProfileEmbed, task.ProfileEmbedPayload{UserID: p.UserID})
	if err != nil {
		return err
	}
	return h.queue.Enqueue(ctx, next)
}

func (h *Handlers) parseStoredResume(ctx context.Context, p task.ResumeParsePayload) (string, error) {
	if h.storage == nil {
		return "", fmt.Errorf("object storage is not configured")
	}
	data, err := h.storage.Get(ctx, p.StoragePath)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	err = ai.ResumeParseTemplate.Execute(&sb, struct {
		FileName string
		Text     string
	}{FileName: p.FileName, Text: string(data)})
	if err != nil {
		return "", err
	}

	digest, err := h.model.GenerateText(ctx, sb.String())
	if err != nil {
		return "", err
	}
	digest = strings.TrimSpace(digest)
	if digest == "" {
		return "", fmt.Errorf("model returned an empty digest")
	}
	return digest, nil
}

func (h *Handlers) jobEmbed(ctx context.Context, t task.Task) error {
	var p task.JobEmbedPayload
	if err := json.Unmarshal(t.Payload, &p); err != nil {
		return fmt.Errorf("bad payload: %w", err)
	}

	j, err := h.jobs.GetByID(ctx, p.JobID)
	if err != nil {
		return err
	}

	values, err := h.model.Embed(ctx, jobEmbedText(j))
	if err != nil {
		return err
	}
	return h.jobs.SetEmbedding(ctx, p.JobID, pgvector.NewVector(values))
}

func (h *Handlers) profileEmbed(ctx context.Context, t task.Task) error {
	var p task.ProfileEmbedPayload
	if err := json.Unmarshal(t.Payload, &p); err != nil {
		return fmt.Errorf("bad payload: %w", err)
	}

	profile, err := h.users.GetProfile(ctx, p.UserID)
	if err != nil {
		return err
	}

	values, err := h.model.Embed(ctx, usecase.BuildProfileText(profile))
	if err != nil {
		return err
	}
	return h.users.SetEmbedding(ctx, p.UserID, pgvector.NewVector(values))
}

func jobEmbedText(j job.Job) string {
	parts := []string{j.Title, j.CompanyName}
	if j.Summary != nil && *j.Summary != "" {
		parts = append(parts, *j.Summary)
	} else {
		parts = append(parts, j.Description)
	}
	if len(j.Locations) > 0 {
		parts = append(parts, strings.Join(j.Locations, ", "))
	}
	return strings.Join(parts, "\n")
}

func contentTypeFor(fileName string) string {
	if ct := mime.TypeByExtension(path.Ext(fileName)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func newTask(kind task.Kind, payload any) (task.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return task.Task{}, err
	}
	return task.Task{ID: uuid.New(), Kind: kind, Payload: b}, nil
}
