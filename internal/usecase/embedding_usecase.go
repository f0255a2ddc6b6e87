package usecase

import (
	"context"
	"log"

	"github.com/gethired/gethired/internal/domain/task"
	"github.com/gethired/gethired/internal/repository"

	"github.com/google/uuid"
)

type EmbeddingUsecase interface {
	EnqueueJobEmbed(ctx context.Context, jobID uuid.UUID) error
	EnqueueProfileEmbed(ctx context.Context, userID uuid.UUID) error
	SyncMissing(ctx context.Context, limit int) (int, error)
}

// Embeddings schedules embedding generation through the durable task
// queue; the actual model calls happen in the task runner.
type Embeddings struct {
	jobs   repository.JobRepository
	tasks  TaskEnqueuer
	logger *log.Logger
}

func NewEmbeddingUsecase(jobs repository.JobRepository, tasks TaskEnqueuer, logger *log.Logger) *Embeddings {
	return &Embeddings{jobs: jobs, tasks: tasks, logger: logger}
}

func (u *Embeddings) EnqueueJobEmbed(ctx context.Context, jobID uuid.UUID) error {
	t, err := newTask(task.KindJobEmbed, task.JobEmbedPayload{JobID: jobID})
	if err != nil {
		return ErrInternal
	}
	if err := u.tasks.Enqueue(ctx, t); err != nil {
		return ErrInternal
	}
	return nil
}

func (u *Embeddings) EnqueueProfileEmbed(ctx context.Context, userID uuid.UUID) error {
	t, err := newTask(task.KindProfileEmbed, task.ProfileEmbedPayload{UserID: userID})
	if err != nil {
		return ErrInternal
	}
	if err := u.tasks.Enqueue(ctx, t); err != nil {
		return ErrInternal
	}
	return nil
}

// SyncMissing enqueues an embed task for every job that has none yet and
// reports how many were scheduled.
func (u *Embeddings) SyncMissing(ctx context.Context, limit int) (int, error) {
	ids, err := u.jobs.ListIDsMissingEmbedding(ctx, limit)
	if err != nil {
		return 0, ErrInternal
	}

	scheduled := 0
	for _, id := range ids {
		if err := u.EnqueueJobEmbed(ctx, id); err != nil {
			if u.logger != nil {
				u.logger.Printf("[Embeddings] enqueue failed job=%s err=%v", id, err)
			}
			continue
		}
		scheduled++
	}
	return scheduled, nil
}
