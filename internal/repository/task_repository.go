package repository

import (
	"context"

	"github.com/gethired/gethired/internal/database"
	"github.com/gethired/gethired/internal/domain/task"

	"github.com/google/uuid"
)

type TaskRepository interface {
	Enqueue(ctx context.Context, t task.Task) error
	// ClaimPending flips up to limit pending rows to running and returns
	// them. SKIP LOCKED keeps concurrent pollers from double-claiming.
	ClaimPending(ctx context.Context, limit int) ([]task.Task, error)
	MarkSucceeded(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

type PostgresTaskRepository struct {
	db database.DB
}

func NewPostgresTaskRepository(db database.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

func (r *PostgresTaskRepository) Enqueue(ctx context.Context, t task.Task) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO tasks (id, kind, payload, status, attempts, created_at, updated_at)
		 VALUES ($1, $2, $3, 'pending', 0, NOW(), NOW())`,
		t.ID, string(t.Kind), t.Payload)
	return err
}

func (r *PostgresTaskRepository) ClaimPending(ctx context.Context, limit int) ([]task.Task, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(ctx,
		`UPDATE tasks SET status = 'running', attempts = attempts + 1, updated_at = NOW()
		 WHERE id IN (
		   SELECT id FROM tasks
		   WHERE status = 'pending'
		   ORDER BY created_at ASC
		   LIMIT $1
		   FOR UPDATE SKIP LOCKED
		 )
		 RETURNING id, kind, payload, status, attempts, last_error, created_at, updated_at`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]task.Task, 0)
	for rows.Next() {
		var t task.Task
		var kind, status string
		if err := rows.Scan(&t.ID, &kind, &t.Payload, &status, &t.Attempts,
			&t.LastError, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Kind = task.Kind(kind)
		t.Status = task.Status(status)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresTaskRepository) MarkSucceeded(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE tasks SET status = 'succeeded', updated_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *PostgresTaskRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE tasks SET status = 'failed', last_error = $2, updated_at = NOW() WHERE id = $1`,
		id, reason)
	return err
}
