package repository

import (
	"context"

	"github.com/gethired/gethired/internal/database"
	"github.com/gethired/gethired/internal/domain/waitlist"
)

type WaitlistRepository interface {
	// Upsert returns true when the email was newly added, false when it
	// was already on the list. Never errors on a duplicate.
	Upsert(ctx context.Context, e waitlist.Entry) (bool, error)
	CreateFeedback(ctx context.Context, f waitlist.Feedback) error
	ListEmails(ctx context.Context) ([]string, error)
}

type PostgresWaitlistRepository struct {
	db database.DB
}

func NewPostgresWaitlistRepository(db database.DB) *PostgresWaitlistRepository {
	return &PostgresWaitlistRepository{db: db}
}

func (r *PostgresWaitlistRepository) Upsert(ctx context.Context, e waitlist.Entry) (bool, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO waitlist (id, email, referrer, created_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		 RETURNING (xmax = 0)`,
		e.ID, e.Email, e.Referrer)

	var inserted bool
	if err := row.Scan(&inserted); err != nil {
		return false, err
	}
	return inserted, nil
}

func (r *PostgresWaitlistRepository) CreateFeedback(ctx context.Context, f waitlist.Feedback) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO feedback (id, user_id, email, message, created_at)
		 VALUES ($1, $2, $3, $4, NOW())`,
		f.ID, f.UserID, f.Email, f.Message)
	return err
}

func (r *PostgresWaitlistRepository) ListEmails(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT email FROM waitlist ORDER BY created_at ASC`)
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
