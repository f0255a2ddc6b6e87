package repository

import (
	"context"

	"github.com/gethired/gethired/internal/database"
	"github.com/gethired/gethired/internal/domain/user"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, NOW(), NOW())`,
		u.ID, u.Email, u.PasswordHash)
	return err
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	n, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

const profileColumns = `id, user_id, full_name, COALESCE(desired_roles, '{}'),
	COALESCE(locations, '{}'), salary_min, salary_max, COALESCE(skills, '{}'),
	resume_digest, ai_credits, embedding, created_at, updated_at`

func (r *PostgresUserRepository) CreateProfile(ctx context.Context, p user.Profile) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO profiles (id, user_id, full_name, desired_roles, locations,
		     salary_min, salary_max, skills, ai_credits, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`,
		p.ID, p.UserID, p.FullName, p.DesiredRoles, p.Locations,
		p.SalaryMin, p.SalaryMax, p.Skills, p.AICredits)
	return err
}

func (r *PostgresUserRepository) GetProfile(ctx context.Context, userID uuid.UUID) (user.Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)

	var p user.Profile
	err := row.Scan(
		&p.ID, &p.UserID, &p.FullName, &p.DesiredRoles,
		&p.Locations, &p.SalaryMin, &p.SalaryMax, &p.Skills,
		&p.ResumeDigest, &p.AICredits, &p.Embedding, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return user.Profile{}, user.ErrProfileNotFound
		}
		return user.Profile{}, err
	}
	return p, nil
}

func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, p user.Profile) error {
	n, err := r.db.Exec(ctx,
		`UPDATE profiles
		 SET full_name = $2, desired_roles = $3, locations = $4,
		     salary_min = $5, salary_max = $6, skills = $7, updated_at = NOW()
		 WHERE user_id = $1`,
		p.UserID, p.FullName, p.DesiredRoles, p.Locations,
		p.SalaryMin, p.SalaryMax, p.Skills)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrProfileNotFound
	}
	return nil
}

func (r *PostgresUserRepository) SetResumeDigest(ctx context.Context, userID uuid.UUID, digest string) error {
	n, err := r.db.Exec(ctx,
		`UPDATE profiles SET resume_digest = $2, updated_at = NOW() WHERE user_id = $1`,
		userID, digest)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrProfileNotFound
	}
	return nil
}

func (r *PostgresUserRepository) SetEmbedding(ctx context.Context, userID uuid.UUID, emb pgvector.Vector) error {
	n, err := r.db.Exec(ctx,
		`UPDATE profiles SET embedding = $2, updated_at = NOW() WHERE user_id = $1`,
		userID, emb)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrProfileNotFound
	}
	return nil
}

// DeductCredits relies on the WHERE guard for atomicity: concurrent
// requests race on the same row and only those that still see a sufficient
// balance decrement it.
func (r *PostgresUserRepository) DeductCredits(ctx context.Context, userID uuid.UUID, cost int) (bool, error) {
	if cost <= 0 {
		return true, nil
	}
	n, err := r.db.Exec(ctx,
		`UPDATE profiles
		 SET ai_credits = ai_credits - $2, updated_at = NOW()
		 WHERE user_id = $1 AND ai_credits >= $2`,
		userID, cost)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
