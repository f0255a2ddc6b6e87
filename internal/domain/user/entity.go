package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile carries the applicant's search preferences, the parsed resume
// digest used to build AI prompts, and the AI credit balance.
type Profile struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	FullName     *string
	DesiredRoles []string
	Locations    []string
	SalaryMin    *int
	SalaryMax    *int
	Skills       []string
	ResumeDigest *string
	AICredits    int
	Embedding    *pgvector.Vector
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
