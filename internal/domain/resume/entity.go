package resume

import (
	"time"

	"github.com/google/uuid"
)

// Resume rows are created synchronously with Content nil; the parse task
// fills Content in later or sets ParseFailed.
type Resume struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	FileName    string
	StoragePath string
	Content     *string
	ParseFailed bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Review struct {
	ID        uuid.UUID
	ResumeID  uuid.UUID
	JobID     *uuid.UUID
	Score     int
	Strengths []string
	Gaps      []string
	Verdict   string
	CreatedAt time.Time
}
