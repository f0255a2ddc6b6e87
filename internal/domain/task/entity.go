package task

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindResumeUpload Kind = "resume_upload"
	KindResumeParse  Kind = "resume_parse"
	KindJobEmbed     Kind = "job_embed"
	KindProfileEmbed Kind = "profile_embed"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Task is a persisted background continuation. Rows survive process
// restarts; a task never ends in a non-terminal state once claimed.
type Task struct {
	ID        uuid.UUID
	Kind      Kind
	Payload   []byte
	Status    Status
	Attempts  int
	LastError *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
