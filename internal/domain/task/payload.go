package task

import "github.com/google/uuid"

// Payloads are stored as jsonb on the task row, so a pending task survives
// a process restart with everything it needs to run.

type ResumeUploadPayload struct {
	ResumeID    uuid.UUID `json:"resume_id"`
	UserID      uuid.UUID `json:"user_id"`
	FileName    string    `json:"file_name"`
	StoragePath string    `json:"storage_path"`
	ContentB64  string    `json:"content_b64"`
}

type ResumeParsePayload struct {
	ResumeID    uuid.UUID `json:"resume_id"`
	UserID      uuid.UUID `json:"user_id"`
	FileName    string    `json:"file_name"`
	StoragePath string    `json:"storage_path"`
}

type JobEmbedPayload struct {
	JobID uuid.UUID `json:"job_id"`
}

type ProfileEmbedPayload struct {
	UserID uuid.UUID `json:"user_id"`
}
