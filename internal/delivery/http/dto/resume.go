package dto

import "time"

type ResumeResponse struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	Parsed      bool      `json:"parsed"`
	ParseFailed bool      `json:"parse_failed"`
	DownloadURL string    `json:"download_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ReviewRequest struct {
	JobID string `json:"job_id,omitempty"`
}

type ReviewResponse struct {
	ID        string   `json:"id"`
	ResumeID  string   `json:"resume_id"`
	JobID     string   `json:"job_id,omitempty"`
	Score     int      `json:"score"`
	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`
	Verdict   string   `json:"verdict"`
}
