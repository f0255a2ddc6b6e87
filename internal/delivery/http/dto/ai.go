package dto

import "github.com/gethired/gethired/internal/usecase"

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Answer string                `json:"answer"`
	Jobs   []usecase.JobListItem `json:"jobs"`
}

type EmbeddingSyncRequest struct {
	Limit int `json:"limit"`
}

type EmbeddingSyncResponse struct {
	Scheduled int `json:"scheduled"`
}
