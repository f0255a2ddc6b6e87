package job

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Type is the closed set of employment types accepted at the API boundary.
type Type string

const (
	TypeFulltime   Type = "Fulltime"
	TypeParttime   Type = "Parttime"
	TypeContract   Type = "Contract"
	TypeInternship Type = "Internship"
)

func ValidType(s string) bool {
	switch Type(s) {
	case TypeFulltime, TypeParttime, TypeContract, TypeInternship:
		return true
	}
	return false
}

type Job struct {
	ID              uuid.UUID
	Title           string
	Description     string
	Summary         *string
	Locations       []string
	JobType         *string
	VisaRequirement *string
	SalaryMin       *int
	SalaryMax       *int
	ExperienceMin   *int
	Platform        *string
	CompanyName     string
	Embedding       *pgvector.Vector
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Distance is only populated when a listing query ran in relevance mode.
type WithDistance struct {
	Job
	Distance *float64
}
