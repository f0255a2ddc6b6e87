package dto

import "time"

type JobDetailResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Summary         string    `json:"summary,omitempty"`
	Description     string    `json:"description"`
	Locations       []string  `json:"locations"`
	JobType         string    `json:"job_type,omitempty"`
	VisaRequirement string    `json:"visa_requirement,omitempty"`
	SalaryMin       *int      `json:"salary_min"`
	SalaryMax       *int      `json:"salary_max"`
	ExperienceMin   *int      `json:"experience_min"`
	Platform        string    `json:"platform,omitempty"`
	CompanyName     string    `json:"company_name"`
	CreatedAt       time.Time `json:"created_at"`
}

type JobSummaryResponse struct {
	JobID   string `json:"job_id"`
	Summary string `json:"summary"`
}
