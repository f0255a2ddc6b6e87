package dto

type ProfileRequest struct {
	FullName     string   `json:"full_name"`
	DesiredRoles []string `json:"desired_roles"`
	Locations    []string `json:"locations"`
	SalaryMin    *int     `json:"salary_min"`
	SalaryMax    *int     `json:"salary_max"`
	Skills       []string `json:"skills"`
}

type ProfileResponse struct {
	FullName     string   `json:"full_name,omitempty"`
	DesiredRoles []string `json:"desired_roles"`
	Locations    []string `json:"locations"`
	SalaryMin    *int     `json:"salary_min"`
	SalaryMax    *int     `json:"salary_max"`
	Skills       []string `json:"skills"`
	AICredits    int      `json:"ai_credits"`
	HasResume    bool     `json:"has_resume"`
}
