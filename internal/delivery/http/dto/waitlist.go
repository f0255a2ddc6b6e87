package dto

// Website is the honeypot field: humans never see it, bots fill it.
type WaitlistJoinRequest struct {
	Email    string `json:"email"`
	Referrer string `json:"referrer,omitempty"`
	Website  string `json:"website,omitempty"`
}

type WaitlistJoinResponse struct {
	Message string `json:"message"`
}

type FeedbackRequest struct {
	Email   string `json:"email,omitempty"`
	Message string `json:"message"`
}
