package dto

// BroadcastRequest drives an operator-triggered campaign to the waitlist.
// Kind selects the template: "promotional" (default) takes a subject and
// an HTML body, "reminder" sends the onboarding nudge.
type BroadcastRequest struct {
	Kind    string `json:"kind"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type BroadcastResponse struct {
	Total  int `json:"total"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}
