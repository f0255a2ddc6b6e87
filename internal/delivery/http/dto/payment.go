package dto

import "time"

type CheckoutSessionResponse struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	AmountCent int       `json:"amount_cent"`
	Currency   string    `json:"currency"`
	CreditsFor int       `json:"credits_for"`
	CreatedAt  time.Time `json:"created_at"`
}

type InvoiceResponse struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	AmountCent int       `json:"amount_cent"`
	Currency   string    `json:"currency"`
	PDFURL     string    `json:"pdf_url,omitempty"`
	IssuedAt   time.Time `json:"issued_at"`
}
