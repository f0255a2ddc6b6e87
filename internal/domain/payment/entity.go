package payment

import (
	"time"

	"github.com/google/uuid"
)

// Rows in the payments tables are written by the payment provider's webhook
// worker; this service only reads them back for the checkout and invoice
// endpoints.
type CheckoutSession struct {
	ID         string
	UserID     uuid.UUID
	Status     string
	AmountCent int
	Currency   string
	CreditsFor int
	CreatedAt  time.Time
}

type Invoice struct {
	ID         string
	UserID     uuid.UUID
	SessionID  string
	AmountCent int
	Currency   string
	PDFURL     *string
	IssuedAt   time.Time
}
