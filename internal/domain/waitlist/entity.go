package waitlist

import (
	"time"

	"github.com/google/uuid"
)

type Entry struct {
	ID        uuid.UUID
	Email     string
	Referrer  *string
	CreatedAt time.Time
}

type Feedback struct {
	ID        uuid.UUID
	UserID    *uuid.UUID
	Email     *string
	Message   string
	CreatedAt time.Time
}
