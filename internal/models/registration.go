package models

import (
	"time"

	"github.com/google/uuid"
)

// Registration links a user to an event. The backend enforces uniqueness on
// (user_id, event_id); a duplicate insert comes back as a conflict, never as a
// second row.
type Registration struct {
	ID         uuid.UUID `db:"id" json:"id,omitempty"`
	UserID     uuid.UUID `db:"user_id" json:"user_id" validate:"required"`
	EventID    uuid.UUID `db:"event_id" json:"event_id" validate:"required"`
	Status     string    `db:"status" json:"status,omitempty"`
	TicketCode string    `db:"ticket_code" json:"ticket_code,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at,omitempty"`
}

const RegistrationConfirmed = "confirmed"
