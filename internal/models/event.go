package models

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus values are stored verbatim; the Indonesian labels are what the
// frontend filters on and what existing rows contain.
type EventStatus string

const (
	StatusDraft    EventStatus = "Draft"
	StatusOpen     EventStatus = "Terbuka"
	StatusClosed   EventStatus = "Ditutup"
	StatusUpcoming EventStatus = "Mendatang"
	StatusDone     EventStatus = "Selesai"
)

func (s EventStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusOpen, StatusClosed, StatusUpcoming, StatusDone:
		return true
	}
	return false
}

// Registrable reports whether new registrations are accepted in this status.
func (s EventStatus) Registrable() bool {
	return s == StatusOpen || s == StatusUpcoming
}

type Event struct {
	ID          uuid.UUID   `db:"id" json:"id,omitempty"`
	Title       string      `db:"title" json:"title" validate:"required"`
	Date        string      `db:"date" json:"date" validate:"required"` // YYYY-MM-DD
	Time        string      `db:"time" json:"time"`                     // HH:MM
	Location    string      `db:"location" json:"location" validate:"required"`
	Type        string      `db:"type" json:"type" validate:"required"`
	Status      EventStatus `db:"status" json:"status,omitempty"`
	ImageURL    string      `db:"image_url" json:"image_url,omitempty"` // bucket key or absolute URL
	Description string      `db:"description" json:"description"`
	IsPublic    bool        `db:"is_public" json:"is_public"`
	Price       string      `db:"price" json:"price,omitempty"` // "Gratis" or "Berbayar"
	Attendees   int         `db:"attendees" json:"attendees,omitempty"`

	// HostID is set once at creation and drives every later authorization
	// decision for this event.
	HostID         uuid.UUID  `db:"host_id" json:"host_id,omitempty"`
	OrganizationID *uuid.UUID `db:"organization_id" json:"organization_id,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// IsHostedBy reports whether the given user owns the event. Client-side
// convenience only; the authoritative check is the backend's row-level
// security.
func (e *Event) IsHostedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && e.HostID == userID
}
