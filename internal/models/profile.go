package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile mirrors the profiles row kept next to the auth user. Created by a
// trigger at sign-up; mutated only by the owning user.
type Profile struct {
	ID           uuid.UUID `db:"id" json:"id"`
	FullName     string    `db:"full_name" json:"full_name"`
	AvatarURL    string    `db:"avatar_url" json:"avatar_url,omitempty"`
	Role         string    `db:"role" json:"role"` // "organizer" or "participant"
	Bio          string    `db:"bio" json:"bio,omitempty"`
	UniversityID string    `db:"university_id" json:"university_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

const (
	RoleOrganizer   = "organizer"
	RoleParticipant = "participant"
)
