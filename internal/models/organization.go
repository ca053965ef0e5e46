package models

import (
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	ID           uuid.UUID `db:"id" json:"id,omitempty"`
	Name         string    `db:"name" json:"name" validate:"required"`
	Type         string    `db:"type" json:"type"`
	Description  string    `db:"description" json:"description"`
	MembersCount int       `db:"members_count" json:"members_count"`
	Rating       float64   `db:"rating" json:"rating"`
	ImageURL     string    `db:"image_url" json:"image_url,omitempty"`
	BannerURL    string    `db:"banner_url" json:"banner_url,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
