package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"

	"campusevents/internal/errmsg"
)

// ErrAlreadyRegistered marks the unique (user_id, event_id) violation so
// callers can answer with a conflict instead of a generic failure.
var ErrAlreadyRegistered = errors.New("already registered for this event")

type RegistrationsRepo interface {
	CreateRegistration(ctx context.Context, userID, eventID uuid.UUID, accessToken string) (*Registration, error)
	IsRegistered(ctx context.Context, userID, eventID uuid.UUID, accessToken string) (bool, error)
	ListAttendees(ctx context.Context, eventID uuid.UUID, accessToken string) ([]Registration, error)
	CancelRegistration(ctx context.Context, userID, eventID uuid.UUID, accessToken string) error
}

func newTicketCode() string {
	return "TCK-" + strings.ToUpper(uuid.New().String()[:8])
}

func (su *SupabaseRepo) CreateRegistration(ctx context.Context, userID, eventID uuid.UUID, accessToken string) (*Registration, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %w", err)
	}

	row := map[string]interface{}{
		"user_id":     userID,
		"event_id":    eventID,
		"status":      RegistrationConfirmed,
		"ticket_code": newTicketCode(),
	}

	raw, count, err := client.From(RegistrationsTable).
		Insert(row, false, "", "", "exact").
		Execute()
	if err != nil {
		if errmsg.IsDuplicate(errmsg.Normalize(err)) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}

	var created []Registration
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("failed to unmarshal registration: %w", err)
	}
	if count == 0 || len(created) == 0 {
		return nil, fmt.Errorf("no registration data returned after insert")
	}
	return &created[0], nil
}

func (su *SupabaseRepo) IsRegistered(ctx context.Context, userID, eventID uuid.UUID, accessToken string) (bool, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return false, fmt.Errorf("failed to create authenticated client: %w", err)
	}

	raw, _, err := client.From(RegistrationsTable).
		Select("id", "", false).
		Eq("user_id", userID.String()).
		Eq("event_id", eventID.String()).
		Execute()
	if err != nil {
		return false, fmt.Errorf("failed to check registration: %w", err)
	}

	var rows []struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return false, fmt.Errorf("failed to unmarshal registration rows: %w", err)
	}
	return len(rows) > 0, nil
}

func (su *SupabaseRepo) ListAttendees(ctx context.Context, eventID uuid.UUID, accessToken string) ([]Registration, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %w", err)
	}

	raw, _, err := client.From(RegistrationsTable).
		Select("*", "", false).
		Eq("event_id", eventID.String()).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list attendees: %w", err)
	}

	var regs []Registration
	if err := json.Unmarshal(raw, &regs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal registrations: %w", err)
	}
	return regs, nil
}

func (su *SupabaseRepo) CancelRegistration(ctx context.Context, userID, eventID uuid.UUID, accessToken string) error {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return fmt.Errorf("failed to create authenticated client: %w", err)
	}

	_, count, err := client.From(RegistrationsTable).
		Delete("", "exact").
		Eq("user_id", userID.String()).
		Eq("event_id", eventID.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to cancel registration: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("no registration found to cancel")
	}
	return nil
}
