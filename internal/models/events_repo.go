package models

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"

	"campusevents/internal/storage"
)

type EventsRepo interface {
	ListPublicEvents(ctx context.Context, offset, limit int) ([]Event, int, error)
	ListEventsByHost(ctx context.Context, hostID uuid.UUID, accessToken string) ([]Event, error)
	ListAttendingEvents(ctx context.Context, userID uuid.UUID, accessToken string) ([]Event, error)
	ListEventsByOrganization(ctx context.Context, orgID uuid.UUID) ([]Event, error)
	ListEventsBetween(ctx context.Context, startDate, endDate string) ([]Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error)
	CreateEvent(ctx context.Context, event *Event, accessToken string) (*Event, error)
	UpdateEvent(ctx context.Context, id, hostID uuid.UUID, patch map[string]interface{}, accessToken string) (*Event, error)
	DeleteEvent(ctx context.Context, id, hostID uuid.UUID, accessToken string) error
	UploadEventBanner(ctx context.Context, objectPath string, data io.Reader, accessToken string) error
	RemoveEventBanner(ctx context.Context, objectPath string, accessToken string) error
}

func (su *SupabaseRepo) ListPublicEvents(ctx context.Context, offset, limit int) ([]Event, int, error) {
	raw, count, err := su.supabaseClient.From(EventsTable).
		Select("*", "exact", false).
		Eq("is_public", "true").
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Range(offset, offset+limit-1, "").
		Execute()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}

	var events []Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal event rows: %w", err)
	}
	return events, int(count), nil
}

func (su *SupabaseRepo) ListEventsByHost(ctx context.Context, hostID uuid.UUID, accessToken string) ([]Event, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %w", err)
	}

	raw, _, err := client.From(EventsTable).
		Select("*", "", false).
		Eq("host_id", hostID.String()).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list hosted events: %w", err)
	}

	var events []Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event rows: %w", err)
	}
	return events, nil
}

// ListAttendingEvents joins registrations to events, the same embedded-select
// the dashboard's "attending" tab issues.
func (su *SupabaseRepo) ListAttendingEvents(ctx context.Context, userID uuid.UUID, accessToken string) ([]Event, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %w", err)
	}

	raw, _, err := client.From(RegistrationsTable).
		Select("event_id,events:events(*)", "", false).
		Eq("user_id", userID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list attending events: %w", err)
	}

	var rows []struct {
		EventID uuid.UUID `json:"event_id"`
		Event   *Event    `json:"events"`
	}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal registration rows: %w", err)
	}

	// Flatten and drop registrations whose event was deleted.
	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		if row.Event != nil {
			events = append(events, *row.Event)
		}
	}
	return events, nil
}

func (su *SupabaseRepo) ListEventsByOrganization(ctx context.Context, orgID uuid.UUID) ([]Event, error) {
	raw, _, err := su.supabaseClient.From(EventsTable).
		Select("*", "", false).
		Eq("organization_id", orgID.String()).
		Order("date", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list organization events: %w", err)
	}

	var events []Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event rows: %w", err)
	}
	return events, nil
}

func (su *SupabaseRepo) ListEventsBetween(ctx context.Context, startDate, endDate string) ([]Event, error) {
	raw, _, err := su.supabaseClient.From(EventsTable).
		Select("*", "", false).
		Eq("is_public", "true").
		Gte("date", startDate).
		Lte("date", endDate).
		Order("date", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list events between %s and %s: %w", startDate, endDate, err)
	}

	var events []Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event rows: %w", err)
	}
	return events, nil
}

func (su *SupabaseRepo) GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid event ID")
	}

	raw, _, err := su.supabaseClient.From(EventsTable).
		Select("*", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	var events []Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event rows: %w", err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("event not found")
	}
	return &events[0], nil
}

func (su *SupabaseRepo) CreateEvent(ctx context.Context, event *Event, accessToken string) (*Event, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %w", err)
	}

	row := map[string]interface{}{
		"title":           event.Title,
		"date":            event.Date,
		"time":            event.Time,
		"location":        event.Location,
		"type":            event.Type,
		"status":          event.Status,
		"description":     event.Description,
		"is_public":       event.IsPublic,
		"price":           event.Price,
		"host_id":         event.HostID,
		"organization_id": event.OrganizationID,
	}
	if event.ImageURL != "" {
		row["image_url"] = event.ImageURL
	}

	raw, count, err := client.From(EventsTable).
		Insert(row, false, "", "", "exact").
		Execute()
	if err != nil {
		return nil, err
	}

	var created []Event
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("failed to unmarshal created event: %w", err)
	}
	if count == 0 || len(created) == 0 {
		return nil, fmt.Errorf("no event data returned after insert")
	}
	return &created[0], nil
}

// UpdateEvent patches an event scoped by both id and host_id, so a non-owner
// patch matches zero rows even before row-level security weighs in.
func (su *SupabaseRepo) UpdateEvent(ctx context.Context, id, hostID uuid.UUID, patch map[string]interface{}, accessToken string) (*Event, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %w", err)
	}

	raw, count, err := client.From(EventsTable).
		Update(patch, "", "exact").
		Eq("id", id.String()).
		Eq("host_id", hostID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("no event found to update")
	}

	var updated []Event
	if err := json.Unmarshal(raw, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated event: %w", err)
	}
	if len(updated) == 0 {
		return nil, fmt.Errorf("no event data returned after update")
	}
	return &updated[0], nil
}

func (su *SupabaseRepo) DeleteEvent(ctx context.Context, id, hostID uuid.UUID, accessToken string) error {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return fmt.Errorf("failed to create authenticated client: %w", err)
	}

	_, count, err := client.From(EventsTable).
		Delete("", "exact").
		Eq("id", id.String()).
		Eq("host_id", hostID.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("no event found to delete")
	}
	return nil
}

func (su *SupabaseRepo) UploadEventBanner(ctx context.Context, objectPath string, data io.Reader, accessToken string) error {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return fmt.Errorf("failed to create authenticated client: %w", err)
	}

	if _, err := client.Storage.UploadFile(storage.BannersBucket, objectPath, data); err != nil {
		return fmt.Errorf("failed to upload banner: %w", err)
	}
	return nil
}

// RemoveEventBanner is the compensating action when the insert after a
// successful upload fails; without it the bucket accumulates orphaned files.
func (su *SupabaseRepo) RemoveEventBanner(ctx context.Context, objectPath string, accessToken string) error {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return fmt.Errorf("failed to create authenticated client: %w", err)
	}

	if _, err := client.Storage.RemoveFile(storage.BannersBucket, []string{objectPath}); err != nil {
		return fmt.Errorf("failed to remove banner: %w", err)
	}
	return nil
}
