package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"campusevents/internal/models"
	"campusevents/internal/storage"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 50
)

type EventService struct {
	eventsRepo models.EventsRepo
	regsRepo   models.RegistrationsRepo
	resolver   *storage.Resolver
}

func NewEventService(eventsRepo models.EventsRepo, regsRepo models.RegistrationsRepo, resolver *storage.Resolver) *EventService {
	return &EventService{
		eventsRepo: eventsRepo,
		regsRepo:   regsRepo,
		resolver:   resolver,
	}
}

// resolveBanners rewrites the stored image keys into public URLs in place.
func (es *EventService) resolveBanners(events []models.Event) {
	for i := range events {
		events[i].ImageURL = es.resolver.Resolve(events[i].ImageURL, "")
	}
}

func (es *EventService) ListPublicEvents(ctx context.Context, page, pageSize int) ([]models.Event, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	events, total, err := es.eventsRepo.ListPublicEvents(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	es.resolveBanners(events)
	return events, total, nil
}

func (es *EventService) ListHostedEvents(ctx context.Context, hostID uuid.UUID, accessToken string) ([]models.Event, error) {
	if hostID == uuid.Nil {
		return nil, fmt.Errorf("no valid UUID provided")
	}
	events, err := es.eventsRepo.ListEventsByHost(ctx, hostID, accessToken)
	if err != nil {
		return nil, err
	}
	es.resolveBanners(events)
	return events, nil
}

func (es *EventService) ListAttendingEvents(ctx context.Context, userID uuid.UUID, accessToken string) ([]models.Event, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("no valid UUID provided")
	}
	events, err := es.eventsRepo.ListAttendingEvents(ctx, userID, accessToken)
	if err != nil {
		return nil, err
	}
	es.resolveBanners(events)
	return events, nil
}

func (es *EventService) ListOrganizationEvents(ctx context.Context, orgID uuid.UUID) ([]models.Event, error) {
	if orgID == uuid.Nil {
		return nil, fmt.Errorf("no valid UUID provided")
	}
	events, err := es.eventsRepo.ListEventsByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	es.resolveBanners(events)
	return events, nil
}

// ListCalendarEvents returns the public events of one month for the calendar
// view.
func (es *EventService) ListCalendarEvents(ctx context.Context, year, month int) ([]models.Event, error) {
	if year < 2000 || year > 2100 {
		return nil, fmt.Errorf("year out of range")
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month out of range")
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	events, err := es.eventsRepo.ListEventsBetween(ctx, first.Format("2006-01-02"), last.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	es.resolveBanners(events)
	return events, nil
}

// GetEventDetail returns the event plus whether the viewer is already
// registered. A nil viewer (guest) always reads as not registered.
func (es *EventService) GetEventDetail(ctx context.Context, id, viewerID uuid.UUID, accessToken string) (*models.Event, bool, error) {
	event, err := es.eventsRepo.GetEventByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	event.ImageURL = es.resolver.Resolve(event.ImageURL, "")

	registered := false
	if viewerID != uuid.Nil {
		registered, err = es.regsRepo.IsRegistered(ctx, viewerID, id, accessToken)
		if err != nil {
			return nil, false, fmt.Errorf("failed to check registration: %w", err)
		}
	}
	return event, registered, nil
}

// CreateEvent uploads the banner first (when one is supplied) and inserts the
// row second. If the insert fails the uploaded object is removed so the bucket
// does not keep a file no row points at.
func (es *EventService) CreateEvent(ctx context.Context, event *models.Event, banner io.Reader, bannerFilename, accessToken string) (*models.Event, error) {
	if err := models.Validate.Struct(event); err != nil {
		return nil, fmt.Errorf("event validation failed: %v", err)
	}
	if event.HostID == uuid.Nil {
		return nil, fmt.Errorf("no valid host provided")
	}
	if event.Status == "" {
		event.Status = models.StatusOpen
	}
	if !event.Status.Valid() {
		return nil, fmt.Errorf("invalid event status %q", event.Status)
	}

	objectPath := ""
	if banner != nil {
		objectPath = storage.ObjectPath(event.HostID, bannerFilename)
		if err := es.eventsRepo.UploadEventBanner(ctx, objectPath, banner, accessToken); err != nil {
			return nil, fmt.Errorf("banner upload failed: %w", err)
		}
		event.ImageURL = objectPath
	}

	created, err := es.eventsRepo.CreateEvent(ctx, event, accessToken)
	if err != nil {
		if objectPath != "" {
			if rmErr := es.eventsRepo.RemoveEventBanner(ctx, objectPath, accessToken); rmErr != nil {
				return nil, fmt.Errorf("event insert failed: %w (banner cleanup also failed: %v)", err, rmErr)
			}
		}
		return nil, fmt.Errorf("event insert failed: %w", err)
	}

	created.ImageURL = es.resolver.Resolve(created.ImageURL, "")
	return created, nil
}

// eventPatchFields is the whitelist of columns a host may change after
// creation.
var eventPatchFields = map[string]bool{
	"title":       true,
	"date":        true,
	"time":        true,
	"location":    true,
	"type":        true,
	"status":      true,
	"description": true,
	"is_public":   true,
	"price":       true,
	"image_url":   true,
}

func (es *EventService) UpdateEvent(ctx context.Context, id, hostID uuid.UUID, patch map[string]interface{}, accessToken string) (*models.Event, error) {
	if id == uuid.Nil || hostID == uuid.Nil {
		return nil, fmt.Errorf("no valid UUID provided")
	}

	filtered := make(map[string]interface{}, len(patch))
	for key, value := range patch {
		if eventPatchFields[key] {
			filtered[key] = value
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("no updatable fields provided")
	}
	if raw, ok := filtered["status"]; ok {
		status, _ := raw.(string)
		if !models.EventStatus(status).Valid() {
			return nil, fmt.Errorf("invalid event status %q", status)
		}
	}
	filtered["updated_at"] = time.Now()

	updated, err := es.eventsRepo.UpdateEvent(ctx, id, hostID, filtered, accessToken)
	if err != nil {
		return nil, err
	}
	updated.ImageURL = es.resolver.Resolve(updated.ImageURL, "")
	return updated, nil
}

func (es *EventService) DeleteEvent(ctx context.Context, id, hostID uuid.UUID, accessToken string) error {
	if id == uuid.Nil || hostID == uuid.Nil {
		return fmt.Errorf("no valid UUID provided")
	}
	return es.eventsRepo.DeleteEvent(ctx, id, hostID, accessToken)
}
