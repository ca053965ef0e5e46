package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/models"
	"campusevents/internal/storage"
)

// fakeEventsRepo records calls so tests can assert on the upload/insert/cleanup
// sequence.
type fakeEventsRepo struct {
	events []models.Event

	insertErr    error
	uploadErr    error
	uploaded     []string
	removed      []string
	createdCount int
}

func (f *fakeEventsRepo) ListPublicEvents(ctx context.Context, offset, limit int) ([]models.Event, int, error) {
	end := offset + limit
	if offset > len(f.events) {
		return nil, len(f.events), nil
	}
	if end > len(f.events) {
		end = len(f.events)
	}
	page := make([]models.Event, end-offset)
	copy(page, f.events[offset:end])
	return page, len(f.events), nil
}

func (f *fakeEventsRepo) ListEventsByHost(ctx context.Context, hostID uuid.UUID, accessToken string) ([]models.Event, error) {
	var out []models.Event
	for _, e := range f.events {
		if e.HostID == hostID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventsRepo) ListAttendingEvents(ctx context.Context, userID uuid.UUID, accessToken string) ([]models.Event, error) {
	return nil, nil
}

func (f *fakeEventsRepo) ListEventsByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.Event, error) {
	return nil, nil
}

func (f *fakeEventsRepo) ListEventsBetween(ctx context.Context, startDate, endDate string) ([]models.Event, error) {
	var out []models.Event
	for _, e := range f.events {
		if e.Date >= startDate && e.Date <= endDate {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventsRepo) GetEventByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	for i := range f.events {
		if f.events[i].ID == id {
			e := f.events[i]
			return &e, nil
		}
	}
	return nil, errors.New("event not found")
}

func (f *fakeEventsRepo) CreateEvent(ctx context.Context, event *models.Event, accessToken string) (*models.Event, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.createdCount++
	created := *event
	created.ID = uuid.New()
	f.events = append(f.events, created)
	return &created, nil
}

func (f *fakeEventsRepo) UpdateEvent(ctx context.Context, id, hostID uuid.UUID, patch map[string]interface{}, accessToken string) (*models.Event, error) {
	for i := range f.events {
		if f.events[i].ID == id && f.events[i].HostID == hostID {
			if title, ok := patch["title"].(string); ok {
				f.events[i].Title = title
			}
			e := f.events[i]
			return &e, nil
		}
	}
	return nil, errors.New("no event found to update")
}

func (f *fakeEventsRepo) DeleteEvent(ctx context.Context, id, hostID uuid.UUID, accessToken string) error {
	for i := range f.events {
		if f.events[i].ID == id && f.events[i].HostID == hostID {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}
	return errors.New("no event found to delete")
}

func (f *fakeEventsRepo) UploadEventBanner(ctx context.Context, objectPath string, data io.Reader, accessToken string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploaded = append(f.uploaded, objectPath)
	return nil
}

func (f *fakeEventsRepo) RemoveEventBanner(ctx context.Context, objectPath string, accessToken string) error {
	f.removed = append(f.removed, objectPath)
	return nil
}

// fakeRegsRepo is just enough of the registrations surface for the event
// detail flow.
type fakeRegsRepo struct {
	registered map[uuid.UUID]map[uuid.UUID]bool
	createErr  error
}

func (f *fakeRegsRepo) CreateRegistration(ctx context.Context, userID, eventID uuid.UUID, accessToken string) (*models.Registration, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.registered == nil {
		f.registered = make(map[uuid.UUID]map[uuid.UUID]bool)
	}
	if f.registered[userID] == nil {
		f.registered[userID] = make(map[uuid.UUID]bool)
	}
	if f.registered[userID][eventID] {
		return nil, models.ErrAlreadyRegistered
	}
	f.registered[userID][eventID] = true
	return &models.Registration{
		ID:      uuid.New(),
		UserID:  userID,
		EventID: eventID,
		Status:  models.RegistrationConfirmed,
	}, nil
}

func (f *fakeRegsRepo) IsRegistered(ctx context.Context, userID, eventID uuid.UUID, accessToken string) (bool, error) {
	return f.registered[userID][eventID], nil
}

func (f *fakeRegsRepo) ListAttendees(ctx context.Context, eventID uuid.UUID, accessToken string) ([]models.Registration, error) {
	var out []models.Registration
	for userID, events := range f.registered {
		if events[eventID] {
			out = append(out, models.Registration{UserID: userID, EventID: eventID})
		}
	}
	return out, nil
}

func (f *fakeRegsRepo) CancelRegistration(ctx context.Context, userID, eventID uuid.UUID, accessToken string) error {
	if !f.registered[userID][eventID] {
		return errors.New("no registration found to cancel")
	}
	delete(f.registered[userID], eventID)
	return nil
}

func newTestEventService(repo *fakeEventsRepo, regs *fakeRegsRepo) *EventService {
	resolver := storage.NewResolver("https://proj.supabase.co", "")
	return NewEventService(repo, regs, resolver)
}

func validEvent(hostID uuid.UUID) *models.Event {
	return &models.Event{
		Title:    "Seminar Teknologi",
		Date:     "2024-11-15",
		Time:     "09:00",
		Location: "Auditorium Utama",
		Type:     "Seminar",
		IsPublic: true,
		HostID:   hostID,
	}
}

func TestCreateEventRejectsMissingFields(t *testing.T) {
	repo := &fakeEventsRepo{}
	svc := newTestEventService(repo, &fakeRegsRepo{})

	event := validEvent(uuid.New())
	event.Title = ""

	_, err := svc.CreateEvent(context.Background(), event, nil, "", "token")
	require.Error(t, err)
	assert.Zero(t, repo.createdCount)
}

func TestCreateEventDefaultsStatus(t *testing.T) {
	repo := &fakeEventsRepo{}
	svc := newTestEventService(repo, &fakeRegsRepo{})

	created, err := svc.CreateEvent(context.Background(), validEvent(uuid.New()), nil, "", "token")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, created.Status)
}

func TestCreateEventUploadsBannerBeforeInsert(t *testing.T) {
	repo := &fakeEventsRepo{}
	svc := newTestEventService(repo, &fakeRegsRepo{})

	created, err := svc.CreateEvent(context.Background(), validEvent(uuid.New()),
		strings.NewReader("png bytes"), "banner.png", "token")
	require.NoError(t, err)
	require.Len(t, repo.uploaded, 1)
	assert.Contains(t, created.ImageURL, "https://proj.supabase.co/storage/v1/object/public/banners/")
}

func TestCreateEventRemovesBannerWhenInsertFails(t *testing.T) {
	repo := &fakeEventsRepo{insertErr: errors.New("row level security violation")}
	svc := newTestEventService(repo, &fakeRegsRepo{})

	_, err := svc.CreateEvent(context.Background(), validEvent(uuid.New()),
		strings.NewReader("png bytes"), "banner.png", "token")
	require.Error(t, err)
	require.Len(t, repo.uploaded, 1)
	require.Len(t, repo.removed, 1)
	assert.Equal(t, repo.uploaded[0], repo.removed[0])
}

func TestCreateEventWithoutBannerSkipsStorage(t *testing.T) {
	repo := &fakeEventsRepo{insertErr: errors.New("boom")}
	svc := newTestEventService(repo, &fakeRegsRepo{})

	_, err := svc.CreateEvent(context.Background(), validEvent(uuid.New()), nil, "", "token")
	require.Error(t, err)
	assert.Empty(t, repo.uploaded)
	assert.Empty(t, repo.removed)
}

func TestListPublicEventsClampsPagination(t *testing.T) {
	repo := &fakeEventsRepo{}
	for i := 0; i < 30; i++ {
		repo.events = append(repo.events, models.Event{ID: uuid.New(), Title: "e"})
	}
	svc := newTestEventService(repo, &fakeRegsRepo{})

	events, total, err := svc.ListPublicEvents(context.Background(), 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 30, total)
	assert.Len(t, events, DefaultPageSize)
}

func TestListPublicEventsResolvesImageURLs(t *testing.T) {
	repo := &fakeEventsRepo{events: []models.Event{
		{ID: uuid.New(), ImageURL: "host/key.png"},
		{ID: uuid.New(), ImageURL: "https://cdn.example.com/pic.png"},
		{ID: uuid.New()},
	}}
	svc := newTestEventService(repo, &fakeRegsRepo{})

	events, _, err := svc.ListPublicEvents(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "https://proj.supabase.co/storage/v1/object/public/banners/host/key.png", events[0].ImageURL)
	assert.Equal(t, "https://cdn.example.com/pic.png", events[1].ImageURL)
	assert.Empty(t, events[2].ImageURL)
}

func TestGetEventDetailGuestNeverChecksRegistration(t *testing.T) {
	eventID := uuid.New()
	repo := &fakeEventsRepo{events: []models.Event{{ID: eventID, Title: "x"}}}
	svc := newTestEventService(repo, &fakeRegsRepo{})

	_, registered, err := svc.GetEventDetail(context.Background(), eventID, uuid.Nil, "")
	require.NoError(t, err)
	assert.False(t, registered)
}

func TestGetEventDetailReportsRegistration(t *testing.T) {
	eventID := uuid.New()
	userID := uuid.New()
	repo := &fakeEventsRepo{events: []models.Event{{ID: eventID, Title: "x"}}}
	regs := &fakeRegsRepo{registered: map[uuid.UUID]map[uuid.UUID]bool{
		userID: {eventID: true},
	}}
	svc := newTestEventService(repo, regs)

	_, registered, err := svc.GetEventDetail(context.Background(), eventID, userID, "token")
	require.NoError(t, err)
	assert.True(t, registered)
}

func TestUpdateEventFiltersUnknownFields(t *testing.T) {
	hostID := uuid.New()
	eventID := uuid.New()
	repo := &fakeEventsRepo{events: []models.Event{{ID: eventID, HostID: hostID, Title: "old"}}}
	svc := newTestEventService(repo, &fakeRegsRepo{})

	_, err := svc.UpdateEvent(context.Background(), eventID, hostID, map[string]interface{}{
		"host_id": uuid.New().String(),
	}, "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no updatable fields")
}

func TestUpdateEventRejectsUnknownStatus(t *testing.T) {
	hostID := uuid.New()
	eventID := uuid.New()
	repo := &fakeEventsRepo{events: []models.Event{{ID: eventID, HostID: hostID}}}
	svc := newTestEventService(repo, &fakeRegsRepo{})

	_, err := svc.UpdateEvent(context.Background(), eventID, hostID, map[string]interface{}{
		"status": "Open",
	}, "token")
	require.Error(t, err)
}

func TestCalendarRangeCoversWholeMonth(t *testing.T) {
	repo := &fakeEventsRepo{events: []models.Event{
		{ID: uuid.New(), Date: "2024-11-01"},
		{ID: uuid.New(), Date: "2024-11-30"},
		{ID: uuid.New(), Date: "2024-12-01"},
	}}
	svc := newTestEventService(repo, &fakeRegsRepo{})

	events, err := svc.ListCalendarEvents(context.Background(), 2024, 11)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
