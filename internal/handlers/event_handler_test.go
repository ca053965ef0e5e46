package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/helpers"
	"campusevents/internal/models"
	"campusevents/internal/services"
	"campusevents/internal/storage"
)

// stubEventsRepo serves a fixed catalogue.
type stubEventsRepo struct {
	events []models.Event
}

func (s *stubEventsRepo) ListPublicEvents(ctx context.Context, offset, limit int) ([]models.Event, int, error) {
	return s.events, len(s.events), nil
}

func (s *stubEventsRepo) ListEventsByHost(ctx context.Context, hostID uuid.UUID, accessToken string) ([]models.Event, error) {
	return s.events, nil
}

func (s *stubEventsRepo) ListAttendingEvents(ctx context.Context, userID uuid.UUID, accessToken string) ([]models.Event, error) {
	return nil, nil
}

func (s *stubEventsRepo) ListEventsByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.Event, error) {
	return nil, nil
}

func (s *stubEventsRepo) ListEventsBetween(ctx context.Context, startDate, endDate string) ([]models.Event, error) {
	return nil, nil
}

func (s *stubEventsRepo) GetEventByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	for i := range s.events {
		if s.events[i].ID == id {
			e := s.events[i]
			return &e, nil
		}
	}
	return nil, errors.New("event not found")
}

func (s *stubEventsRepo) CreateEvent(ctx context.Context, event *models.Event, accessToken string) (*models.Event, error) {
	created := *event
	created.ID = uuid.New()
	s.events = append(s.events, created)
	return &created, nil
}

func (s *stubEventsRepo) UpdateEvent(ctx context.Context, id, hostID uuid.UUID, patch map[string]interface{}, accessToken string) (*models.Event, error) {
	return nil, errors.New("no event found to update")
}

func (s *stubEventsRepo) DeleteEvent(ctx context.Context, id, hostID uuid.UUID, accessToken string) error {
	return errors.New("no event found to delete")
}

func (s *stubEventsRepo) UploadEventBanner(ctx context.Context, objectPath string, data io.Reader, accessToken string) error {
	return nil
}

func (s *stubEventsRepo) RemoveEventBanner(ctx context.Context, objectPath string, accessToken string) error {
	return nil
}

// stubRegsRepo answers duplicate on the second registration.
type stubRegsRepo struct {
	rows map[string]bool
}

func (s *stubRegsRepo) CreateRegistration(ctx context.Context, userID, eventID uuid.UUID, accessToken string) (*models.Registration, error) {
	if s.rows == nil {
		s.rows = make(map[string]bool)
	}
	key := userID.String() + eventID.String()
	if s.rows[key] {
		return nil, models.ErrAlreadyRegistered
	}
	s.rows[key] = true
	return &models.Registration{ID: uuid.New(), UserID: userID, EventID: eventID}, nil
}

func (s *stubRegsRepo) IsRegistered(ctx context.Context, userID, eventID uuid.UUID, accessToken string) (bool, error) {
	return s.rows[userID.String()+eventID.String()], nil
}

func (s *stubRegsRepo) ListAttendees(ctx context.Context, eventID uuid.UUID, accessToken string) ([]models.Registration, error) {
	return nil, nil
}

func (s *stubRegsRepo) CancelRegistration(ctx context.Context, userID, eventID uuid.UUID, accessToken string) error {
	return nil
}

// asUser injects claims the way the auth middleware would.
func asUser(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user", &helpers.EnhancedClaims{
			UserID: userID.String(),
			Role:   role,
		})
		c.Set("access_token", "test-token")
		c.Next()
	}
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestGetEventAsGuest(t *testing.T) {
	eventID := uuid.New()
	events := &stubEventsRepo{events: []models.Event{
		{ID: eventID, Title: "Seminar", ImageURL: "host/banner.png"},
	}}
	svc := services.NewEventService(events, &stubRegsRepo{}, storage.NewResolver("https://proj.supabase.co", ""))

	r := newTestRouter()
	r.GET("/events/:id", GetEvent(svc))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/events/"+eventID.String(), nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Success bool `json:"success"`
		Data    struct {
			Event        models.Event `json:"event"`
			IsRegistered bool         `json:"is_registered"`
			IsHost       bool         `json:"is_host"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.False(t, res.Data.IsRegistered)
	assert.False(t, res.Data.IsHost)
	assert.Equal(t, "https://proj.supabase.co/storage/v1/object/public/banners/host/banner.png", res.Data.Event.ImageURL)
}

func TestGetEventRejectsMalformedID(t *testing.T) {
	svc := services.NewEventService(&stubEventsRepo{}, &stubRegsRepo{}, storage.NewResolver("https://proj.supabase.co", ""))

	r := newTestRouter()
	r.GET("/events/:id", GetEvent(svc))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/events/not-a-uuid", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterTwiceAnswersConflict(t *testing.T) {
	eventID := uuid.New()
	userID := uuid.New()
	events := &stubEventsRepo{events: []models.Event{
		{ID: eventID, Status: models.StatusOpen},
	}}
	svc := services.NewRegistrationService(&stubRegsRepo{}, events)

	r := newTestRouter()
	r.POST("/events/:id/register", asUser(userID, "participant"), RegisterForEvent(svc))

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/events/"+eventID.String()+"/register", nil))
	require.Equal(t, http.StatusCreated, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/events/"+eventID.String()+"/register", nil))
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestRegisterWithoutSession(t *testing.T) {
	svc := services.NewRegistrationService(&stubRegsRepo{}, &stubEventsRepo{})

	r := newTestRouter()
	r.POST("/events/:id/register", RegisterForEvent(svc))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/events/"+uuid.New().String()+"/register", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateEventRequiresOrganizerRole(t *testing.T) {
	svc := services.NewEventService(&stubEventsRepo{}, &stubRegsRepo{}, storage.NewResolver("https://proj.supabase.co", ""))

	r := newTestRouter()
	r.POST("/events", asUser(uuid.New(), "participant"), CreateEvent(svc))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/events", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
