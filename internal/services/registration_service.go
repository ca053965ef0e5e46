package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"campusevents/internal/models"
)

type RegistrationService struct {
	regsRepo   models.RegistrationsRepo
	eventsRepo models.EventsRepo
}

func NewRegistrationService(regsRepo models.RegistrationsRepo, eventsRepo models.EventsRepo) *RegistrationService {
	return &RegistrationService{
		regsRepo:   regsRepo,
		eventsRepo: eventsRepo,
	}
}

// Register signs the user up for an event. The unique constraint on
// (user_id, event_id) is the authority on duplicates; the repo maps its
// violation to models.ErrAlreadyRegistered, which is passed through untouched
// so the handler can answer 409.
func (rs *RegistrationService) Register(ctx context.Context, userID, eventID uuid.UUID, accessToken string) (*models.Registration, error) {
	if userID == uuid.Nil || eventID == uuid.Nil {
		return nil, fmt.Errorf("no valid UUID provided")
	}

	event, err := rs.eventsRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.Status.Registrable() {
		return nil, fmt.Errorf("event is not open for registration (status: %s)", event.Status)
	}

	return rs.regsRepo.CreateRegistration(ctx, userID, eventID, accessToken)
}

func (rs *RegistrationService) IsRegistered(ctx context.Context, userID, eventID uuid.UUID, accessToken string) (bool, error) {
	if userID == uuid.Nil || eventID == uuid.Nil {
		return false, fmt.Errorf("no valid UUID provided")
	}
	return rs.regsRepo.IsRegistered(ctx, userID, eventID, accessToken)
}

// ListAttendees is host-only; the handler enforces ownership before calling.
func (rs *RegistrationService) ListAttendees(ctx context.Context, hostID, eventID uuid.UUID, accessToken string) ([]models.Registration, error) {
	if hostID == uuid.Nil || eventID == uuid.Nil {
		return nil, fmt.Errorf("no valid UUID provided")
	}

	event, err := rs.eventsRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsHostedBy(hostID) {
		return nil, fmt.Errorf("only the event host can list attendees")
	}

	return rs.regsRepo.ListAttendees(ctx, eventID, accessToken)
}

func (rs *RegistrationService) Cancel(ctx context.Context, userID, eventID uuid.UUID, accessToken string) error {
	if userID == uuid.Nil || eventID == uuid.Nil {
		return fmt.Errorf("no valid UUID provided")
	}
	return rs.regsRepo.CancelRegistration(ctx, userID, eventID, accessToken)
}
