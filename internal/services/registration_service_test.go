package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/models"
)

func TestRegisterCreatesSingleRow(t *testing.T) {
	hostID := uuid.New()
	eventID := uuid.New()
	userID := uuid.New()
	events := &fakeEventsRepo{events: []models.Event{
		{ID: eventID, HostID: hostID, Status: models.StatusOpen},
	}}
	regs := &fakeRegsRepo{}
	svc := NewRegistrationService(regs, events)

	reg, err := svc.Register(context.Background(), userID, eventID, "token")
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationConfirmed, reg.Status)

	attendees, err := svc.ListAttendees(context.Background(), hostID, eventID, "token")
	require.NoError(t, err)
	assert.Len(t, attendees, 1)
}

func TestRegisterTwiceReturnsConflict(t *testing.T) {
	eventID := uuid.New()
	userID := uuid.New()
	events := &fakeEventsRepo{events: []models.Event{
		{ID: eventID, HostID: uuid.New(), Status: models.StatusOpen},
	}}
	regs := &fakeRegsRepo{}
	svc := NewRegistrationService(regs, events)

	_, err := svc.Register(context.Background(), userID, eventID, "token")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), userID, eventID, "token")
	assert.ErrorIs(t, err, models.ErrAlreadyRegistered)
}

func TestRegisterRejectsClosedEvent(t *testing.T) {
	eventID := uuid.New()
	events := &fakeEventsRepo{events: []models.Event{
		{ID: eventID, Status: models.StatusClosed},
	}}
	svc := NewRegistrationService(&fakeRegsRepo{}, events)

	_, err := svc.Register(context.Background(), uuid.New(), eventID, "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not open for registration")
}

func TestRegisterUpcomingEventAllowed(t *testing.T) {
	eventID := uuid.New()
	events := &fakeEventsRepo{events: []models.Event{
		{ID: eventID, Status: models.StatusUpcoming},
	}}
	svc := NewRegistrationService(&fakeRegsRepo{}, events)

	_, err := svc.Register(context.Background(), uuid.New(), eventID, "token")
	assert.NoError(t, err)
}

func TestListAttendeesRequiresHost(t *testing.T) {
	eventID := uuid.New()
	events := &fakeEventsRepo{events: []models.Event{
		{ID: eventID, HostID: uuid.New(), Status: models.StatusOpen},
	}}
	svc := NewRegistrationService(&fakeRegsRepo{}, events)

	_, err := svc.ListAttendees(context.Background(), uuid.New(), eventID, "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host")
}

func TestCancelUnknownRegistration(t *testing.T) {
	svc := NewRegistrationService(&fakeRegsRepo{}, &fakeEventsRepo{})

	err := svc.Cancel(context.Background(), uuid.New(), uuid.New(), "token")
	assert.Error(t, err)
}
