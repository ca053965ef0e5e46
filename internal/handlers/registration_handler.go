package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campusevents/internal/errmsg"
	"campusevents/internal/models"
	"campusevents/internal/services"
)

func RegisterForEvent(r *services.RegistrationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, models.ErrorResponse("invalid event ID format"))
			return
		}
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(401, models.ErrorResponse("unauthorized"))
			return
		}

		registration, err := r.Register(c.Request.Context(), userID, eventID, currentAccessToken(c))
		if err != nil {
			if errors.Is(err, models.ErrAlreadyRegistered) {
				c.JSON(409, models.ErrorResponse(err.Error()))
				return
			}
			c.JSON(400, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}

		c.JSON(201, models.SuccessResponse(registration, "registered"))
	}
}

func CancelRegistration(r *services.RegistrationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, models.ErrorResponse("invalid event ID format"))
			return
		}
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(401, models.ErrorResponse("unauthorized"))
			return
		}

		if err := r.Cancel(c.Request.Context(), userID, eventID, currentAccessToken(c)); err != nil {
			c.JSON(404, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}
		c.JSON(200, models.SuccessResponse(nil, "registration cancelled"))
	}
}

// EventAttendees lists who registered for an event; the service rejects
// callers who are not the host.
func EventAttendees(r *services.RegistrationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, models.ErrorResponse("invalid event ID format"))
			return
		}
		hostID, ok := currentUserID(c)
		if !ok {
			c.JSON(401, models.ErrorResponse("unauthorized"))
			return
		}

		attendees, err := r.ListAttendees(c.Request.Context(), hostID, eventID, currentAccessToken(c))
		if err != nil {
			c.JSON(403, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}
		c.JSON(200, models.SuccessResponse(attendees, ""))
	}
}
