package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campusevents/internal/errmsg"
	"campusevents/internal/helpers"
	"campusevents/internal/models"
	"campusevents/internal/services"
)

func ListEvents(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultPageSize)))

		events, total, err := e.ListPublicEvents(c.Request.Context(), page, limit)
		if err != nil {
			msg := errmsg.Normalize(err)
			if errmsg.IsMissingTable(msg) {
				c.JSON(500, models.HintedErrorResponse(msg, "run the schema setup script in the Supabase SQL editor"))
				return
			}
			c.JSON(500, models.ErrorResponse(msg))
			return
		}

		c.JSON(200, models.PaginatedResponse(events, page, limit, total))
	}
}

func GetEvent(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, models.ErrorResponse("invalid event ID format"))
			return
		}

		// Guests read the event too; only the registered flag needs identity.
		viewerID := uuid.Nil
		accessToken := ""
		if uid, ok := currentUserID(c); ok {
			viewerID = uid
			accessToken = currentAccessToken(c)
		}

		event, registered, err := e.GetEventDetail(c.Request.Context(), id, viewerID, accessToken)
		if err != nil {
			c.JSON(404, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}

		c.JSON(200, models.SuccessResponse(gin.H{
			"event":         event,
			"is_registered": registered,
			"is_host":       event.IsHostedBy(viewerID),
		}, ""))
	}
}

func CreateEvent(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentClaims(c)
		if !ok {
			c.JSON(401, models.ErrorResponse("unauthorized"))
			return
		}
		if !claims.IsOrganizer() {
			c.JSON(403, models.ErrorResponse("only organizers can create events"))
			return
		}
		hostID, ok := currentUserID(c)
		if !ok {
			c.JSON(401, models.ErrorResponse("invalid user ID in token"))
			return
		}

		event := models.Event{
			Title:       c.PostForm("title"),
			Date:        c.PostForm("date"),
			Time:        c.PostForm("time"),
			Location:    c.PostForm("location"),
			Type:        c.PostForm("type"),
			Status:      models.EventStatus(c.PostForm("status")),
			Description: c.PostForm("description"),
			Price:       c.PostForm("price"),
			IsPublic:    c.DefaultPostForm("is_public", "true") == "true",
			HostID:      hostID,
		}
		if raw := c.PostForm("organization_id"); raw != "" {
			orgID, err := uuid.Parse(raw)
			if err != nil {
				c.JSON(400, models.ErrorResponse("invalid organization ID format"))
				return
			}
			event.OrganizationID = &orgID
		}

		created, err := createWithOptionalBanner(c, e, &event)
		if err != nil {
			status := 500
			if _, bad := err.(*bannerError); bad {
				status = 400
			}
			c.JSON(status, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}

		c.JSON(201, models.SuccessResponse(created, "event created"))
	}
}

// bannerError marks client-side banner problems (size, content type).
type bannerError struct{ msg string }

func (be *bannerError) Error() string { return be.msg }

// createWithOptionalBanner validates the multipart banner file, when present,
// and hands everything to the service.
func createWithOptionalBanner(c *gin.Context, e *services.EventService, event *models.Event) (*models.Event, error) {
	fileHeader, err := c.FormFile("banner")
	if err != nil {
		// No file attached; create the event without one.
		return e.CreateEvent(c.Request.Context(), event, nil, "", currentAccessToken(c))
	}

	if fileHeader.Size > helpers.MaxImageSize {
		return nil, &bannerError{"banner exceeds the 5MB size limit"}
	}
	if !helpers.IsAllowedImageType(fileHeader.Header.Get("Content-Type")) {
		return nil, &bannerError{"banner must be a JPEG, PNG, WebP or GIF image"}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return e.CreateEvent(c.Request.Context(), event, file, fileHeader.Filename, currentAccessToken(c))
}

func UpdateEvent(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, models.ErrorResponse("invalid event ID format"))
			return
		}
		hostID, ok := currentUserID(c)
		if !ok {
			c.JSON(401, models.ErrorResponse("unauthorized"))
			return
		}

		var patch map[string]interface{}
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(400, models.ErrorResponse(err.Error()))
			return
		}

		updated, err := e.UpdateEvent(c.Request.Context(), id, hostID, patch, currentAccessToken(c))
		if err != nil {
			c.JSON(400, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}
		c.JSON(200, models.SuccessResponse(updated, "event updated"))
	}
}

func DeleteEvent(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, models.ErrorResponse("invalid event ID format"))
			return
		}
		hostID, ok := currentUserID(c)
		if !ok {
			c.JSON(401, models.ErrorResponse("unauthorized"))
			return
		}

		if err := e.DeleteEvent(c.Request.Context(), id, hostID, currentAccessToken(c)); err != nil {
			c.JSON(404, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}
		c.JSON(200, models.SuccessResponse(nil, "event deleted"))
	}
}

// HostedEvents lists the signed-in user's own events, the dashboard's
// "hosted" tab.
func HostedEvents(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		hostID, ok := currentUserID(c)
		if !ok {
			c.JSON(401, models.ErrorResponse("unauthorized"))
			return
		}

		events, err := e.ListHostedEvents(c.Request.Context(), hostID, currentAccessToken(c))
		if err != nil {
			c.JSON(500, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}
		c.JSON(200, models.SuccessResponse(events, ""))
	}
}

// AttendingEvents lists the events the signed-in user registered for, the
// dashboard's "attending" tab.
func AttendingEvents(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(401, models.ErrorResponse("unauthorized"))
			return
		}

		events, err := e.ListAttendingEvents(c.Request.Context(), userID, currentAccessToken(c))
		if err != nil {
			c.JSON(500, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}
		c.JSON(200, models.SuccessResponse(events, ""))
	}
}

// CalendarEvents returns the public events of one month; defaults to the
// current month.
func CalendarEvents(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
		if err != nil {
			c.JSON(400, models.ErrorResponse("invalid year"))
			return
		}
		month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
		if err != nil {
			c.JSON(400, models.ErrorResponse("invalid month"))
			return
		}

		events, err := e.ListCalendarEvents(c.Request.Context(), year, month)
		if err != nil {
			c.JSON(400, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}
		c.JSON(200, models.SuccessResponse(events, ""))
	}
}
