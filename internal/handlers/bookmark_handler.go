package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campusevents/internal/errmsg"
	"campusevents/internal/models"
	"campusevents/internal/services"
)

func AddBookmark(b *services.BookmarkService) gin.HandlerFunc {
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

		bookmark, err := b.AddBookmark(c.Request.Context(), userID, eventID)
		if err != nil {
			c.JSON(400, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}
		c.JSON(200, models.SuccessResponse(bookmark, "event bookmarked"))
	}
}

func RemoveBookmark(b *services.BookmarkService) gin.HandlerFunc {
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

		if err := b.RemoveBookmark(c.Request.Context(), userID, eventID); err != nil {
			c.JSON(500, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}
		c.JSON(200, models.SuccessResponse(nil, "bookmark removed"))
	}
}

func ListBookmarks(b *services.BookmarkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(401, models.ErrorResponse("unauthorized"))
			return
		}

		bookmarks, err := b.GetBookmarks(c.Request.Context(), userID)
		if err != nil {
			c.JSON(500, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}
		c.JSON(200, models.SuccessResponse(bookmarks, ""))
	}
}
