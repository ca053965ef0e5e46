package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campusevents/internal/errmsg"
	"campusevents/internal/helpers"
	"campusevents/internal/models"
	"campusevents/internal/services"
	"campusevents/internal/storage"
)

// GetProfile returns a profile by id. Profiles are publicly readable, so no
// ownership check.
func GetProfile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, models.ErrorResponse("invalid user ID format"))
			return
		}

		profile, err := u.GetProfile(c.Request.Context(), id, currentAccessToken(c))
		if err != nil {
			c.JSON(404, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}
		c.JSON(200, models.SuccessResponse(profile, ""))
	}
}

// UpdateProfile patches the signed-in user's own profile row.
func UpdateProfile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(401, models.ErrorResponse("unauthorized"))
			return
		}

		var patch map[string]interface{}
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(400, models.ErrorResponse(err.Error()))
			return
		}

		updated, err := u.UpdateProfile(c.Request.Context(), patch, userID, currentAccessToken(c))
		if err != nil {
			c.JSON(400, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}
		c.JSON(200, models.SuccessResponse(updated, "profile updated"))
	}
}

func ChangePassword(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUserID(c); !ok {
			c.JSON(401, models.ErrorResponse("unauthorized"))
			return
		}

		var req struct {
			NewPassword string `json:"new_password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, models.ErrorResponse(err.Error()))
			return
		}

		if err := u.ChangePassword(c.Request.Context(), currentAccessToken(c), req.NewPassword); err != nil {
			c.JSON(400, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}
		c.JSON(200, models.SuccessResponse(nil, "password changed"))
	}
}

// UploadAvatar receives the avatar as multipart form data and returns its
// public URL.
func UploadAvatar(u *services.UserService, resolver *storage.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(401, models.ErrorResponse("unauthorized"))
			return
		}

		fileHeader, err := c.FormFile("avatar")
		if err != nil {
			c.JSON(400, models.ErrorResponse("no file attached"))
			return
		}
		if fileHeader.Size > helpers.MaxImageSize {
			c.JSON(400, models.ErrorResponse("avatar exceeds the 5MB size limit"))
			return
		}
		if !helpers.IsAllowedImageType(fileHeader.Header.Get("Content-Type")) {
			c.JSON(400, models.ErrorResponse("avatar must be a JPEG, PNG, WebP or GIF image"))
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(500, models.ErrorResponse(err.Error()))
			return
		}
		defer file.Close()

		publicURL, err := u.UploadAvatar(c.Request.Context(), userID, fileHeader.Filename, file, resolver, currentAccessToken(c))
		if err != nil {
			c.JSON(500, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}
		c.JSON(200, models.SuccessResponse(gin.H{"avatar_url": publicURL}, "avatar uploaded"))
	}
}
