package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campusevents/internal/errmsg"
	"campusevents/internal/helpers"
	"campusevents/internal/models"
	"campusevents/internal/services"
)

func ListOrganizations(o *services.OrganizationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgs, err := o.ListOrganizations(c.Request.Context())
		if err != nil {
			c.JSON(500, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}
		c.JSON(200, models.SuccessResponse(orgs, ""))
	}
}

func GetOrganization(o *services.OrganizationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, models.ErrorResponse("invalid organization ID format"))
			return
		}

		org, events, err := o.GetOrganizationDetail(c.Request.Context(), id)
		if err != nil {
			c.JSON(404, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}
		c.JSON(200, models.SuccessResponse(gin.H{
			"organization": org,
			"events":       events,
		}, ""))
	}
}

func UpdateOrganization(o *services.OrganizationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, models.ErrorResponse("invalid organization ID format"))
			return
		}
		claims, ok := currentClaims(c)
		if !ok {
			c.JSON(401, models.ErrorResponse("unauthorized"))
			return
		}
		if !claims.IsOrganizer() {
			c.JSON(403, models.ErrorResponse("only organizers can manage organizations"))
			return
		}

		var patch map[string]interface{}
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(400, models.ErrorResponse(err.Error()))
			return
		}

		updated, err := o.UpdateOrganization(c.Request.Context(), id, patch, currentAccessToken(c))
		if err != nil {
			c.JSON(400, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}
		c.JSON(200, models.SuccessResponse(updated, "organization updated"))
	}
}

// UploadOrganizationMedia receives a logo or banner as multipart form data.
func UploadOrganizationMedia(o *services.OrganizationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, models.ErrorResponse("invalid organization ID format"))
			return
		}
		claims, ok := currentClaims(c)
		if !ok {
			c.JSON(401, models.ErrorResponse("unauthorized"))
			return
		}
		if !claims.IsOrganizer() {
			c.JSON(403, models.ErrorResponse("only organizers can manage organizations"))
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(400, models.ErrorResponse("no file attached"))
			return
		}
		if fileHeader.Size > helpers.MaxImageSize {
			c.JSON(400, models.ErrorResponse("file exceeds the 5MB size limit"))
			return
		}
		if !helpers.IsAllowedImageType(fileHeader.Header.Get("Content-Type")) {
			c.JSON(400, models.ErrorResponse("file must be a JPEG, PNG, WebP or GIF image"))
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(500, models.ErrorResponse(err.Error()))
			return
		}
		defer file.Close()

		kind := c.DefaultPostForm("kind", "logo")
		updated, err := o.UploadMedia(c.Request.Context(), id, kind, file, currentAccessToken(c))
		if err != nil {
			c.JSON(400, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}
		c.JSON(200, models.SuccessResponse(updated, "media uploaded"))
	}
}
