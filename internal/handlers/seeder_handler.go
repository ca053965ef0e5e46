package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"campusevents/internal/models"
	"campusevents/internal/services"
)

// CreateAdmin registers (or signs in) the admin account the seeder uses.
func CreateAdmin(s *services.SeederService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, models.ErrorResponse(err.Error()))
			return
		}

		message, err := s.CreateAdmin(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			c.JSON(400, models.ErrorResponse(err.Error()))
			return
		}
		c.JSON(200, models.SuccessResponse(nil, message))
	}
}

// SeedEvents fills the events table with the sample catalogue.
func SeedEvents(s *services.SeederService) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := s.Seed(c.Request.Context())
		if err != nil {
			c.JSON(400, models.ErrorResponse(err.Error()))
			return
		}
		c.JSON(200, models.SuccessResponse(gin.H{"seeded": count}, fmt.Sprintf("seeded %d sample events", count)))
	}
}

// CheckSchema reports whether the expected tables exist.
func CheckSchema(s *services.SeederService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.CheckSchema(c.Request.Context()); err != nil {
			c.JSON(500, models.HintedErrorResponse(err.Error(), "run the schema setup script in the Supabase SQL editor"))
			return
		}
		c.JSON(200, models.SuccessResponse(nil, "schema looks good"))
	}
}
