package middleware

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campusevents/internal/helpers"
	"campusevents/internal/services"
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		requestID, _ := c.Get("request_id")

		logger.Info("HTTP Request",
			"request_id", requestID,
			"method", method,
			"path", path,
			"status", statusCode,
			"latency", latency,
			"client_ip", clientIP,
		)
	}
}

// ErrorHandler provides centralized error handling
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			requestID, _ := c.Get("request_id")

			logger.Error("Request error",
				"request_id", requestID,
				"error", err.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)

			// Don't return error details in production
			c.JSON(500, gin.H{
				"error":      "Internal server error",
				"request_id": requestID,
			})
		}
	}
}

// setSessionCookies writes the access/refresh pair the same way the login
// handler does, so refreshed sessions keep the same shape.
func setSessionCookies(c *gin.Context, accessToken, refreshToken string, expiresIn int) {
	isProduction := os.Getenv("GIN_MODE") == "production"
	c.SetCookie("access_token", accessToken, expiresIn, "/", "", isProduction, true)
	c.SetCookie("refresh_token", refreshToken, 3600*24*30, "/", "", isProduction, true)
}

// enhance joins token claims with the profiles row. A missing or empty profile
// degrades to the guest role rather than failing the request.
func enhance(c *gin.Context, claims *helpers.CustomClaims, token string, userService *services.UserService, logger *slog.Logger) *helpers.EnhancedClaims {
	var role, fullName, avatarURL, bio string
	var createdAt time.Time

	userID, parseErr := uuid.Parse(claims.Subject)
	if parseErr != nil {
		logger.Error("Invalid user ID in token", "user_id", claims.Subject, "error", parseErr)
		role = "guest"
	} else {
		profile, err := userService.GetProfile(c.Request.Context(), userID, token)
		if err != nil {
			logger.Info("Profile not found, using default role",
				"user_id", claims.Subject,
				"error", err,
			)
			role = "guest"
		} else {
			role = profile.Role
			if role == "" {
				role = "guest"
			}
			fullName = profile.FullName
			avatarURL = profile.AvatarURL
			bio = profile.Bio
			createdAt = profile.CreatedAt
		}
	}

	return &helpers.EnhancedClaims{
		CustomClaims: claims,
		Role:         role,
		UserID:       claims.Subject,
		Email:        claims.Email,
		FullName:     fullName,
		AvatarURL:    avatarURL,
		Bio:          bio,
		CreatedAt:    createdAt.Format(time.RFC3339),
	}
}

// AuthMiddleware requires a valid session. It reads the JWT from the
// access_token cookie, falls back to the refresh_token cookie when the access
// token no longer validates, and stores the enhanced claims plus the working
// access token in the context.
func AuthMiddleware(userService *services.UserService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Unauthorized access",
				"error":   "JWT token not found in cookie",
			})
			c.Abort()
			return
		}

		claims, err := helpers.ValidateToken(token)
		if err != nil {
			refreshToken, refreshErr := c.Cookie("refresh_token")
			if refreshErr != nil {
				c.JSON(http.StatusUnauthorized, gin.H{
					"message": "Unauthorized access",
					"error":   err.Error(),
				})
				c.Abort()
				return
			}

			refreshed, refreshErr := userService.RefreshToken(c.Request.Context(), refreshToken)
			if refreshErr != nil {
				logger.Error("Token refresh failed", "error", refreshErr)
				c.JSON(http.StatusUnauthorized, gin.H{
					"message": "Unauthorized access",
					"error":   "Token expired and refresh failed",
				})
				c.Abort()
				return
			}

			logger.Info("Token refreshed successfully",
				"user_id", refreshed.User.ID,
				"expires_in", refreshed.ExpiresIn,
			)
			setSessionCookies(c, refreshed.AccessToken, refreshed.RefreshToken, refreshed.ExpiresIn)

			token = refreshed.AccessToken
			claims, err = helpers.ValidateToken(token)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{
					"message": "Unauthorized access",
					"error":   "Refreshed token validation failed",
				})
				c.Abort()
				return
			}
		}

		c.Set("user", enhance(c, claims, token, userService, logger))
		c.Set("access_token", token)
		c.Next()
	}
}

// OptionalAuth resolves the session when the cookies are present and valid,
// and lets the request through as a guest otherwise. Pages like the event
// detail use it to show viewer-specific state without requiring sign-in.
func OptionalAuth(userService *services.UserService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil {
			c.Next()
			return
		}

		claims, err := helpers.ValidateToken(token)
		if err != nil {
			c.Next()
			return
		}

		c.Set("user", enhance(c, claims, token, userService, logger))
		c.Set("access_token", token)
		c.Next()
	}
}
