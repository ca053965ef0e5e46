package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campusevents/internal/errmsg"
	"campusevents/internal/helpers"
	"campusevents/internal/models"
	"campusevents/internal/services"
)

// setSessionCookies stores the token pair as httpOnly cookies. The access
// token lives as long as Supabase says; the refresh token for 30 days.
func setSessionCookies(c *gin.Context, accessToken, refreshToken string, expiresIn int) {
	isProduction := os.Getenv("GIN_MODE") == "production"
	c.SetCookie("access_token", accessToken, expiresIn, "/", "", isProduction, true)
	c.SetCookie("refresh_token", refreshToken, 3600*24*30, "/", "", isProduction, true)
}

func Register(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
			FullName string `json:"full_name" binding:"required"`
			Role     string `json:"role"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, models.ErrorResponse(err.Error()))
			return
		}

		res, err := u.SignUp(c.Request.Context(), req.Email, req.Password, req.FullName, req.Role)
		if err != nil {
			c.JSON(400, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}

		c.JSON(201, models.SuccessResponse(res, "account created; check your inbox if email confirmation is enabled"))
	}
}

func Login(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, models.ErrorResponse(err.Error()))
			return
		}

		tokenRes, err := u.Authenticate(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			msg := errmsg.Normalize(err)
			switch {
			case errmsg.IsInvalidCredentials(msg):
				c.JSON(401, models.HintedErrorResponse(msg, "check the email and password"))
			case errmsg.IsEmailNotConfirmed(msg):
				c.JSON(401, models.HintedErrorResponse(msg, "confirm your email before signing in"))
			default:
				c.JSON(401, models.ErrorResponse(msg))
			}
			return
		}

		if tokenRes.AccessToken == "" {
			c.JSON(500, models.ErrorResponse("invalid token response"))
			return
		}

		setSessionCookies(c, tokenRes.AccessToken, tokenRes.RefreshToken, tokenRes.ExpiresIn)

		// Return user info but not tokens
		c.JSON(200, models.SuccessResponse(gin.H{"user": tokenRes.User}, "signed in"))
	}
}

func RefreshSession(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		refreshToken, err := c.Cookie("refresh_token")
		if err != nil {
			c.JSON(401, models.ErrorResponse("refresh token not found"))
			return
		}

		tokenRes, err := u.RefreshToken(c.Request.Context(), refreshToken)
		if err != nil {
			c.JSON(401, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}

		setSessionCookies(c, tokenRes.AccessToken, tokenRes.RefreshToken, tokenRes.ExpiresIn)
		c.JSON(200, models.SuccessResponse(gin.H{"user": tokenRes.User}, "session refreshed"))
	}
}

// Logout clears the auth cookies.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		isProduction := os.Getenv("GIN_MODE") == "production"

		c.SetCookie("access_token", "", -1, "/", "", isProduction, true)
		c.SetCookie("refresh_token", "", -1, "/", "", isProduction, true)

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Logged out successfully"))
	}
}

func ForgotPassword(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, models.ErrorResponse(err.Error()))
			return
		}

		if err := u.RecoverPassword(c.Request.Context(), req.Email); err != nil {
			c.JSON(500, models.ErrorResponse(errmsg.Normalize(err)))
			return
		}
		c.JSON(200, models.SuccessResponse(nil, "recovery email sent"))
	}
}

// Me returns the enhanced claims assembled by the auth middleware.
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentClaims(c)
		if !ok {
			c.JSON(401, models.ErrorResponse("unauthorized"))
			return
		}
		c.JSON(200, models.SuccessResponse(claims, ""))
	}
}

// currentClaims pulls the enhanced claims the auth middleware stored.
func currentClaims(c *gin.Context) (*helpers.EnhancedClaims, bool) {
	value, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	claims, ok := value.(*helpers.EnhancedClaims)
	return claims, ok
}

// currentUserID parses the signed-in user's id out of the claims.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	claims, ok := currentClaims(c)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// currentAccessToken returns the working token the middleware validated, which
// may be newer than the cookie when a refresh happened mid-request.
func currentAccessToken(c *gin.Context) string {
	if token, ok := c.Get("access_token"); ok {
		if s, ok := token.(string); ok {
			return s
		}
	}
	token, _ := c.Cookie("access_token")
	return token
}
