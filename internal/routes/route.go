package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"campusevents/internal/container"
	"campusevents/internal/handlers"
	"campusevents/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "campusevents-api",
			})
		})

		// public routes
		v1.POST("/signup", handlers.Register(container.UserService))
		v1.POST("/login", handlers.Login(container.UserService))
		v1.POST("/refresh", handlers.RefreshSession(container.UserService))
		v1.POST("/logout", handlers.Logout())
		v1.POST("/forgot-password", handlers.ForgotPassword(container.UserService))

		v1.GET("/events", handlers.ListEvents(container.EventService))
		v1.GET("/events/calendar", handlers.CalendarEvents(container.EventService))
		v1.GET("/events/:id",
			middleware.OptionalAuth(container.UserService, container.Logger),
			handlers.GetEvent(container.EventService))

		v1.GET("/organizations", handlers.ListOrganizations(container.OrganizationService))
		v1.GET("/organizations/:id", handlers.GetOrganization(container.OrganizationService))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.UserService, container.Logger))

	protected.GET("/me", handlers.Me())

	profileRoutes := protected.Group("/profile")
	{
		profileRoutes.GET("/:id", handlers.GetProfile(container.UserService))
		profileRoutes.PATCH("/", handlers.UpdateProfile(container.UserService))
		profileRoutes.POST("/password", handlers.ChangePassword(container.UserService))
		profileRoutes.POST("/avatar", handlers.UploadAvatar(container.UserService, container.Resolver))
	}

	eventRoutes := protected.Group("/events")
	{
		eventRoutes.POST("/", handlers.CreateEvent(container.EventService))
		eventRoutes.PATCH("/:id", handlers.UpdateEvent(container.EventService))
		eventRoutes.DELETE("/:id", handlers.DeleteEvent(container.EventService))
		eventRoutes.GET("/hosted", handlers.HostedEvents(container.EventService))
		eventRoutes.GET("/attending", handlers.AttendingEvents(container.EventService))

		eventRoutes.POST("/:id/register", handlers.RegisterForEvent(container.RegistrationService))
		eventRoutes.DELETE("/:id/register", handlers.CancelRegistration(container.RegistrationService))
		eventRoutes.GET("/:id/attendees", handlers.EventAttendees(container.RegistrationService))

		eventRoutes.POST("/:id/bookmark", handlers.AddBookmark(container.BookmarkService))
		eventRoutes.DELETE("/:id/bookmark", handlers.RemoveBookmark(container.BookmarkService))
	}

	protected.GET("/bookmarks", handlers.ListBookmarks(container.BookmarkService))

	orgRoutes := protected.Group("/organizations")
	{
		orgRoutes.PATCH("/:id", handlers.UpdateOrganization(container.OrganizationService))
		orgRoutes.POST("/:id/media", handlers.UploadOrganizationMedia(container.OrganizationService))
	}

	seederRoutes := v1.Group("/seeder")
	{
		seederRoutes.POST("/admin", handlers.CreateAdmin(container.SeederService))
		seederRoutes.POST("/events", handlers.SeedEvents(container.SeederService))
		seederRoutes.GET("/schema", handlers.CheckSchema(container.SeederService))
	}

	return r
}
