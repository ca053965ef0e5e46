package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"

	"campusevents/internal/models"
	"campusevents/internal/services"
	"campusevents/internal/session"
	"campusevents/internal/storage"
)

// Container holds all application dependencies
type Container struct {
	Logger     *slog.Logger
	Cloudinary *cloudinary.Cloudinary
	// Database clients
	SupabaseClient *supabase.Client
	MongoDBClient  *mongo.Client

	SessionStore *session.Store
	Resolver     *storage.Resolver

	UserService         *services.UserService
	EventService        *services.EventService
	RegistrationService *services.RegistrationService
	OrganizationService *services.OrganizationService
	BookmarkService     *services.BookmarkService
	SeederService       *services.SeederService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	cloudinary *cloudinary.Cloudinary,
	supabaseClient *supabase.Client,
	mongoDBClient *mongo.Client,
	supaUrl, supaKey, defaultBucket string,
) *Container {
	// Initialize repositories
	supa := models.SupabaseNewRepo(supabaseClient, supaUrl, supaKey)
	mongo := models.MongodbNewRepo(mongoDBClient)

	resolver := storage.NewResolver(supaUrl, defaultBucket)
	sessionStore := session.New(session.NewGotrueAuth(supabaseClient.Auth), logger)

	userService := services.NewUserService(supa)
	eventService := services.NewEventService(supa, supa, resolver)
	registrationService := services.NewRegistrationService(supa, supa)
	organizationService := services.NewOrganizationService(supa, supa, cloudinary)
	bookmarkService := services.NewBookmarkService(mongo, supa)
	seederService := services.NewSeederService(sessionStore, supa, supa, logger)

	return &Container{
		Logger:              logger,
		Cloudinary:          cloudinary,
		SupabaseClient:      supabaseClient,
		MongoDBClient:       mongoDBClient,
		SessionStore:        sessionStore,
		Resolver:            resolver,
		UserService:         userService,
		EventService:        eventService,
		RegistrationService: registrationService,
		OrganizationService: organizationService,
		BookmarkService:     bookmarkService,
		SeederService:       seederService,
	}
}
