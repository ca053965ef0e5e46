package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/google/uuid"

	"campusevents/internal/helpers"
	"campusevents/internal/models"
)

type OrganizationService struct {
	orgsRepo   models.OrganizationsRepo
	eventsRepo models.EventsRepo
	cld        *cloudinary.Cloudinary
}

func NewOrganizationService(orgsRepo models.OrganizationsRepo, eventsRepo models.EventsRepo, cld *cloudinary.Cloudinary) *OrganizationService {
	return &OrganizationService{
		orgsRepo:   orgsRepo,
		eventsRepo: eventsRepo,
		cld:        cld,
	}
}

func (os *OrganizationService) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	return os.orgsRepo.ListOrganizations(ctx)
}

// GetOrganizationDetail returns the organization together with its events, the
// two queries the detail page needs.
func (os *OrganizationService) GetOrganizationDetail(ctx context.Context, id uuid.UUID) (*models.Organization, []models.Event, error) {
	org, err := os.orgsRepo.GetOrganizationByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	events, err := os.eventsRepo.ListEventsByOrganization(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list organization events: %w", err)
	}
	return org, events, nil
}

// orgPatchFields is the whitelist of columns an organization admin may change.
var orgPatchFields = map[string]bool{
	"name":        true,
	"type":        true,
	"description": true,
	"image_url":   true,
	"banner_url":  true,
}

func (os *OrganizationService) UpdateOrganization(ctx context.Context, id uuid.UUID, patch map[string]interface{}, accessToken string) (*models.Organization, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("no valid UUID provided")
	}

	filtered := make(map[string]interface{}, len(patch))
	for key, value := range patch {
		if orgPatchFields[key] {
			filtered[key] = value
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("no updatable fields provided")
	}
	filtered["updated_at"] = time.Now()

	return os.orgsRepo.UpdateOrganization(ctx, id, filtered, accessToken)
}

// UploadMedia pushes an organization logo or banner to Cloudinary and stores
// the delivery URL on the row. Cloudinary URLs are absolute, so readers get
// them back verbatim.
func (os *OrganizationService) UploadMedia(ctx context.Context, id uuid.UUID, kind string, file io.Reader, accessToken string) (*models.Organization, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("no valid UUID provided")
	}

	var column string
	switch kind {
	case "logo":
		column = "image_url"
	case "banner":
		column = "banner_url"
	default:
		return nil, fmt.Errorf("unknown media kind %q", kind)
	}

	url, publicID, err := helpers.UploadImage(ctx, os.cld, file, helpers.OrganizationsFolder)
	if err != nil {
		return nil, err
	}

	updated, err := os.orgsRepo.UpdateOrganization(ctx, id, map[string]interface{}{
		column:       url,
		"updated_at": time.Now(),
	}, accessToken)
	if err != nil {
		if delErr := helpers.DeleteImage(ctx, os.cld, publicID); delErr != nil {
			return nil, fmt.Errorf("organization update failed: %w (media cleanup also failed: %v)", err, delErr)
		}
		return nil, fmt.Errorf("organization update failed: %w", err)
	}
	return updated, nil
}
