package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"

	"campusevents/internal/helpers"
	"campusevents/internal/models"
	"campusevents/internal/storage"
)

type UserService struct {
	userRepo models.UserRepo
}

func NewUserService(userRepo models.UserRepo) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

func (us *UserService) SignUp(ctx context.Context, email, password, fullName, role string) (*types.SignupResponse, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("invalid email format: %v", err)
	}
	if !helpers.IsPasswordStrong(password) {
		return nil, fmt.Errorf("password is not strong enough")
	}
	if role == "" {
		role = models.RoleParticipant
	}
	if role != models.RoleParticipant && role != models.RoleOrganizer {
		return nil, fmt.Errorf("role must be either 'participant' or 'organizer'")
	}

	return us.userRepo.SignUpUser(ctx, email, password, fullName, role)
}

func (us *UserService) Authenticate(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("invalid email format: %v", err)
	}
	if err := models.Validate.Var(password, "required,min=8"); err != nil {
		return nil, fmt.Errorf("invalid password format: %v", err)
	}

	response, err := us.userRepo.AuthenticateUser(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	return response, nil
}

func (us *UserService) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}
	response, err := us.userRepo.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}
	return response, nil
}

func (us *UserService) RecoverPassword(ctx context.Context, email string) error {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("invalid email format: %v", err)
	}
	return us.userRepo.RecoverPassword(ctx, email)
}

func (us *UserService) GetProfile(ctx context.Context, id uuid.UUID, accessToken string) (*models.Profile, error) {
	res, err := us.userRepo.GetProfile(ctx, id, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return res, nil
}

// profilePatchFields is the whitelist of columns a user may change on their
// own profile row.
var profilePatchFields = map[string]bool{
	"full_name":     true,
	"bio":           true,
	"university_id": true,
	"avatar_url":    true,
}

func (us *UserService) UpdateProfile(ctx context.Context, patch map[string]interface{}, id uuid.UUID, accessToken string) (*models.Profile, error) {
	filtered := make(map[string]interface{}, len(patch))
	for key, value := range patch {
		if profilePatchFields[key] {
			filtered[key] = value
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("no updatable fields provided")
	}
	filtered["updated_at"] = time.Now()

	updated, err := us.userRepo.UpdateProfile(ctx, filtered, id, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	// Keep the auth-side display name in sync with the profile row.
	if name, ok := filtered["full_name"]; ok {
		if err := us.userRepo.UpdateAuthUser(ctx, accessToken, "", map[string]interface{}{"full_name": name}); err != nil {
			return nil, fmt.Errorf("profile updated but auth metadata sync failed: %w", err)
		}
	}

	return updated, nil
}

func (us *UserService) ChangePassword(ctx context.Context, accessToken, newPassword string) error {
	if !helpers.IsPasswordStrong(newPassword) {
		return fmt.Errorf("password is not strong enough")
	}
	return us.userRepo.UpdateAuthUser(ctx, accessToken, newPassword, nil)
}

// UploadAvatar runs the avatar pipeline: upload to the avatars bucket, point
// the auth metadata at the public URL, then the profiles row. There is no
// rollback of the uploaded object if a later step fails; the next successful
// upload simply supersedes it.
func (us *UserService) UploadAvatar(ctx context.Context, userID uuid.UUID, filename string, data io.Reader, resolver *storage.Resolver, accessToken string) (string, error) {
	if userID == uuid.Nil {
		return "", fmt.Errorf("no valid UUID provided")
	}

	objectPath := storage.ObjectPath(userID, filename)
	if err := us.userRepo.UploadAvatar(ctx, objectPath, data, accessToken); err != nil {
		return "", err
	}

	publicURL := resolver.Resolve(objectPath, storage.AvatarsBucket)
	if err := us.userRepo.UpdateAuthUser(ctx, accessToken, "", map[string]interface{}{"avatar_url": publicURL}); err != nil {
		return "", fmt.Errorf("avatar uploaded but auth metadata update failed: %w", err)
	}

	if _, err := us.userRepo.UpdateProfile(ctx, map[string]interface{}{
		"avatar_url": publicURL,
		"updated_at": time.Now(),
	}, userID, accessToken); err != nil {
		return "", fmt.Errorf("avatar uploaded but profile update failed: %w", err)
	}

	return publicURL, nil
}
