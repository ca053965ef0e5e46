package models

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"

	"campusevents/internal/errmsg"
	"campusevents/internal/storage"
)

type UserRepo interface {
	SignUpUser(ctx context.Context, email, password, fullName, role string) (*types.SignupResponse, error)
	AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
	RecoverPassword(ctx context.Context, email string) error
	GetProfile(ctx context.Context, id uuid.UUID, accessToken string) (*Profile, error)
	UpdateProfile(ctx context.Context, patch map[string]interface{}, id uuid.UUID, accessToken string) (*Profile, error)
	UpdateAuthUser(ctx context.Context, accessToken, password string, data map[string]interface{}) error
	UploadAvatar(ctx context.Context, objectPath string, data io.Reader, accessToken string) error
}

func (su *SupabaseRepo) SignUpUser(ctx context.Context, email, password, fullName, role string) (*types.SignupResponse, error) {
	res, err := su.supabaseClient.Auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data: map[string]interface{}{
			"full_name": fullName,
			"role":      role,
		},
	})
	if err != nil {
		msg := errmsg.Normalize(err)
		if errmsg.IsAlreadyRegistered(msg) {
			return nil, fmt.Errorf("email already in use")
		}
		return nil, fmt.Errorf("failed to create user: %s", msg)
	}
	return res, nil
}

func (su *SupabaseRepo) AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	resp, err := su.supabaseClient.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}
	return resp, nil
}

func (su *SupabaseRepo) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	resp, err := su.supabaseClient.Auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	return resp, nil
}

func (su *SupabaseRepo) RecoverPassword(ctx context.Context, email string) error {
	if err := su.supabaseClient.Auth.Recover(types.RecoverRequest{Email: email}); err != nil {
		return fmt.Errorf("failed to send recovery email: %w", err)
	}
	return nil
}

func (su *SupabaseRepo) GetProfile(ctx context.Context, id uuid.UUID, accessToken string) (*Profile, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid UUID")
	}

	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %w", err)
	}

	raw, status, err := client.From(ProfilesTable).
		Select("id,full_name,avatar_url,role,bio,university_id,created_at,updated_at", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		if status != 0 {
			return nil, fmt.Errorf("postgrest error: status=%d body=%s err=%w", status, string(raw), err)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	// Supabase returns an array even for single results.
	var profiles []Profile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile rows: %w", err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("profile not found")
	}
	return &profiles[0], nil
}

func (su *SupabaseRepo) UpdateProfile(ctx context.Context, patch map[string]interface{}, id uuid.UUID, accessToken string) (*Profile, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid UUID")
	}
	if len(patch) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %w", err)
	}

	raw, count, err := client.From(ProfilesTable).
		Update(patch, "", "exact").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("no profile found to update")
	}

	var updated []Profile
	if err := json.Unmarshal(raw, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated profile: %w", err)
	}
	if len(updated) == 0 {
		return nil, fmt.Errorf("no profile data returned after update")
	}
	return &updated[0], nil
}

// UpdateAuthUser changes the auth-side record (password, user metadata) as the
// signed-in user.
func (su *SupabaseRepo) UpdateAuthUser(ctx context.Context, accessToken, password string, data map[string]interface{}) error {
	req := types.UpdateUserRequest{Data: data}
	if password != "" {
		req.Password = &password
	}

	if _, err := su.supabaseClient.Auth.WithToken(accessToken).UpdateUser(req); err != nil {
		return fmt.Errorf("failed to update auth user: %w", err)
	}
	return nil
}

func (su *SupabaseRepo) UploadAvatar(ctx context.Context, objectPath string, data io.Reader, accessToken string) error {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return fmt.Errorf("failed to create authenticated client: %w", err)
	}

	if _, err := client.Storage.UploadFile(storage.AvatarsBucket, objectPath, data); err != nil {
		return fmt.Errorf("failed to upload avatar: %w", err)
	}
	return nil
}
