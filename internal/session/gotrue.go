package session

import (
	"context"
	"fmt"

	gotrue "github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
)

// gotrueAuth adapts a gotrue client to the AuthClient surface the store needs.
type gotrueAuth struct {
	client gotrue.Client
}

// NewGotrueAuth wraps the auth client of a Supabase connection.
func NewGotrueAuth(client gotrue.Client) AuthClient {
	return &gotrueAuth{client: client}
}

func (g *gotrueAuth) SignIn(ctx context.Context, email, password string) (*Token, error) {
	resp, err := g.client.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("sign in failed: %w", err)
	}
	return tokenFrom(resp), nil
}

func (g *gotrueAuth) SignUp(ctx context.Context, email, password string, data map[string]any) error {
	_, err := g.client.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data:     data,
	})
	if err != nil {
		return fmt.Errorf("sign up failed: %w", err)
	}
	return nil
}

func (g *gotrueAuth) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	resp, err := g.client.RefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}
	return tokenFrom(resp), nil
}

func (g *gotrueAuth) SignOut(ctx context.Context, accessToken string) error {
	if err := g.client.WithToken(accessToken).Logout(); err != nil {
		return fmt.Errorf("sign out failed: %w", err)
	}
	return nil
}

func tokenFrom(resp *types.TokenResponse) *Token {
	return &Token{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		UserID:       resp.User.ID,
		Email:        resp.User.Email,
	}
}
