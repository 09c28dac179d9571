package auth

import (
	"context"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (TokenResponse, error)
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)

	// OAuthGoogleURL returns the Google consent redirect URL with the
	// given CSRF state embedded.
	OAuthGoogleURL(state string) string

	// OAuthCallbackGoogle exchanges the authorization code, upserts
	// the user and returns a token pair.
	OAuthCallbackGoogle(ctx context.Context, code string) (TokenResponse, error)

	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (ProfileResponse, error)
}
