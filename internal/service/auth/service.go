package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"golang.org/x/crypto/bcrypt"

	"github.com/rylimitless/asamp-backend-go/internal/domain/auth"
	"github.com/rylimitless/asamp-backend-go/internal/domain/user"
	jwtpkg "github.com/rylimitless/asamp-backend-go/internal/pkg/jwt"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/oauth"
	"github.com/rylimitless/asamp-backend-go/internal/service/hooks"
)

type AuthServiceImpl struct {
	user.UserRepository

	jwtService    jwtpkg.Service
	googleService oauth.GoogleService
	dispatcher    *hooks.Dispatcher
}

func NewAuthService(
	userRepo user.UserRepository,
	jwtService jwtpkg.Service,
	googleService oauth.GoogleService,
	dispatcher *hooks.Dispatcher,
) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository: userRepo,
		jwtService:     jwtService,
		googleService:  googleService,
		dispatcher:     dispatcher,
	}
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	if _, err := a.UserRepository.GetByEmail(ctx, req.Email); err == nil {
		return auth.TokenResponse{}, user.ErrEmailExists
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return auth.TokenResponse{}, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	u := user.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         user.RoleMember,
		SquadID:      req.SquadID,
		IsActive:     true,
	}

	created, err := a.UserRepository.Create(ctx, u)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.dispatcher.Dispatch(ctx, hooks.Event{
		Action:     hooks.ActionCreate,
		EntityType: "users",
		EntityID:   created.ID,
		ActorID:    &created.ID,
		After:      user.ToResponse(created),
	})

	return a.issueTokens(created)
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	u, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to load user: %w", err)
	}
	if !u.IsActive {
		return auth.TokenResponse{}, user.ErrUserInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	a.dispatchLogin(ctx, u)
	return a.issueTokens(u)
}

// OAuthGoogleURL implements auth.AuthService.
func (a *AuthServiceImpl) OAuthGoogleURL(state string) string {
	return a.googleService.RedirectURL(state)
}

// OAuthCallbackGoogle implements auth.AuthService.
func (a *AuthServiceImpl) OAuthCallbackGoogle(ctx context.Context, code string) (auth.TokenResponse, error) {
	token, err := a.googleService.VerifyToken(ctx, code)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	info, err := a.googleService.VerifyUser(ctx, token)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to fetch google user: %w", err)
	}
	if !info.VerifiedEmail {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	u, err := a.UserRepository.GetByGoogleID(ctx, info.GoogleID)
	if errors.Is(err, user.ErrUserNotFound) {
		u, err = a.linkOrCreateGoogleUser(ctx, info)
	}
	if err != nil {
		return auth.TokenResponse{}, err
	}
	if !u.IsActive {
		return auth.TokenResponse{}, user.ErrUserInactive
	}

	a.dispatchLogin(ctx, u)
	return a.issueTokens(u)
}

// dispatchLogin records a successful sign-in for the audit trail.
func (a *AuthServiceImpl) dispatchLogin(ctx context.Context, u user.User) {
	a.dispatcher.Dispatch(ctx, hooks.Event{
		Action:     hooks.ActionLogin,
		EntityType: "users",
		EntityID:   u.ID,
		ActorID:    &u.ID,
	})
}

// linkOrCreateGoogleUser attaches the Google identity to an existing
// account with the same email, or provisions a new member account.
func (a *AuthServiceImpl) linkOrCreateGoogleUser(ctx context.Context, info oauth.GoogleInformation) (user.User, error) {
	existing, err := a.UserRepository.GetByEmail(ctx, info.Email)
	if err == nil {
		existing.GoogleID = &info.GoogleID
		if err := a.UserRepository.Update(ctx, existing); err != nil {
			return user.User{}, fmt.Errorf("failed to link google account: %w", err)
		}
		return existing, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, fmt.Errorf("failed to look up user by email: %w", err)
	}

	name := info.Name
	if name == "" {
		name = info.Email
	}
	u := user.User{
		ID:       uuid.NewString(),
		Email:    info.Email,
		Name:     name,
		GoogleID: &info.GoogleID,
		Role:     user.RoleMember,
		IsActive: true,
	}

	created, err := a.UserRepository.Create(ctx, u)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to create user from google account: %w", err)
	}

	a.dispatcher.Dispatch(ctx, hooks.Event{
		Action:     hooks.ActionCreate,
		EntityType: "users",
		EntityID:   created.ID,
		ActorID:    &created.ID,
		After:      user.ToResponse(created),
	})

	return created, nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}
	if a.jwtService.IsTokenRevoked(req.RefreshToken) {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	token, err := a.jwtService.JWTAuth().Decode(req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	if err := jwt.Validate(token); err != nil {
		return auth.AccessTokenResponse{}, auth.ErrTokenExpired
	}

	typ, _ := token.Get("type")
	if typ != "refresh" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	uid, _ := token.Get("user_id")
	userID, ok := uid.(string)
	if !ok || userID == "" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	u, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	if !u.IsActive {
		return auth.AccessTokenResponse{}, user.ErrUserInactive
	}

	accessToken, expiresAt, err := a.jwtService.GenerateAccessToken(u.ID, u.Email, u.Role, u.SquadID)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.AccessTokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
	}, nil
}

type rawTokenKey struct{}

// WithRawToken stashes the presented bearer token so Logout can revoke
// the exact string the client holds.
func WithRawToken(ctx context.Context, raw string) context.Context {
	return context.WithValue(ctx, rawTokenKey{}, raw)
}

// Logout implements auth.AuthService. The presented access token is
// revoked for the rest of its lifetime.
func (a *AuthServiceImpl) Logout(ctx context.Context) error {
	raw, ok := ctx.Value(rawTokenKey{}).(string)
	if !ok || raw == "" {
		return auth.ErrInvalidToken
	}
	a.jwtService.RevokeToken(raw)
	return nil
}

// Profile implements auth.AuthService.
func (a *AuthServiceImpl) Profile(ctx context.Context) (auth.ProfileResponse, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return auth.ProfileResponse{}, auth.ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return auth.ProfileResponse{}, auth.ErrInvalidToken
	}

	u, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return auth.ProfileResponse{}, err
	}

	return auth.ProfileResponse{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Role:    string(u.Role),
		SquadID: u.SquadID,
	}, nil
}

func (a *AuthServiceImpl) issueTokens(u user.User) (auth.TokenResponse, error) {
	accessToken, expiresAt, err := a.jwtService.GenerateAccessToken(u.ID, u.Email, u.Role, u.SquadID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, _, err := a.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    expiresAt,
	}, nil
}
