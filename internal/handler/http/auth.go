package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/rylimitless/asamp-backend-go/internal/domain/auth"
	"github.com/rylimitless/asamp-backend-go/internal/handler/http/response"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/jwt"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/oauth"
	authService "github.com/rylimitless/asamp-backend-go/internal/service/auth"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	LoginWithGoogle(w http.ResponseWriter, r *http.Request)
	OAuthCallbackGoogle(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Profile(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService   auth.AuthService
	jwtService    jwt.Service
	googleService oauth.GoogleService
	frontendURL   string
}

func NewAuthHandler(svc auth.AuthService, jwtService jwt.Service, googleService oauth.GoogleService, frontendURL string) AuthHandler {
	return &AuthHandlerImpl{
		authService:   svc,
		jwtService:    jwtService,
		googleService: googleService,
		frontendURL:   frontendURL,
	}
}

const oauthStateCookie = "oauth_state"

// Register implements AuthHandler.
func (a *AuthHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var registerReq auth.RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&registerReq); err != nil {
		slog.Error("Register decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := registerReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	tokens, err := a.authService.Register(r.Context(), registerReq)
	if err != nil {
		slog.Error("Register service error", "error", err)
		response.HandleError(w, err)
		return
	}

	a.setRefreshCookie(w, tokens.RefreshToken)
	response.Created(w, "Account registered", tokens)
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := loginReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	tokens, err := a.authService.Login(r.Context(), loginReq)
	if err != nil {
		slog.Error("Login service error", "error", err)
		response.HandleError(w, err)
		return
	}

	a.setRefreshCookie(w, tokens.RefreshToken)
	response.Success(w, tokens)
}

// LoginWithGoogle implements AuthHandler. It redirects the browser to
// the Google consent screen with a CSRF state stored in a cookie.
func (a *AuthHandlerImpl) LoginWithGoogle(w http.ResponseWriter, r *http.Request) {
	state := a.googleService.GenerateState()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/v1/auth",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, a.authService.OAuthGoogleURL(state), http.StatusTemporaryRedirect)
}

// OAuthCallbackGoogle implements AuthHandler.
func (a *AuthHandlerImpl) OAuthCallbackGoogle(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		slog.Error("OAuthCallbackGoogle state mismatch")
		response.HandleError(w, auth.ErrOAuthStateMismatch)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		response.BadRequest(w, "Missing authorization code", nil)
		return
	}

	tokens, err := a.authService.OAuthCallbackGoogle(r.Context(), code)
	if err != nil {
		slog.Error("OAuthCallbackGoogle service error", "error", err)
		response.HandleError(w, err)
		return
	}

	a.setRefreshCookie(w, tokens.RefreshToken)

	redirect := a.frontendURL + "/auth/callback?" + url.Values{
		"access_token": {tokens.AccessToken},
	}.Encode()
	http.Redirect(w, r, redirect, http.StatusTemporaryRedirect)
}

// RefreshToken implements AuthHandler. The refresh token is taken from
// the request body, falling back to the refresh cookie.
func (a *AuthHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var refreshReq auth.RefreshTokenRequest
	_ = json.NewDecoder(r.Body).Decode(&refreshReq)

	if refreshReq.RefreshToken == "" {
		if cookie, err := r.Cookie("refresh_token"); err == nil {
			refreshReq.RefreshToken = cookie.Value
		}
	}

	if err := refreshReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	token, err := a.authService.RefreshToken(r.Context(), refreshReq)
	if err != nil {
		slog.Error("RefreshToken service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, token)
}

// Logout implements AuthHandler. The presented access token is revoked
// and the refresh cookie cleared.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := authService.WithRawToken(r.Context(), jwtauth.TokenFromHeader(r))

	if err := a.authService.Logout(ctx); err != nil {
		slog.Error("Logout service error", "error", err)
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/api/v1/auth",
		MaxAge:   -1,
		HttpOnly: true,
	})

	response.SuccessWithMessage(w, "Logged out", nil)
}

// Profile implements AuthHandler.
func (a *AuthHandlerImpl) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := a.authService.Profile(r.Context())
	if err != nil {
		slog.Error("Profile service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, profile)
}

func (a *AuthHandlerImpl) setRefreshCookie(w http.ResponseWriter, token string) {
	if token == "" {
		return
	}

	// Cookie expiry mirrors the token's exp claim.
	expiresAt := time.Now().Add(30 * 24 * time.Hour).Unix()
	if decoded, err := a.jwtService.JWTAuth().Decode(token); err == nil && !decoded.Expiration().IsZero() {
		expiresAt = decoded.Expiration().Unix()
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(token, expiresAt))
}
