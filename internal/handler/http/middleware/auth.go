package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/rylimitless/asamp-backend-go/internal/domain/auth"
	"github.com/rylimitless/asamp-backend-go/internal/handler/http/response"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/jwt"
)

// AuthRequired rejects requests without a valid access token. Tokens
// revoked by logout are refused for the rest of their lifetime.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != "access" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if raw := jwtauth.TokenFromHeader(r); raw != "" && jwtService.IsTokenRevoked(raw) {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
