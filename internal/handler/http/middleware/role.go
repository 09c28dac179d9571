package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/rylimitless/asamp-backend-go/internal/domain/auth"
	"github.com/rylimitless/asamp-backend-go/internal/domain/user"
	"github.com/rylimitless/asamp-backend-go/internal/handler/http/response"
)

// AdminOnly requires the admin role
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || user.Role(role) != user.RoleAdmin {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SquadLeadOrAdmin requires the squad lead or admin role
func SquadLeadOrAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, user.ErrSquadLeadAccessRequired)
			return
		}

		role := user.Role(roleStr)
		if role != user.RoleSquadLead && role != user.RoleAdmin {
			response.HandleError(w, user.ErrSquadLeadAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
