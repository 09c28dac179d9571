package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/rylimitless/asamp-backend-go/internal/handler/http/response"
)

// CronSecret guards trigger endpoints meant for the external scheduler.
// The caller must present the shared secret as a bearer token.
func CronSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				response.Forbidden(w, "Cron triggers are disabled")
				return
			}

			presented := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
				response.Unauthorized(w, "Invalid cron secret")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
