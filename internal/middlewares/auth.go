package middlewares

import (
	"net/http"

	"github.com/lumbrjx/hlsgate/pkg/utils"
)

// AuthMiddleware validates the session_token cookie and puts the user ID in
// the request context. The enrollment gate in the handlers relies on it.
func AuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("session_token")
			if err != nil || cookie.Value == "" {
				http.Error(w, "Unauthorized: Missing session token", http.StatusUnauthorized)
				return
			}

			userID, err := utils.ValidateToken(cookie.Value, secret)
			if err != nil {
				http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := utils.WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
