package middlewares

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lumbrjx/hlsgate/pkg/utils"
)

// RequestIDMiddleware assigns each request a correlation ID, carried in the
// context (explicitly, never via ambient process state) and echoed back in
// the X-Request-Id header.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)
		ctx := utils.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
