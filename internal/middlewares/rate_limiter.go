package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware caps requests per client IP over a sliding window,
// backed by redis INCR+EXPIRE. It keys on r.RemoteAddr; the router installs
// chi's RealIP ahead of this, so proxy headers are already resolved by the
// time the request gets here.
func RateLimitMiddleware(rdb *redis.Client, limit int, window time.Duration, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := "rate:" + r.RemoteAddr

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			// Set expiration on first request. If that fails the counter
			// would never reset and throttle this IP forever, so fail open:
			// drop the key and let the request through.
			if count == 1 {
				if err := rdb.Expire(ctx, key, window).Err(); err != nil {
					log.Warn("failed to set rate-limit window, disabling limit for key",
						"key", key,
						"error", err.Error())
					rdb.Del(ctx, key)
					next.ServeHTTP(w, r)
					return
				}
			}

			if count > int64(limit) {
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
