package middlewares

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newLimitedHandler(t *testing.T, limit int, window time.Duration) (http.Handler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	h := RateLimitMiddleware(rdb, limit, window, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	return h, mr
}

func TestRateLimitMiddleware_over_limit(t *testing.T) {
	h, _ := newLimitedHandler(t, 2, time.Minute)

	for i := 1; i <= 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/master/x", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		want := http.StatusOK
		if i > 2 {
			want = http.StatusTooManyRequests
		}
		if rec.Code != want {
			t.Errorf("request %d: expected %d, got %d", i, want, rec.Code)
		}
	}
}

func TestRateLimitMiddleware_sets_window_expiry(t *testing.T) {
	h, mr := newLimitedHandler(t, 2, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/master/x", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if ttl := mr.TTL("rate:203.0.113.7:1234"); ttl != time.Minute {
		t.Errorf("rate key TTL = %v, want %v", ttl, time.Minute)
	}
}

func TestRateLimitMiddleware_forwarded_header_cannot_reset_bucket(t *testing.T) {
	// Proxy headers are resolved by RealIP before this middleware; a client
	// rotating X-Forwarded-For values must still share one bucket.
	h, _ := newLimitedHandler(t, 2, time.Minute)

	for i := 1; i <= 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/master/x", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		req.Header.Set("X-Forwarded-For", "198.51.100."+strconv.Itoa(i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if i == 3 && rec.Code != http.StatusTooManyRequests {
			t.Errorf("expected 429 on request 3 despite rotating header, got %d", rec.Code)
		}
	}
}

func TestRateLimitMiddleware_distinct_clients_have_distinct_buckets(t *testing.T) {
	h, _ := newLimitedHandler(t, 1, time.Minute)

	for i, addr := range []string{"203.0.113.7:1234", "203.0.113.8:1234"} {
		req := httptest.NewRequest(http.MethodGet, "/master/x", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("client %d: expected 200, got %d", i, rec.Code)
		}
	}
}
