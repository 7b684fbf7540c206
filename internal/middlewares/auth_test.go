package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lumbrjx/hlsgate/pkg/utils"
)

var testSecret = []byte("test-secret")

func protected(t *testing.T, gotUser *string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := utils.GetUserID(r.Context())
		if !ok {
			t.Error("user ID missing from context behind auth middleware")
		}
		*gotUser = uid
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_valid_token(t *testing.T) {
	token, err := utils.GenToken("user-42", testSecret)
	if err != nil {
		t.Fatalf("gen token: %v", err)
	}

	var gotUser string
	h := AuthMiddleware(testSecret)(protected(t, &gotUser))

	req := httptest.NewRequest(http.MethodGet, "/master/x", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if gotUser != "user-42" {
		t.Errorf("user ID = %q, want user-42", gotUser)
	}
}

func TestAuthMiddleware_missing_cookie(t *testing.T) {
	var gotUser string
	h := AuthMiddleware(testSecret)(protected(t, &gotUser))

	req := httptest.NewRequest(http.MethodGet, "/master/x", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_invalid_token(t *testing.T) {
	token, err := utils.GenToken("user-42", []byte("other-secret"))
	if err != nil {
		t.Fatalf("gen token: %v", err)
	}

	var gotUser string
	h := AuthMiddleware(testSecret)(protected(t, &gotUser))

	req := httptest.NewRequest(http.MethodGet, "/master/x", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var gotID string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = utils.GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/master/x", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if gotID == "" {
		t.Error("expected a generated correlation ID in context")
	}
	if hdr := rec.Header().Get("X-Request-Id"); hdr != gotID {
		t.Errorf("X-Request-Id header = %q, want %q", hdr, gotID)
	}
}

func TestRequestIDMiddleware_propagates_incoming(t *testing.T) {
	var gotID string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = utils.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/master/x", nil)
	req.Header.Set("X-Request-Id", "upstream-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if gotID != "upstream-id" {
		t.Errorf("correlation ID = %q, want upstream-id", gotID)
	}
}
