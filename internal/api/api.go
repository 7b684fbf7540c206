package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/segmentio/kafka-go"

	"github.com/lumbrjx/hlsgate/internal/delivery"
	"github.com/lumbrjx/hlsgate/internal/metrics"
	"github.com/lumbrjx/hlsgate/pkg/logger"
)

const playlistContentType = "application/vnd.apple.mpegurl"

// Authorizer is the enrollment gate. An unauthorized result short-circuits
// before any storage I/O.
type Authorizer interface {
	IsEnrolled(ctx context.Context, userID, contentID string) (bool, error)
}

type API struct {
	Delivery *delivery.Service
	Auth     Authorizer
	Producer *kafka.Writer
	Metrics  *metrics.Metrics
	Log      *slog.Logger
}

// writeError maps a delivery error onto the smallest-necessary HTTP status.
// No internal detail (storage keys, credentials) is echoed to the client.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, delivery.ErrInvalidIdentifier), errors.Is(err, delivery.ErrInvalidSegmentPath):
		http.Error(w, "Bad Request", http.StatusBadRequest)
	case errors.Is(err, delivery.ErrNotFound):
		http.Error(w, "Not Found", http.StatusNotFound)
	default:
		if errors.Is(err, delivery.ErrSigningFailed) && a.Metrics != nil {
			a.Metrics.IncSigningFailures()
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// authorize enforces the enrollment gate for userID on contentID. It writes
// the response itself on denial or failure and reports whether the handler
// may proceed.
func (a *API) authorize(w http.ResponseWriter, r *http.Request, userID, contentID string) bool {
	enrolled, err := a.Auth.IsEnrolled(r.Context(), userID, contentID)
	if err != nil {
		logger.WithContext(r.Context(), a.Log).Error("enrollment check failed",
			"user_id", userID,
			"content_id", contentID,
			"error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return false
	}
	if !enrolled {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	return true
}
