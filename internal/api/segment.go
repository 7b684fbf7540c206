package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumbrjx/hlsgate/internal/delivery"
	"github.com/lumbrjx/hlsgate/pkg/logger"
	"github.com/lumbrjx/hlsgate/pkg/utils"
)

// StreamSegment handles GET /segment/{content_id}/{quality}/{segment}. Only
// the mediated deployment routes players here; bytes are piped through as
// they arrive, never buffered whole.
func (a *API) StreamSegment(w http.ResponseWriter, r *http.Request) {
	contentID := chi.URLParam(r, "content_id")
	quality := chi.URLParam(r, "quality")
	segment := chi.URLParam(r, "segment")

	if err := delivery.ValidateContentID(contentID); err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := delivery.ValidateQuality(quality); err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := delivery.ValidateSegmentName(segment); err != nil {
		a.writeError(w, r, err)
		return
	}

	userID, ok := utils.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if !a.authorize(w, r, userID, contentID) {
		return
	}

	stream, contentType, err := a.Delivery.StreamSegment(r.Context(), contentID, quality, segment)
	if err != nil {
		logger.WithContext(r.Context(), a.Log).Error("segment request failed",
			"content_id", contentID,
			"quality", quality,
			"segment", segment,
			"error", err.Error())
		a.writeError(w, r, err)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)

	// The storage read is bound to the request context: a client disconnect
	// cancels it, which surfaces here as a copy error. Headers are already
	// out at that point, so the connection just terminates.
	if _, err := io.Copy(w, stream); err != nil {
		logger.WithContext(r.Context(), a.Log).Warn("segment stream interrupted",
			"content_id", contentID,
			"quality", quality,
			"segment", segment,
			"error", err.Error())
		return
	}

	if a.Metrics != nil {
		a.Metrics.IncSegmentsStreamed()
	}
}
