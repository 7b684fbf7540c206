package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumbrjx/hlsgate/internal/delivery"
	"github.com/lumbrjx/hlsgate/pkg/logger"
	"github.com/lumbrjx/hlsgate/pkg/utils"
)

// GetMasterPlaylist handles GET /master/{content_id}.
func (a *API) GetMasterPlaylist(w http.ResponseWriter, r *http.Request) {
	contentID := chi.URLParam(r, "content_id")
	if err := delivery.ValidateContentID(contentID); err != nil {
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

	manifest, err := a.Delivery.RewriteMaster(r.Context(), contentID)
	if err != nil {
		logger.WithContext(r.Context(), a.Log).Error("master playlist request failed",
			"content_id", contentID,
			"error", err.Error())
		a.writeError(w, r, err)
		return
	}

	if a.Metrics != nil {
		a.Metrics.IncPlaylistsRewritten()
	}
	a.publishPlaybackEvent(r.Context(), userID, contentID)

	w.Header().Set("Content-Type", playlistContentType)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(manifest))
}

// GetVariantPlaylist handles GET /playlist/{content_id}/{quality}/playlist.m3u8.
func (a *API) GetVariantPlaylist(w http.ResponseWriter, r *http.Request) {
	contentID := chi.URLParam(r, "content_id")
	quality := chi.URLParam(r, "quality")
	if err := delivery.ValidateContentID(contentID); err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := delivery.ValidateQuality(quality); err != nil {
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

	manifest, err := a.Delivery.RewriteVariant(r.Context(), contentID, quality)
	if err != nil {
		logger.WithContext(r.Context(), a.Log).Error("variant playlist request failed",
			"content_id", contentID,
			"quality", quality,
			"error", err.Error())
		a.writeError(w, r, err)
		return
	}

	if a.Metrics != nil {
		a.Metrics.IncPlaylistsRewritten()
	}

	w.Header().Set("Content-Type", playlistContentType)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(manifest))
}
