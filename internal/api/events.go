package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/lumbrjx/hlsgate/pkg/utils"
)

const publishTimeout = 5 * time.Second

// PlaybackEvent is the analytics message emitted when a master playlist is
// served (i.e. a playback session starts).
type PlaybackEvent struct {
	UserID    string    `json:"user_id"`
	ContentID string    `json:"content_id"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// publishPlaybackEvent emits a playback-started event, fire-and-forget. A
// broker failure never fails the playlist response that triggered it.
func (a *API) publishPlaybackEvent(ctx context.Context, userID, contentID string) {
	if a.Producer == nil {
		return
	}

	reqID, _ := utils.GetRequestID(ctx)
	event := PlaybackEvent{
		UserID:    userID,
		ContentID: contentID,
		RequestID: reqID,
		Timestamp: time.Now().UTC(),
	}

	go func() {
		payload, err := json.Marshal(event)
		if err != nil {
			return
		}
		pubCtx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := a.Producer.WriteMessages(pubCtx, kafka.Message{
			Key:   []byte(contentID),
			Value: payload,
		}); err != nil {
			a.Log.Warn("failed to publish playback event",
				"content_id", contentID,
				"error", err.Error())
		}
	}()
}
