package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lumbrjx/hlsgate/pkg/utils"
)

// New returns a structured JSON logger at the given level
// ("debug", "info", "warn", "error"; default "info").
func New(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String("timestamp", a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, opts))
	slog.SetDefault(log)
	return log
}

// WithContext returns log enriched with the request correlation ID, if the
// context carries one.
func WithContext(ctx context.Context, log *slog.Logger) *slog.Logger {
	if reqID, ok := utils.GetRequestID(ctx); ok {
		return log.With("request_id", reqID)
	}
	return log
}
