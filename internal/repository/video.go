package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumbrjx/hlsgate/internal/delivery"
	"github.com/lumbrjx/hlsgate/pkg/logger"
)

// VideoRepository reads content metadata and enrollment state. Both tables
// are owned and mutated by the content-management service; the gateway only
// reads them, so results are never cached here.
type VideoRepository interface {
	GetVideoLocation(ctx context.Context, videoID string) (string, error)
	IsEnrolled(ctx context.Context, userID, videoID string) (bool, error)
}

type videoRepo struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func NewVideoRepository(pool *pgxpool.Pool, log *slog.Logger) VideoRepository {
	return &videoRepo{db: pool, log: log}
}

// GetVideoLocation returns the stored path of the video's master playlist
// object. A missing row or an empty stored location both report
// delivery.ErrNotFound.
func (r *videoRepo) GetVideoLocation(ctx context.Context, videoID string) (string, error) {
	start := time.Now()

	query := `SELECT COALESCE(file_path, '') FROM videos WHERE id=$1`
	row := r.db.QueryRow(ctx, query, videoID)

	var location string
	err := row.Scan(&location)

	log := logger.WithContext(ctx, r.log).With(
		"operation", "get_video_location",
		"video_id", videoID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if errors.Is(err, pgx.ErrNoRows) {
		log.Warn("video not found in database")
		return "", delivery.ErrNotFound
	}
	if err != nil {
		log.Error("failed to fetch video location", "error", err.Error())
		return "", fmt.Errorf("get video location failed: %w", err)
	}
	if location == "" {
		log.Warn("video has no stored location")
		return "", delivery.ErrNotFound
	}

	log.Debug("video location fetched")
	return location, nil
}

// IsEnrolled reports whether the user may play the video.
func (r *videoRepo) IsEnrolled(ctx context.Context, userID, videoID string) (bool, error) {
	start := time.Now()

	query := `SELECT EXISTS(SELECT 1 FROM enrollments WHERE user_id=$1 AND video_id=$2)`
	row := r.db.QueryRow(ctx, query, userID, videoID)

	var enrolled bool
	err := row.Scan(&enrolled)

	log := logger.WithContext(ctx, r.log).With(
		"operation", "is_enrolled",
		"user_id", userID,
		"video_id", videoID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if err != nil {
		log.Error("failed to check enrollment", "error", err.Error())
		return false, fmt.Errorf("check enrollment failed: %w", err)
	}

	log.Debug("enrollment checked", "enrolled", enrolled)
	return enrolled, nil
}
