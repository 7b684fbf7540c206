package delivery

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

const (
	masterPlaylistName  = "master_playlist.m3u8"
	variantPlaylistName = "playlist.m3u8"
	streamInfTag        = "#EXT-X-STREAM-INF"
	segmentExt          = ".ts"
)

// MetadataStore resolves a content ID to the stored location of its master
// playlist object. Reports ErrNotFound when the content or its location is
// absent.
type MetadataStore interface {
	GetVideoLocation(ctx context.Context, contentID string) (string, error)
}

// ObjectStore is the storage backend: text fetch for manifests, live
// streams for segments, presigned GET URLs for direct-mode rewrites. The
// implementation must be safe for concurrent use by many requests.
type ObjectStore interface {
	FetchText(ctx context.Context, objectKey string) (string, error)
	FetchStream(ctx context.Context, objectKey string) (io.ReadCloser, string, error)
	Presign(ctx context.Context, objectKey string, ttl time.Duration) (string, error)
}

// Options is the fixed deployment configuration for the rewrite pipeline.
// The delivery mode is chosen once at startup, never per request.
type Options struct {
	// Mediated rewrites manifests to gateway endpoints instead of presigned
	// storage URLs.
	Mediated bool
	// APIBaseURL prefixes gateway URLs in mediated mode.
	APIBaseURL string
	// SignedURLTTL is applied uniformly to every URL signed for one
	// response.
	SignedURLTTL time.Duration
}

// Service is the manifest rewriting and segment delivery pipeline. It holds
// no mutable state; every request works on data fetched for that request.
type Service struct {
	meta    MetadataStore
	store   ObjectStore
	opts    Options
	log     *slog.Logger
	apiBase string
}

func NewService(meta MetadataStore, store ObjectStore, opts Options, log *slog.Logger) *Service {
	return &Service{
		meta:    meta,
		store:   store,
		opts:    opts,
		log:     log,
		apiBase: strings.TrimRight(opts.APIBaseURL, "/"),
	}
}

// Resolve returns the storage prefix under which the asset's manifests and
// segments live: the stored location truncated after its final "/". The
// result is never cached; metadata may change between calls.
func (s *Service) Resolve(ctx context.Context, contentID string) (string, error) {
	location, err := s.meta.GetVideoLocation(ctx, contentID)
	if err != nil {
		return "", err
	}
	idx := strings.LastIndex(location, "/")
	if idx < 0 {
		return "", fmt.Errorf("location %q has no containing directory: %w", location, ErrNotFound)
	}
	return location[:idx+1], nil
}
