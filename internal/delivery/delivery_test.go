package delivery

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	testContentID = "7b9a4f6e-3c2d-4e8a-9f01-5d6c7b8a9e0f"
	testBasePath  = "videos/abc/"
	testLocation  = "videos/abc/master_playlist.m3u8"
)

// fakeMeta is an in-memory MetadataStore that counts lookups.
type fakeMeta struct {
	locations map[string]string
	calls     int
}

func (f *fakeMeta) GetVideoLocation(ctx context.Context, contentID string) (string, error) {
	f.calls++
	loc, ok := f.locations[contentID]
	if !ok {
		return "", ErrNotFound
	}
	return loc, nil
}

// fakeStore is an in-memory ObjectStore. Presign is concurrency-safe,
// counts calls, and records every received ttl; failKey makes signing that
// key fail.
type fakeStore struct {
	mu           sync.Mutex
	texts        map[string]string
	fetchCalls   int
	presignCalls int
	streamCalls  int
	presignTTLs  []time.Duration
	failKey      string
}

func (f *fakeStore) FetchText(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	text, ok := f.texts[key]
	if !ok {
		return "", fmt.Errorf("object %q: %w", key, ErrNotFound)
	}
	if text == "" {
		return "", fmt.Errorf("object %q: %w", key, ErrEmptyBody)
	}
	return text, nil
}

func (f *fakeStore) FetchStream(ctx context.Context, key string) (io.ReadCloser, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streamCalls++
	text, ok := f.texts[key]
	if !ok {
		return nil, "", fmt.Errorf("object %q: %w", key, ErrNotFound)
	}
	return io.NopCloser(strings.NewReader(text)), "video/MP2T", nil
}

func (f *fakeStore) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presignCalls++
	f.presignTTLs = append(f.presignTTLs, ttl)
	if key == f.failKey {
		return "", fmt.Errorf("presign %q: %w", key, ErrSigningFailed)
	}
	return "https://storage.example.com/" + key + "?sig=" + fmt.Sprint(f.presignCalls), nil
}

func newTestService(t *testing.T, meta *fakeMeta, store *fakeStore, mediated bool) *Service {
	t.Helper()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewService(meta, store, Options{
		Mediated:     mediated,
		APIBaseURL:   "https://api.example.com",
		SignedURLTTL: time.Hour,
	}, log)
}

func defaultMeta() *fakeMeta {
	return &fakeMeta{locations: map[string]string{testContentID: testLocation}}
}
