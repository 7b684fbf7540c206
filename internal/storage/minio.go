package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/lumbrjx/hlsgate/internal/delivery"
)

// segmentContentType is the fallback MIME type when storage does not report
// one for a media segment.
const segmentContentType = "video/MP2T"

// MinioStore adapts a MinIO client to the delivery.ObjectStore contract:
// text fetch for manifests, live streams for segments, and presigned GET
// URLs for direct-mode rewrites.
type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(client *minio.Client, bucket string) *MinioStore {
	return &MinioStore{client: client, bucket: bucket}
}

// FetchText fully drains the object into a UTF-8 string. Manifests are
// always parsed as a whole, never streamed.
func (m *MinioStore) FetchText(ctx context.Context, objectKey string) (string, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("get object %q failed: %w", objectKey, err)
	}
	defer obj.Close()

	var b strings.Builder
	if _, err := io.Copy(&b, obj); err != nil {
		if isNoSuchKey(err) {
			return "", fmt.Errorf("object %q: %w", objectKey, delivery.ErrNotFound)
		}
		return "", fmt.Errorf("read object %q failed: %w", objectKey, err)
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("object %q: %w", objectKey, delivery.ErrEmptyBody)
	}

	return b.String(), nil
}

// FetchStream returns a live handle to the object without draining it,
// plus the content type reported by storage. The caller owns the stream and
// must close it; reads are bound to ctx, so a cancelled request tears down
// the storage-side connection.
func (m *MinioStore) FetchStream(ctx context.Context, objectKey string) (io.ReadCloser, string, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("get object %q failed: %w", objectKey, err)
	}

	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		if isNoSuchKey(err) {
			return nil, "", fmt.Errorf("object %q: %w", objectKey, delivery.ErrNotFound)
		}
		return nil, "", fmt.Errorf("stat object %q failed: %w", objectKey, err)
	}

	if info.Size == 0 {
		obj.Close()
		return nil, "", fmt.Errorf("object %q: %w", objectKey, delivery.ErrEmptyBody)
	}

	contentType := info.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = segmentContentType
	}

	return obj, contentType, nil
}

// Presign issues a time-bounded GET URL for the object. Expiry is enforced
// by the object store's signature scheme; the gateway never re-checks it.
func (m *MinioStore) Presign(ctx context.Context, objectKey string, ttl time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, objectKey, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("presign %q: %w: %v", objectKey, delivery.ErrSigningFailed, err)
	}
	return u.String(), nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
