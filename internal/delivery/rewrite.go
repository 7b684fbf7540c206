package delivery

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lumbrjx/hlsgate/pkg/logger"
)

// RewriteMaster fetches the asset's master playlist and substitutes every
// variant reference. The playlist is a pass-through document: only the URI
// line following an #EXT-X-STREAM-INF tag is replaced, everything else is
// emitted verbatim. A master with zero stream-info tags comes back
// unchanged, and a trailing tag with no URI line is passed through as-is.
func (s *Service) RewriteMaster(ctx context.Context, contentID string) (string, error) {
	if err := ValidateContentID(contentID); err != nil {
		return "", err
	}

	basePath, err := s.Resolve(ctx, contentID)
	if err != nil {
		return "", err
	}

	text, err := s.store.FetchText(ctx, basePath+masterPlaylistName)
	if err != nil {
		return "", err
	}

	lines := splitManifest(text)
	expectingVariantURI := false
	for i := range lines {
		trimmed := strings.TrimSpace(lines[i].text)
		switch {
		case strings.HasPrefix(trimmed, streamInfTag):
			expectingVariantURI = true
		case expectingVariantURI && trimmed != "" && !strings.HasPrefix(trimmed, "#"):
			expectingVariantURI = false
			rewritten, err := s.rewriteVariantRef(ctx, basePath, contentID, trimmed)
			if err != nil {
				logger.WithContext(ctx, s.log).Error("master rewrite failed",
					"content_id", contentID,
					"line", i+1,
					"error", err.Error())
				return "", err
			}
			lines[i].text = rewritten
		default:
			// State survives exactly one line: a blank or comment line
			// after the tag drops it.
			expectingVariantURI = false
		}
	}

	return joinManifest(lines), nil
}

// rewriteVariantRef turns one variant URI line ("720/playlist.m3u8") into
// its replacement: a gateway playlist URL in mediated mode, a presigned
// storage URL otherwise.
func (s *Service) rewriteVariantRef(ctx context.Context, basePath, contentID, ref string) (string, error) {
	if containsTraversal(ref) {
		return "", fmt.Errorf("variant ref %q: %w", ref, ErrBadManifestRef)
	}
	quality := ref
	if j := strings.IndexByte(ref, '/'); j >= 0 {
		quality = ref[:j]
	}
	if quality == "" {
		return "", fmt.Errorf("variant ref %q: %w", ref, ErrBadManifestRef)
	}

	if s.opts.Mediated {
		return fmt.Sprintf("%s/playlist/%s/%s/%s", s.apiBase, contentID, quality, variantPlaylistName), nil
	}
	return s.store.Presign(ctx, basePath+ref, s.opts.SignedURLTTL)
}

// RewriteVariant fetches one quality's playlist and substitutes every
// segment reference. In direct mode the presign calls fan out concurrently;
// the rewritten line list is assembled only after all of them resolve, so
// output order always matches input order, and a single failure aborts the
// whole rewrite (a player cannot recover mid-playlist from a dead link).
func (s *Service) RewriteVariant(ctx context.Context, contentID, quality string) (string, error) {
	if err := ValidateContentID(contentID); err != nil {
		return "", err
	}
	if err := ValidateQuality(quality); err != nil {
		return "", err
	}

	basePath, err := s.Resolve(ctx, contentID)
	if err != nil {
		return "", err
	}

	text, err := s.store.FetchText(ctx, basePath+quality+"/"+variantPlaylistName)
	if err != nil {
		return "", err
	}

	lines := splitManifest(text)

	// Locate the segment lines first; tags, durations, and comments pass
	// through untouched.
	type target struct {
		idx  int
		name string
	}
	var targets []target
	for i := range lines {
		trimmed := strings.TrimSpace(lines[i].text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		name := trimmed
		if q := strings.IndexByte(name, '?'); q >= 0 {
			name = name[:q] // query string is dropped before key construction
		}
		if !strings.HasSuffix(name, segmentExt) {
			continue
		}
		if err := ValidateSegmentName(name); err != nil {
			logger.WithContext(ctx, s.log).Error("variant playlist references unsafe segment",
				"content_id", contentID,
				"quality", quality,
				"segment", name)
			return "", fmt.Errorf("segment ref %q: %w", name, ErrBadManifestRef)
		}
		targets = append(targets, target{idx: i, name: name})
	}

	if s.opts.Mediated {
		for _, t := range targets {
			lines[t.idx].text = fmt.Sprintf("%s/segment/%s/%s/%s", s.apiBase, contentID, quality, t.name)
		}
		return joinManifest(lines), nil
	}

	// Direct mode: sign every segment concurrently, all-or-nothing.
	urls := make([]string, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	for k, t := range targets {
		k, t := k, t
		g.Go(func() error {
			u, err := s.store.Presign(gctx, basePath+quality+"/"+t.name, s.opts.SignedURLTTL)
			if err != nil {
				return err
			}
			urls[k] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.WithContext(ctx, s.log).Error("segment signing failed",
			"content_id", contentID,
			"quality", quality,
			"segments", len(targets),
			"error", err.Error())
		return "", err
	}

	for k, t := range targets {
		lines[t.idx].text = urls[k]
	}
	return joinManifest(lines), nil
}
