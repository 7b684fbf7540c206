package delivery

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var qualityRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateContentID checks the canonical content identifier format (UUID).
// Fails fast before any I/O.
func ValidateContentID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("content id %q: %w", id, ErrInvalidIdentifier)
	}
	return nil
}

// ValidateQuality checks a rendition label ("480", "720p", ...). Quality is
// a single path element, so separators and traversal are rejected.
func ValidateQuality(quality string) error {
	if !qualityRe.MatchString(quality) {
		return fmt.Errorf("quality %q: %w", quality, ErrInvalidSegmentPath)
	}
	return nil
}

// ValidateSegmentName checks a client-supplied segment file name: no
// traversal, no separators, must carry the segment extension.
func ValidateSegmentName(name string) error {
	if name == "" || name == segmentExt ||
		!strings.HasSuffix(name, segmentExt) ||
		strings.Contains(name, "..") ||
		strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("segment %q: %w", name, ErrInvalidSegmentPath)
	}
	return nil
}

// containsTraversal reports whether a manifest-sourced relative path would
// escape the asset directory once joined onto the base path.
func containsTraversal(p string) bool {
	if strings.HasPrefix(p, "/") || strings.Contains(p, `\`) {
		return true
	}
	for _, part := range strings.Split(p, "/") {
		if part == ".." {
			return true
		}
	}
	return false
}
