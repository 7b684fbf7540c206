package delivery

import (
	"context"
	"io"
)

// StreamSegment opens a live stream for one media segment. Used only in
// mediated mode, where the gateway fronts segment bytes itself. The segment
// name is validated before any storage call; the returned stream's reads
// are bound to ctx, so a client disconnect cancels the storage-side read.
func (s *Service) StreamSegment(ctx context.Context, contentID, quality, segmentName string) (io.ReadCloser, string, error) {
	if err := ValidateContentID(contentID); err != nil {
		return nil, "", err
	}
	if err := ValidateQuality(quality); err != nil {
		return nil, "", err
	}
	if err := ValidateSegmentName(segmentName); err != nil {
		return nil, "", err
	}

	basePath, err := s.Resolve(ctx, contentID)
	if err != nil {
		return nil, "", err
	}

	return s.store.FetchStream(ctx, basePath+quality+"/"+segmentName)
}
