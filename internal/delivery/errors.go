package delivery

import "errors"

// Error taxonomy for the delivery pipeline. Handlers map these with
// errors.Is onto HTTP statuses; nothing here is fatal to the process.
var (
	// ErrInvalidIdentifier means the content ID is not in the canonical
	// format. Rejected before any I/O.
	ErrInvalidIdentifier = errors.New("invalid content identifier")

	// ErrInvalidSegmentPath means a client-supplied segment or quality name
	// contains traversal or separator characters. Rejected before any I/O.
	ErrInvalidSegmentPath = errors.New("invalid segment path")

	// ErrNotFound means the content, its stored location, or the referenced
	// storage object does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyBody means storage returned success but no payload. A
	// storage-layer anomaly, kept distinct from ErrNotFound so it escalates
	// differently.
	ErrEmptyBody = errors.New("empty object body")

	// ErrSigningFailed means presigning failed (credentials or
	// connectivity). Aborts the enclosing rewrite.
	ErrSigningFailed = errors.New("presign failed")

	// ErrBadManifestRef means a fetched manifest references a path that
	// escapes the asset directory. Storage-side data corruption, not client
	// input.
	ErrBadManifestRef = errors.New("manifest reference escapes asset directory")
)
