package analysis

import "errors"

var (
	// ErrMalformedResponse means the provider's output is missing a required
	// field or is not the expected JSON shape. Nothing is persisted as
	// analyzed when this is returned.
	ErrMalformedResponse = errors.New("malformed analysis response")

	ErrNotFound = errors.New("analysis not found")
)
