package storefront

import "errors"

var (
	// ErrInvalidConfig is returned when the client configuration is incomplete
	ErrInvalidConfig = errors.New("invalid storefront client configuration")

	// ErrFetch is returned for any transport or backend failure. A
	// structurally malformed response is also an ErrFetch: callers
	// must never see partially-shaped product data.
	ErrFetch = errors.New("storefront fetch failed")
)
