package graph

import "errors"

var (
	// ErrStoreUnavailable is returned when the backing store cannot be reached
	ErrStoreUnavailable = errors.New("corpus store unavailable")

	// ErrInvalidK is returned when a similarity search is asked for a
	// non-positive result count
	ErrInvalidK = errors.New("k must be positive")
)
