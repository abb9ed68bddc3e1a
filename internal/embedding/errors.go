package embedding

import "errors"

var (
	// ErrEmptyText is returned when asked to embed empty input
	ErrEmptyText = errors.New("cannot embed empty text")

	// ErrEmptyEmbedding is returned when the backend responds without a vector
	ErrEmptyEmbedding = errors.New("embedding backend returned no vector")
)
