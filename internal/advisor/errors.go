package advisor

import "errors"

var (
	// ErrInvalidRequest is returned for an empty or missing question.
	// This is a user error; nothing downstream runs.
	ErrInvalidRequest = errors.New("question is required")

	// ErrEmbedding wraps failures converting the question to a vector
	ErrEmbedding = errors.New("embedding failed")

	// ErrStoreUnavailable wraps failures reaching the corpus store
	ErrStoreUnavailable = errors.New("corpus store unavailable")

	// ErrGeneration wraps failures producing the answer
	ErrGeneration = errors.New("answer generation failed")
)
