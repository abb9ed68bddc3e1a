package history

import "errors"

var (
	// ErrSessionNotFound is returned when a session id does not exist
	ErrSessionNotFound = errors.New("chat session not found")

	// ErrNotOwner is returned when a session belongs to a different user
	ErrNotOwner = errors.New("chat session belongs to another user")
)
