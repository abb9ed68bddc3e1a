package models

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of an analytics event
type EventType string

const (
	EventTypeQueryAnswered  EventType = "query.answered"
	EventTypeQueryFailed    EventType = "query.failed"
	EventTypeSessionCreated EventType = "session.created"
	EventTypeSessionDeleted EventType = "session.deleted"
)

// QueryEvent is published after each query request for offline analytics.
// Publishing is best effort and must never affect the request outcome.
type QueryEvent struct {
	ID              string    `json:"id"`
	Type            EventType `json:"type"`
	SessionID       string    `json:"session_id,omitempty"`
	QuestionPreview string    `json:"question_preview"`
	Success         bool      `json:"success"`
	NumSources      int       `json:"num_sources"`
	Timestamp       time.Time `json:"timestamp"`
}

// NewQueryEvent builds a QueryEvent with a fresh ID and timestamp.
func NewQueryEvent(eventType EventType, sessionID, questionPreview string, success bool, numSources int) QueryEvent {
	return QueryEvent{
		ID:              uuid.New().String(),
		Type:            eventType,
		SessionID:       sessionID,
		QuestionPreview: questionPreview,
		Success:         success,
		NumSources:      numSources,
		Timestamp:       time.Now().UTC(),
	}
}
