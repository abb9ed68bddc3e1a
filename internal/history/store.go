package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aftab707/LegalAdvisor/pkg/models"
)

// Store persists chat sessions and their turns in Postgres. The core
// pipeline only ever appends turns; prior turns are never read back into
// retrieval or generation — each query is answered context-free.
type Store struct {
	db *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS chat_sessions (
	session_id UUID PRIMARY KEY,
	user_id    TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT 'New Chat',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS chat_sessions_user_idx ON chat_sessions (user_id, updated_at DESC);

CREATE TABLE IF NOT EXISTS chat_messages (
	message_id BIGSERIAL PRIMARY KEY,
	session_id UUID NOT NULL REFERENCES chat_sessions (session_id) ON DELETE CASCADE,
	role       TEXT NOT NULL CHECK (role IN ('user', 'assistant', 'system')),
	content    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS chat_messages_session_idx ON chat_messages (session_id, created_at);
`

// NewStore creates a history store over an existing connection pool
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the history tables if they do not exist
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create history schema: %w", err)
	}
	return nil
}

// CreateSession starts a new session for the given user
func (s *Store) CreateSession(ctx context.Context, userID, title string) (models.ChatSession, error) {
	session := models.ChatSession{
		SessionID: uuid.New().String(),
		UserID:    userID,
		Title:     title,
	}

	err := s.db.QueryRow(ctx, `
		INSERT INTO chat_sessions (session_id, user_id, title)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`, session.SessionID, userID, title).Scan(&session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return models.ChatSession{}, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// GetSession fetches one session, enforcing ownership
func (s *Store) GetSession(ctx context.Context, sessionID, userID string) (models.ChatSession, error) {
	var session models.ChatSession
	err := s.db.QueryRow(ctx, `
		SELECT session_id, user_id, title, created_at, updated_at
		FROM chat_sessions
		WHERE session_id = $1
	`, sessionID).Scan(&session.SessionID, &session.UserID, &session.Title, &session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ChatSession{}, ErrSessionNotFound
	}
	if err != nil {
		return models.ChatSession{}, fmt.Errorf("failed to get session: %w", err)
	}

	if session.UserID != userID {
		return models.ChatSession{}, ErrNotOwner
	}

	return session, nil
}

// ListSessions returns the user's sessions, most recently updated first
func (s *Store) ListSessions(ctx context.Context, userID string) ([]models.ChatSession, error) {
	rows, err := s.db.Query(ctx, `
		SELECT session_id, user_id, title, created_at, updated_at
		FROM chat_sessions
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.ChatSession
	for rows.Next() {
		var session models.ChatSession
		if err := rows.Scan(&session.SessionID, &session.UserID, &session.Title, &session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

// AppendTurn records one turn and bumps the session's activity timestamp
func (s *Store) AppendTurn(ctx context.Context, sessionID, role, content string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO chat_messages (session_id, role, content)
		VALUES ($1, $2, $3)
	`, sessionID, role, content); err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE chat_sessions SET updated_at = now() WHERE session_id = $1
	`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return tx.Commit(ctx)
}

// Messages returns a session's turns in chronological order, enforcing
// ownership
func (s *Store) Messages(ctx context.Context, sessionID, userID string) ([]models.ChatMessage, error) {
	if _, err := s.GetSession(ctx, sessionID, userID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT message_id, session_id, role, content, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY created_at
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.MessageID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}

// DeleteSession removes a session and its messages, enforcing ownership
func (s *Store) DeleteSession(ctx context.Context, sessionID, userID string) error {
	if _, err := s.GetSession(ctx, sessionID, userID); err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx, `
		DELETE FROM chat_sessions WHERE session_id = $1
	`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
