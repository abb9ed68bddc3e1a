package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/aftab707/LegalAdvisor/internal/advisor"
	"github.com/aftab707/LegalAdvisor/internal/history"
	"github.com/aftab707/LegalAdvisor/pkg/models"
)

// userHeader carries the caller identity established by the external
// identity provider upstream of this service.
const userHeader = "X-User-ID"

const sessionTitleLen = 60

// Request/Response types

type QueryRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

type QueryResponse struct {
	SessionID  string          `json:"session_id,omitempty"`
	Title      string          `json:"title,omitempty"`
	Answer     string          `json:"answer"`
	Sources    []models.Source `json:"sources"`
	Success    bool            `json:"success"`
	NumSources int             `json:"num_sources"`
	Error      string          `json:"error,omitempty"`
}

type SuggestionsRequest struct {
	Question string `json:"question"`
	K        int    `json:"k,omitempty"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type HealthResponse struct {
	Status          string `json:"status"`
	Service         string `json:"service"`
	Neo4jConnected  bool   `json:"neo4j_connected"`
	DocumentsLoaded bool   `json:"documents_loaded"`
	Message         string `json:"message"`
}

type SessionListResponse struct {
	Sessions []models.ChatSession `json:"sessions"`
}

type SessionMessagesResponse struct {
	SessionID string               `json:"session_id"`
	Messages  []models.ChatMessage `json:"messages"`
}

// handleQuery runs one full retrieve-and-generate cycle
func (g *Gateway) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := parseRequestBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "Question is required", "")
		return
	}

	result, err := g.advisor.Answer(r.Context(), req.Question)
	if errors.Is(err, advisor.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, "Question is required", "")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}

	resp := QueryResponse{
		Answer:     result.Answer,
		Sources:    result.Sources,
		Success:    result.Success,
		NumSources: result.NumSources,
		Error:      result.Error,
	}
	if resp.Sources == nil {
		resp.Sources = []models.Source{}
	}

	resp.SessionID, resp.Title = g.recordTurns(r.Context(), r.Header.Get(userHeader), req, result)

	eventType := models.EventTypeQueryAnswered
	if !result.Success {
		eventType = models.EventTypeQueryFailed
	}
	g.events.PublishQueryEvent(r.Context(), models.NewQueryEvent(
		eventType, resp.SessionID, truncateTitle(req.Question), result.Success, result.NumSources))

	writeJSON(w, http.StatusOK, resp)
}

// recordTurns persists the exchange when a history store is configured
// and the caller is identified. A missing session id starts a new
// session titled after the question. Conversation history is write-only
// for the pipeline: it never feeds back into retrieval or generation.
func (g *Gateway) recordTurns(ctx context.Context, userID string, req QueryRequest, result models.QueryResult) (string, string) {
	if g.history == nil || userID == "" {
		return req.SessionID, ""
	}

	var session models.ChatSession
	var err error

	if req.SessionID != "" {
		session, err = g.history.GetSession(ctx, req.SessionID, userID)
		// An unknown session id, or one belonging to another user,
		// starts a fresh session rather than failing the query.
		if errors.Is(err, history.ErrSessionNotFound) || errors.Is(err, history.ErrNotOwner) {
			session, err = g.history.CreateSession(ctx, userID, truncateTitle(req.Question))
		}
	} else {
		session, err = g.history.CreateSession(ctx, userID, truncateTitle(req.Question))
	}
	if err != nil {
		log.Printf("Failed to resolve chat session: %v", err)
		return req.SessionID, ""
	}

	if session.SessionID != req.SessionID {
		g.events.PublishQueryEvent(ctx, models.NewQueryEvent(
			models.EventTypeSessionCreated, session.SessionID, truncateTitle(req.Question), true, 0))
	}

	if err := g.history.AppendTurn(ctx, session.SessionID, models.RoleUser, req.Question); err != nil {
		log.Printf("Failed to record user turn: %v", err)
	}
	if result.Success {
		if err := g.history.AppendTurn(ctx, session.SessionID, models.RoleAssistant, result.Answer); err != nil {
			log.Printf("Failed to record assistant turn: %v", err)
		}
	}

	return session.SessionID, session.Title
}

// handleSuggestions returns related passage previews
func (g *Gateway) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	var req SuggestionsRequest
	if err := parseRequestBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "Question is required", "")
		return
	}

	suggestions, err := g.advisor.SimilarPassages(r.Context(), req.Question, req.K)
	if errors.Is(err, advisor.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, "Question is required", "")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}

	if suggestions == nil {
		suggestions = []string{}
	}

	writeJSON(w, http.StatusOK, SuggestionsResponse{Suggestions: suggestions})
}

// handleHealth reports live index state
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	probe := g.advisor.Health(r.Context())

	resp := HealthResponse{
		Status:          "healthy",
		Service:         "Legal Advisor RAG API",
		Neo4jConnected:  probe.Reachable,
		DocumentsLoaded: probe.NonEmpty,
		Message:         probe.Message,
	}

	status := http.StatusOK
	if !probe.Reachable {
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}

// handleListSessions lists the caller's sessions, newest activity first
func (g *Gateway) handleListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := g.requireIdentity(w, r)
	if !ok {
		return
	}

	sessions, err := g.history.ListSessions(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions", err.Error())
		return
	}
	if sessions == nil {
		sessions = []models.ChatSession{}
	}

	writeJSON(w, http.StatusOK, SessionListResponse{Sessions: sessions})
}

// handleSessionMessages returns one session's turns in order
func (g *Gateway) handleSessionMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := g.requireIdentity(w, r)
	if !ok {
		return
	}

	sessionID := mux.Vars(r)["session_id"]
	messages, err := g.history.Messages(r.Context(), sessionID, userID)
	if err != nil {
		g.writeHistoryError(w, err)
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}

	writeJSON(w, http.StatusOK, SessionMessagesResponse{SessionID: sessionID, Messages: messages})
}

// handleDeleteSession deletes one of the caller's sessions
func (g *Gateway) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := g.requireIdentity(w, r)
	if !ok {
		return
	}

	sessionID := mux.Vars(r)["session_id"]
	if err := g.history.DeleteSession(r.Context(), sessionID, userID); err != nil {
		g.writeHistoryError(w, err)
		return
	}

	g.events.PublishQueryEvent(r.Context(), models.NewQueryEvent(
		models.EventTypeSessionDeleted, sessionID, "", true, 0))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Session deleted",
	})
}

func (g *Gateway) requireIdentity(w http.ResponseWriter, r *http.Request) (string, bool) {
	if g.history == nil {
		writeError(w, http.StatusNotImplemented, "Chat history is not configured", "")
		return "", false
	}

	userID := r.Header.Get(userHeader)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "Missing user identity", "")
		return "", false
	}

	return userID, true
}

func (g *Gateway) writeHistoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, history.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "Session not found", "")
	case errors.Is(err, history.ErrNotOwner):
		writeError(w, http.StatusForbidden, "Session belongs to another user", "")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}

func truncateTitle(question string) string {
	runes := []rune(strings.TrimSpace(question))
	if len(runes) <= sessionTitleLen {
		return string(runes)
	}
	return string(runes[:sessionTitleLen]) + "..."
}
