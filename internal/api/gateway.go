package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/aftab707/LegalAdvisor/internal/config"
	"github.com/aftab707/LegalAdvisor/pkg/models"
)

// AdvisorService is the query pipeline the gateway fronts
type AdvisorService interface {
	Answer(ctx context.Context, question string) (models.QueryResult, error)
	SimilarPassages(ctx context.Context, question string, k int) ([]string, error)
	Health(ctx context.Context) models.ProbeResult
}

// HistoryStore persists conversation turns. Nil disables history.
type HistoryStore interface {
	CreateSession(ctx context.Context, userID, title string) (models.ChatSession, error)
	GetSession(ctx context.Context, sessionID, userID string) (models.ChatSession, error)
	ListSessions(ctx context.Context, userID string) ([]models.ChatSession, error)
	AppendTurn(ctx context.Context, sessionID, role, content string) error
	Messages(ctx context.Context, sessionID, userID string) ([]models.ChatMessage, error)
	DeleteSession(ctx context.Context, sessionID, userID string) error
}

// EventPublisher emits best-effort analytics events
type EventPublisher interface {
	PublishQueryEvent(ctx context.Context, event models.QueryEvent)
}

// Gateway is the HTTP front of the service
type Gateway struct {
	server  *http.Server
	router  *mux.Router
	advisor AdvisorService
	history HistoryStore
	events  EventPublisher
	config  config.APIConfig
}

// NewGateway creates the HTTP gateway over its injected dependencies
func NewGateway(cfg config.APIConfig, advisor AdvisorService, history HistoryStore, events EventPublisher) *Gateway {
	router := mux.NewRouter().StrictSlash(true)

	gateway := &Gateway{
		router:  router,
		advisor: advisor,
		history: history,
		events:  events,
		config:  cfg,
	}

	gateway.setupRoutes()

	var handler http.Handler = router
	if cfg.EnableCORS {
		c := cors.New(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		})
		handler = c.Handler(router)
	}

	gateway.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return gateway
}

// setupRoutes configures all API routes
func (g *Gateway) setupRoutes() {
	api := g.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/query/", g.handleQuery).Methods("POST")
	api.HandleFunc("/suggestions/", g.handleSuggestions).Methods("POST")
	api.HandleFunc("/health/", g.handleHealth).Methods("GET")

	api.HandleFunc("/history/", g.handleListSessions).Methods("GET")
	api.HandleFunc("/history/{session_id}/", g.handleSessionMessages).Methods("GET")
	api.HandleFunc("/history/{session_id}/delete/", g.handleDeleteSession).Methods("DELETE")
}

// Handler exposes the routed handler, mainly for tests
func (g *Gateway) Handler() http.Handler {
	return g.server.Handler
}

// Start starts the HTTP server
func (g *Gateway) Start() error {
	log.Printf("Starting API gateway on %s", g.server.Addr)
	return g.server.ListenAndServe()
}

// Stop shuts the server down gracefully
func (g *Gateway) Stop(ctx context.Context) error {
	log.Printf("Stopping API gateway")
	return g.server.Shutdown(ctx)
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	body := map[string]interface{}{"error": message}
	if details != "" {
		body["details"] = details
	}
	writeJSON(w, status, body)
}

func parseRequestBody(r *http.Request, target interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
