package advisor

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aftab707/LegalAdvisor/internal/retrieval"
	"github.com/aftab707/LegalAdvisor/pkg/models"
)

// Embedder converts a question into a query vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SearchStore retrieves passages by vector similarity
type SearchStore interface {
	SimilaritySearch(ctx context.Context, vector []float32, k int) ([]models.Passage, error)
	Probe(ctx context.Context) models.ProbeResult
}

// Generator produces an answer from context and question
type Generator interface {
	Generate(ctx context.Context, contextText, question string) (string, error)
}

// ServiceConfig tunes the retrieval pipeline
type ServiceConfig struct {
	// TopK is how many candidates retrieval hands to the filter. It must
	// comfortably exceed MaxContextPassages so filtering has room to
	// reject noise.
	TopK                 int
	MaxContextPassages   int
	SourcePreviewLen     int
	SuggestionPreviewLen int
	DefaultSuggestionK   int
}

// DefaultServiceConfig returns the default pipeline tuning
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		TopK:                 25,
		MaxContextPassages:   retrieval.DefaultMaxKeep,
		SourcePreviewLen:     200,
		SuggestionPreviewLen: 150,
		DefaultSuggestionK:   4,
	}
}

// Service is the query orchestrator: one instance is constructed at
// process start and shared by all requests. It holds no per-request
// state; the injected clients must be safe for concurrent use.
type Service struct {
	embedder  Embedder
	store     SearchStore
	generator Generator
	filter    *retrieval.PassageFilter
	config    ServiceConfig
}

// NewService creates the orchestrator over its injected dependencies
func NewService(cfg ServiceConfig, embedder Embedder, store SearchStore, generator Generator) *Service {
	if cfg.TopK <= 0 {
		cfg = DefaultServiceConfig()
	}

	return &Service{
		embedder:  embedder,
		store:     store,
		generator: generator,
		filter:    retrieval.NewPassageFilter(retrieval.NewListingNoiseDetector(), cfg.MaxContextPassages),
		config:    cfg,
	}
}

// Answer runs the full pipeline for one question: embed, retrieve,
// filter, assemble, generate. An empty question returns
// ErrInvalidRequest with no downstream calls. Infrastructure failures
// never escape as errors; they come back as a Success=false result with
// a human-readable answer.
func (s *Service) Answer(ctx context.Context, question string) (models.QueryResult, error) {
	if strings.TrimSpace(question) == "" {
		return models.QueryResult{}, ErrInvalidRequest
	}

	log.Printf("Processing query: %s", preview(question, 80))

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return s.failure(fmt.Errorf("%w: %v", ErrEmbedding, err)), nil
	}

	candidates, err := s.store.SimilaritySearch(ctx, vector, s.config.TopK)
	if err != nil {
		return s.failure(fmt.Errorf("%w: %v", ErrStoreUnavailable, err)), nil
	}
	log.Printf("Retrieved %d candidate passages", len(candidates))

	used := s.filter.Filter(candidates)
	contextText := retrieval.AssembleContext(used)

	answerText, err := s.generator.Generate(ctx, contextText, question)
	if err != nil {
		return s.failure(fmt.Errorf("%w: %v", ErrGeneration, err)), nil
	}

	// Sources are exactly the passages that went into the context, in
	// the same order; truncation here is cosmetic only.
	sources := make([]models.Source, len(used))
	for i, p := range used {
		sources[i] = models.Source{
			Content:  preview(p.Text, s.config.SourcePreviewLen),
			Metadata: p.Metadata,
			Page:     p.Page(),
		}
	}

	return models.QueryResult{
		Answer:     answerText,
		Sources:    sources,
		Success:    true,
		NumSources: len(sources),
	}, nil
}

// SimilarPassages returns raw top-k passage previews for lightweight
// related-topics use. It bypasses the filter and the generator.
func (s *Service) SimilarPassages(ctx context.Context, question string, k int) ([]string, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrInvalidRequest
	}
	if k <= 0 {
		k = s.config.DefaultSuggestionK
	}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}

	passages, err := s.store.SimilaritySearch(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	suggestions := make([]string, len(passages))
	for i, p := range passages {
		suggestions[i] = preview(p.Text, s.config.SuggestionPreviewLen)
	}

	return suggestions, nil
}

// Health reports live index state via the store probe
func (s *Service) Health(ctx context.Context) models.ProbeResult {
	return s.store.Probe(ctx)
}

func (s *Service) failure(err error) models.QueryResult {
	log.Printf("Error processing query: %v", err)
	return models.QueryResult{
		Answer:  fmt.Sprintf("An error occurred while processing your question: %v", err),
		Sources: []models.Source{},
		Success: false,
		Error:   err.Error(),
	}
}

// preview truncates for display without splitting multi-byte runes
func preview(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
