package graph

import (
	"context"
	"time"

	"github.com/aftab707/LegalAdvisor/pkg/models"
)

// SearchStore defines retrieval operations over the indexed corpus
type SearchStore interface {
	// SimilaritySearch returns up to k passages nearest to the query
	// vector, best match first. An empty corpus yields an empty slice,
	// not an error.
	SimilaritySearch(ctx context.Context, vector []float32, k int) ([]models.Passage, error)

	// Probe reports whether the index is reachable and holds documents.
	// It is a real k=1 similarity search against the live index, so the
	// result reflects true index state. Probe never returns an error;
	// failures appear in the result.
	Probe(ctx context.Context) models.ProbeResult

	Close() error
}

// CorpusWriter defines the ingestion operations that build the corpus.
// All upserts key on natural identifiers so re-running ingestion is
// idempotent.
type CorpusWriter interface {
	UpsertPart(ctx context.Context, name string, page *int) error
	UpsertChapter(ctx context.Context, name, title string, page *int, partName string) error
	UpsertArticle(ctx context.Context, title string, page *int, chapterName string) error
	UpsertClause(ctx context.Context, number, text, articleTitle string) error
	UpsertSubClause(ctx context.Context, number, text, clauseNumber, articleTitle string) error

	// BackfillEmbeddings computes and stores a vector for every
	// text-bearing node that participates in retrieval, using each
	// node's own text only. Returns the number of nodes embedded.
	BackfillEmbeddings(ctx context.Context, embed func(ctx context.Context, text string) ([]float32, error)) (int, error)

	// EnsureVectorIndex creates the named vector index if it does not
	// exist. Search silently returns nothing until this has run.
	EnsureVectorIndex(ctx context.Context) error
}

// GraphConfig represents corpus store configuration
type GraphConfig struct {
	URI         string        `yaml:"uri"`
	Database    string        `yaml:"database"`
	Username    string        `yaml:"username"`
	Password    string        `yaml:"password"`
	IndexName   string        `yaml:"index_name"`
	Dimensions  int           `yaml:"dimensions"`
	MaxPoolSize int           `yaml:"max_pool_size"`
	ConnTimeout time.Duration `yaml:"conn_timeout"`
}

// DefaultGraphConfig returns default corpus store configuration
func DefaultGraphConfig() GraphConfig {
	return GraphConfig{
		URI:         "bolt://localhost:7687",
		Database:    "neo4j",
		IndexName:   "vector",
		Dimensions:  768,
		MaxPoolSize: 50,
		ConnTimeout: 30 * time.Second,
	}
}
