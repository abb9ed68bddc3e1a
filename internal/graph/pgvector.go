package graph

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/aftab707/LegalAdvisor/pkg/models"
)

// PgVectorStore implements SearchStore over Postgres with the pgvector
// extension, for deployments without a graph database. The hierarchy is
// flattened into one passage table; each row keeps its natural key so
// ingestion stays idempotent, and enough hierarchy columns to rebuild
// the same passage metadata the graph store returns.
type PgVectorStore struct {
	pool       *pgxpool.Pool
	dimensions int
}

const pgvectorSchema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS corpus_passages (
	id            BIGSERIAL PRIMARY KEY,
	natural_key   TEXT NOT NULL UNIQUE,
	label         TEXT NOT NULL,
	title         TEXT,
	number        TEXT,
	article_title TEXT,
	page          INTEGER,
	text          TEXT NOT NULL,
	embedding     vector(%d)
);
`

// NewPgVectorStore connects to Postgres and ensures the passage table
func NewPgVectorStore(ctx context.Context, dsn string, dimensions int) (*PgVectorStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	store := &PgVectorStore{pool: pool, dimensions: dimensions}

	if _, err := pool.Exec(ctx, fmt.Sprintf(pgvectorSchema, dimensions)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize passage schema: %w", err)
	}

	return store, nil
}

// SimilaritySearch returns the k nearest passages under cosine distance
func (s *PgVectorStore) SimilaritySearch(ctx context.Context, vector []float32, k int) ([]models.Passage, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}

	query := `
		SELECT text, label, title, number, article_title, page,
		       embedding <=> $1::vector AS distance
		FROM corpus_passages
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1::vector
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, pgvector.NewVector(vector).String(), k)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var passages []models.Passage
	for rows.Next() {
		var (
			text, label                 string
			title, number, articleTitle *string
			page                        *int
			distance                    float64
		)
		if err := rows.Scan(&text, &label, &title, &number, &articleTitle, &page, &distance); err != nil {
			return nil, fmt.Errorf("failed to scan passage: %w", err)
		}

		metadata := map[string]interface{}{"label": label}
		if title != nil {
			metadata["title"] = *title
		}
		if number != nil {
			metadata["number"] = *number
		}
		if articleTitle != nil {
			metadata["article_title"] = *articleTitle
		}
		if page != nil {
			metadata["page"] = *page
		}

		passages = append(passages, models.Passage{
			Text:     text,
			Metadata: metadata,
			// Cosine distance in [0,2]; report similarity so both
			// backends agree on "higher is better".
			Score: 1 - distance,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return passages, nil
}

// Probe checks store state with a minimal live similarity search
func (s *PgVectorStore) Probe(ctx context.Context) models.ProbeResult {
	probe := make([]float32, s.dimensions)
	probe[0] = 1

	passages, err := s.SimilaritySearch(ctx, probe, 1)
	if err != nil {
		return models.ProbeResult{
			Reachable: false,
			NonEmpty:  false,
			Message:   err.Error(),
		}
	}

	return models.ProbeResult{
		Reachable: true,
		NonEmpty:  len(passages) > 0,
		Message:   "Connection successful",
	}
}

// UpsertPassage inserts or refreshes one flattened passage row. The
// natural key mirrors the graph MERGE keys, e.g.
// "clause|Freedom of association|45" for clause 45 of that article.
func (s *PgVectorStore) UpsertPassage(ctx context.Context, naturalKey, label, title, number, articleTitle, text string, page *int, vector []float32) error {
	query := `
		INSERT INTO corpus_passages (natural_key, label, title, number, article_title, page, text, embedding)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8::vector)
		ON CONFLICT (natural_key) DO UPDATE SET
			title = EXCLUDED.title,
			number = EXCLUDED.number,
			article_title = EXCLUDED.article_title,
			page = EXCLUDED.page,
			text = EXCLUDED.text,
			embedding = EXCLUDED.embedding
	`

	var embedding interface{}
	if len(vector) > 0 {
		embedding = pgvector.NewVector(vector).String()
	}

	if _, err := s.pool.Exec(ctx, query, naturalKey, label, title, number, articleTitle, page, text, embedding); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return nil
}

// Close releases the connection pool
func (s *PgVectorStore) Close() error {
	s.pool.Close()
	return nil
}
