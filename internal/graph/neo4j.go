package graph

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/aftab707/LegalAdvisor/pkg/models"
)

// Neo4jStore implements SearchStore and CorpusWriter over a Neo4j graph
// holding the legal document hierarchy and its vector index.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
	config GraphConfig
}

// NewNeo4jStore creates a new Neo4j corpus store
func NewNeo4jStore(cfg GraphConfig) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
		func(c *neo4j.Config) {
			c.MaxConnectionPoolSize = cfg.MaxPoolSize
			c.MaxConnectionLifetime = time.Hour
			c.ConnectionAcquisitionTimeout = cfg.ConnTimeout
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	store := &Neo4jStore{
		driver: driver,
		config: cfg,
	}

	if err := store.initializeSchema(ctx); err != nil {
		log.Printf("Warning: failed to initialize schema: %v", err)
	}

	return store, nil
}

// initializeSchema creates the uniqueness constraints for the corpus
// hierarchy. Part, Chapter and Article key on a single property; Clause
// and SubClause use composite natural keys enforced by the MERGE patterns
// in the upserts, since composite constraints are an enterprise feature.
func (s *Neo4jStore) initializeSchema(ctx context.Context) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.config.Database,
	})
	defer session.Close(ctx)

	constraints := []struct {
		name     string
		label    string
		property string
	}{
		{"part_name_unique", models.LabelPart, "name"},
		{"chapter_name_unique", models.LabelChapter, "name"},
		{"article_title_unique", models.LabelArticle, "title"},
	}

	for _, c := range constraints {
		query := fmt.Sprintf("CREATE CONSTRAINT %s IF NOT EXISTS FOR (n:%s) REQUIRE n.%s IS UNIQUE",
			c.name, c.label, c.property)

		if _, err := session.Run(ctx, query, nil); err != nil {
			return fmt.Errorf("failed to create constraint %s: %w", c.name, err)
		}
	}

	return nil
}

// SimilaritySearch queries the vector index for the k nearest passages
func (s *Neo4jStore) SimilaritySearch(ctx context.Context, vector []float32, k int) ([]models.Passage, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.config.Database,
	})
	defer session.Close(ctx)

	query := `
		CALL db.index.vector.queryNodes($index, $k, $vector)
		YIELD node, score
		RETURN coalesce(node.text, node.title) AS text,
		       node.title AS title,
		       node.number AS number,
		       node.article_title AS articleTitle,
		       node.page AS page,
		       labels(node) AS labels,
		       score
	`

	params := map[string]interface{}{
		"index":  s.config.IndexName,
		"k":      k,
		"vector": float32sToFloat64s(vector),
	}

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var passages []models.Passage
	for result.Next(ctx) {
		record := result.Record().AsMap()

		text, _ := record["text"].(string)
		if text == "" {
			continue
		}

		passages = append(passages, models.Passage{
			Text:     text,
			Metadata: passageMetadata(record),
			Score:    asFloat64(record["score"]),
		})
	}

	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return passages, nil
}

// Probe checks index state with a minimal live similarity search
func (s *Neo4jStore) Probe(ctx context.Context) models.ProbeResult {
	// A unit vector of the configured dimension; the match quality is
	// irrelevant, only whether the index answers at all.
	probe := make([]float32, s.config.Dimensions)
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

// Close closes the underlying driver
func (s *Neo4jStore) Close() error {
	return s.driver.Close(context.Background())
}

// passageMetadata assembles the metadata map from the fields a search
// record carries, skipping absent ones.
func passageMetadata(record map[string]interface{}) map[string]interface{} {
	metadata := make(map[string]interface{})

	if labels, ok := record["labels"].([]interface{}); ok && len(labels) > 0 {
		metadata["label"] = labels[0]
	}
	for _, key := range []struct{ from, to string }{
		{"title", "title"},
		{"number", "number"},
		{"articleTitle", "article_title"},
		{"page", "page"},
	} {
		if v, ok := record[key.from]; ok && v != nil {
			metadata[key.to] = v
		}
	}

	return metadata
}

func float32sToFloat64s(vector []float32) []float64 {
	out := make([]float64, len(vector))
	for i, v := range vector {
		out[i] = float64(v)
	}
	return out
}

func asFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
