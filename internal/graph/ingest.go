package graph

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/aftab707/LegalAdvisor/pkg/models"
)

// Ingestion writes. Every upsert MERGEs on the node's natural key, so
// re-running ingestion over the same corpus refreshes attributes without
// duplicating nodes. Clause and SubClause keys are composite: clause
// numbers repeat across articles, so the owning article title is part of
// the key.

// UpsertPart creates or refreshes a Part node
func (s *Neo4jStore) UpsertPart(ctx context.Context, name string, page *int) error {
	return s.write(ctx, `
		MERGE (p:Part {name: $name})
		SET p.page = $page
	`, map[string]interface{}{"name": name, "page": nilableInt(page)})
}

// UpsertChapter creates or refreshes a Chapter node and its ownership
// edge from the containing Part
func (s *Neo4jStore) UpsertChapter(ctx context.Context, name, title string, page *int, partName string) error {
	return s.write(ctx, `
		MERGE (c:Chapter {name: $name})
		SET c.title = $title, c.page = $page
		WITH c
		MATCH (p:Part {name: $part})
		MERGE (p)-[:HAS_CHAPTER]->(c)
	`, map[string]interface{}{
		"name":  name,
		"title": title,
		"page":  nilableInt(page),
		"part":  partName,
	})
}

// UpsertArticle creates or refreshes an Article node under its Chapter
func (s *Neo4jStore) UpsertArticle(ctx context.Context, title string, page *int, chapterName string) error {
	return s.write(ctx, `
		MERGE (a:Article {title: $title})
		SET a.page = $page
		WITH a
		MATCH (c:Chapter {name: $chapter})
		MERGE (c)-[:HAS_ARTICLE]->(a)
	`, map[string]interface{}{
		"title":   title,
		"page":    nilableInt(page),
		"chapter": chapterName,
	})
}

// UpsertClause creates or refreshes a Clause node, keyed by
// (number, article_title)
func (s *Neo4jStore) UpsertClause(ctx context.Context, number, text, articleTitle string) error {
	return s.write(ctx, `
		MERGE (cl:Clause {number: $num, article_title: $article})
		SET cl.text = $text
		WITH cl
		MATCH (a:Article {title: $article})
		MERGE (a)-[:HAS_CLAUSE]->(cl)
	`, map[string]interface{}{
		"num":     number,
		"text":    text,
		"article": articleTitle,
	})
}

// UpsertSubClause creates or refreshes a SubClause node, keyed by
// (number, clause_number, article_title)
func (s *Neo4jStore) UpsertSubClause(ctx context.Context, number, text, clauseNumber, articleTitle string) error {
	return s.write(ctx, `
		MERGE (sc:SubClause {number: $num, clause_number: $clause, article_title: $article})
		SET sc.text = $text
		WITH sc
		MATCH (cl:Clause {number: $clause, article_title: $article})
		MERGE (cl)-[:HAS_SUBCLAUSE]->(sc)
	`, map[string]interface{}{
		"num":     number,
		"text":    text,
		"clause":  clauseNumber,
		"article": articleTitle,
	})
}

// BackfillEmbeddings computes a vector for every text-bearing node from
// that node's own text (falling back to title for title-only nodes) and
// stores it on the node. Runs after graph construction; re-runnable when
// the embedding model changes without touching topology.
func (s *Neo4jStore) BackfillEmbeddings(ctx context.Context, embed func(ctx context.Context, text string) ([]float32, error)) (int, error) {
	embedded := 0

	for _, label := range []string{models.LabelClause, models.LabelSubClause, models.LabelArticle} {
		session := s.driver.NewSession(ctx, neo4j.SessionConfig{
			AccessMode:   neo4j.AccessModeRead,
			DatabaseName: s.config.Database,
		})

		query := fmt.Sprintf("MATCH (n:%s) RETURN elementId(n) AS id, n.text AS text, n.title AS title", label)
		result, err := session.Run(ctx, query, nil)
		if err != nil {
			session.Close(ctx)
			return embedded, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}

		type nodeText struct {
			id   string
			text string
		}
		var nodes []nodeText

		for result.Next(ctx) {
			record := result.Record().AsMap()
			id, _ := record["id"].(string)
			text, _ := record["text"].(string)
			if text == "" {
				text, _ = record["title"].(string)
			}
			if strings.TrimSpace(text) == "" {
				continue
			}
			nodes = append(nodes, nodeText{id: id, text: text})
		}
		err = result.Err()
		session.Close(ctx)
		if err != nil {
			return embedded, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}

		for _, n := range nodes {
			vector, err := embed(ctx, n.text)
			if err != nil {
				log.Printf("Failed to embed %s node %s: %v", label, n.id, err)
				continue
			}

			err = s.write(ctx, `
				MATCH (n) WHERE elementId(n) = $id
				SET n.embedding = $vec
			`, map[string]interface{}{
				"id":  n.id,
				"vec": float32sToFloat64s(vector),
			})
			if err != nil {
				return embedded, err
			}
			embedded++
		}

		log.Printf("Embedded %s nodes (%d total so far)", label, embedded)
	}

	return embedded, nil
}

// EnsureVectorIndex creates the vector index the similarity search
// depends on. Index name, label, property, dimension and metric must all
// agree with the search side or queries silently return nothing.
func (s *Neo4jStore) EnsureVectorIndex(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE VECTOR INDEX %s IF NOT EXISTS
		FOR (n:Clause)
		ON (n.embedding)
		OPTIONS {indexConfig: {
			`+"`vector.dimensions`"+`: %d,
			`+"`vector.similarity_function`"+`: 'cosine'
		}}
	`, s.config.IndexName, s.config.Dimensions)

	if err := s.write(ctx, query, nil); err != nil {
		return fmt.Errorf("failed to create vector index %s: %w", s.config.IndexName, err)
	}

	return nil
}

func (s *Neo4jStore) write(ctx context.Context, query string, params map[string]interface{}) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.config.Database,
	})
	defer session.Close(ctx)

	if _, err := session.Run(ctx, query, params); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return nil
}

func nilableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
