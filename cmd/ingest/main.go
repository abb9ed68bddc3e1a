package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/aftab707/LegalAdvisor/internal/config"
	"github.com/aftab707/LegalAdvisor/internal/embedding"
	"github.com/aftab707/LegalAdvisor/internal/graph"
	"github.com/aftab707/LegalAdvisor/pkg/models"
)

func main() {
	var (
		configFile = flag.String("config", "config/config.yaml", "Configuration file path")
		corpusFile = flag.String("file", "data/PEC.json", "Corpus JSON file to ingest")
	)
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	parts, err := loadCorpus(*corpusFile)
	if err != nil {
		log.Fatalf("Failed to load corpus file: %v", err)
	}
	log.Printf("Loaded %d parts from %s", len(parts), *corpusFile)

	ctx := context.Background()
	embedder := embedding.NewOpenAIEmbedder(cfg.Embedding)

	if cfg.Graph.Backend == "pgvector" {
		if err := ingestPgVector(ctx, cfg, embedder, parts); err != nil {
			log.Fatalf("Ingestion failed: %v", err)
		}
		return
	}

	if err := ingestNeo4j(ctx, cfg, embedder, parts); err != nil {
		log.Fatalf("Ingestion failed: %v", err)
	}
}

// loadCorpus reads the source document JSON. The file holds either a
// list of parts or a single part object.
func loadCorpus(path string) ([]models.CorpusPart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var parts []models.CorpusPart
	if err := json.Unmarshal(data, &parts); err == nil {
		return parts, nil
	}

	var part models.CorpusPart
	if err := json.Unmarshal(data, &part); err != nil {
		return nil, err
	}
	return []models.CorpusPart{part}, nil
}

// ingestNeo4j builds the document hierarchy in the graph, then embeds
// every text-bearing node and creates the vector index. Re-running is
// idempotent: every upsert keys on natural identifiers.
func ingestNeo4j(ctx context.Context, cfg *config.Config, embedder *embedding.OpenAIEmbedder, parts []models.CorpusPart) error {
	store, err := graph.NewNeo4jStore(graph.GraphConfig{
		URI:         cfg.Graph.URI,
		Database:    cfg.Graph.Database,
		Username:    cfg.Graph.Username,
		Password:    cfg.Graph.Password,
		IndexName:   cfg.Graph.IndexName,
		Dimensions:  cfg.Graph.Dimensions,
		MaxPoolSize: cfg.Graph.MaxPoolSize,
		ConnTimeout: cfg.Graph.ConnTimeout,
	})
	if err != nil {
		return fmt.Errorf("connecting to graph store: %w", err)
	}
	defer store.Close()

	if err := upsertHierarchy(ctx, store, parts); err != nil {
		return err
	}

	log.Printf("Backfilling embeddings...")
	count, err := store.BackfillEmbeddings(ctx, embedder.Embed)
	if err != nil {
		return fmt.Errorf("backfilling embeddings: %w", err)
	}
	log.Printf("Embedded %d nodes", count)

	if err := store.EnsureVectorIndex(ctx); err != nil {
		return fmt.Errorf("creating vector index: %w", err)
	}
	log.Printf("Vector index %q ready", cfg.Graph.IndexName)

	return nil
}

func upsertHierarchy(ctx context.Context, store graph.CorpusWriter, parts []models.CorpusPart) error {
	var articles, clauses, subClauses int

	for _, part := range parts {
		if err := store.UpsertPart(ctx, part.PartName, part.PartPage); err != nil {
			return fmt.Errorf("upserting part %q: %w", part.PartName, err)
		}

		for chapterName, chapter := range part.Chapters {
			if err := store.UpsertChapter(ctx, chapterName, chapter.ChapterTitle, chapter.ChapterPage, part.PartName); err != nil {
				return fmt.Errorf("upserting chapter %q: %w", chapterName, err)
			}

			for _, article := range chapter.Articles {
				if err := store.UpsertArticle(ctx, article.Title, article.Page, chapterName); err != nil {
					return fmt.Errorf("upserting article %q: %w", article.Title, err)
				}
				articles++

				for _, clause := range article.Content.Clauses {
					if err := store.UpsertClause(ctx, clause.ClauseNumber, clause.ClauseText, article.Title); err != nil {
						return fmt.Errorf("upserting clause %s of %q: %w", clause.ClauseNumber, article.Title, err)
					}
					clauses++

					for _, sub := range clause.SubClauses {
						// Some sub-clause entries in the source JSON
						// carry a number but no text. They add nothing
						// to retrieval.
						if strings.TrimSpace(sub.SubClauseText) == "" {
							continue
						}
						if err := store.UpsertSubClause(ctx, sub.SubClauseNumber, sub.SubClauseText, clause.ClauseNumber, article.Title); err != nil {
							return fmt.Errorf("upserting sub-clause %s of clause %s: %w", sub.SubClauseNumber, clause.ClauseNumber, err)
						}
						subClauses++
					}
				}
			}
		}
	}

	log.Printf("Upserted %d articles, %d clauses, %d sub-clauses", articles, clauses, subClauses)
	return nil
}

// ingestPgVector flattens the hierarchy into one row per text-bearing
// node, embedding each text as it goes.
func ingestPgVector(ctx context.Context, cfg *config.Config, embedder *embedding.OpenAIEmbedder, parts []models.CorpusPart) error {
	store, err := graph.NewPgVectorStore(ctx, cfg.Graph.PostgresDSN, cfg.Graph.Dimensions)
	if err != nil {
		return fmt.Errorf("connecting to pgvector store: %w", err)
	}
	defer store.Close()

	var count int
	upsert := func(naturalKey, label, title, number, articleTitle, text string, page *int) error {
		vector, err := embedder.Embed(ctx, text)
		if err != nil {
			log.Printf("Skipping %s: embedding failed: %v", naturalKey, err)
			return nil
		}
		if err := store.UpsertPassage(ctx, naturalKey, label, title, number, articleTitle, text, page, vector); err != nil {
			return fmt.Errorf("upserting %s: %w", naturalKey, err)
		}
		count++
		return nil
	}

	for _, part := range parts {
		for _, chapter := range part.Chapters {
			for _, article := range chapter.Articles {
				key := fmt.Sprintf("article|%s", article.Title)
				if err := upsert(key, models.LabelArticle, article.Title, "", article.Title, article.Title, article.Page); err != nil {
					return err
				}

				for _, clause := range article.Content.Clauses {
					key := fmt.Sprintf("clause|%s|%s", article.Title, clause.ClauseNumber)
					if err := upsert(key, models.LabelClause, "", clause.ClauseNumber, article.Title, clause.ClauseText, article.Page); err != nil {
						return err
					}

					for _, sub := range clause.SubClauses {
						if strings.TrimSpace(sub.SubClauseText) == "" {
							continue
						}
						key := fmt.Sprintf("subclause|%s|%s|%s", article.Title, clause.ClauseNumber, sub.SubClauseNumber)
						if err := upsert(key, models.LabelSubClause, "", sub.SubClauseNumber, article.Title, sub.SubClauseText, article.Page); err != nil {
							return err
						}
					}
				}
			}
		}
	}

	log.Printf("Upserted %d passages", count)
	return nil
}
