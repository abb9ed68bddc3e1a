package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aftab707/LegalAdvisor/internal/advisor"
	"github.com/aftab707/LegalAdvisor/internal/answer"
	"github.com/aftab707/LegalAdvisor/internal/api"
	"github.com/aftab707/LegalAdvisor/internal/config"
	"github.com/aftab707/LegalAdvisor/internal/embedding"
	"github.com/aftab707/LegalAdvisor/internal/events"
	"github.com/aftab707/LegalAdvisor/internal/graph"
	"github.com/aftab707/LegalAdvisor/internal/history"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	var (
		configFile  = flag.String("config", "config/config.yaml", "Configuration file path")
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
	)
	flag.Parse()

	if *showHelp {
		printHelp()
		return
	}

	if *showVersion {
		printVersion()
		return
	}

	log.Printf("Starting LegalAdvisor v%s (commit: %s, built: %s)", version, commit, date)

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Corpus store
	store, err := newSearchStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize corpus store: %v", err)
	}
	defer store.Close()

	// Pipeline
	embedder := embedding.NewOpenAIEmbedder(cfg.Embedding)
	generator := answer.NewGenerator(cfg.LLM)
	service := advisor.NewService(advisor.ServiceConfig{
		TopK:                 cfg.Retrieval.TopK,
		MaxContextPassages:   cfg.Retrieval.MaxContextPassages,
		SourcePreviewLen:     cfg.Retrieval.SourcePreviewLen,
		SuggestionPreviewLen: cfg.Retrieval.SuggestionPreviewLen,
		DefaultSuggestionK:   cfg.Retrieval.DefaultSuggestionK,
	}, embedder, store, generator)

	// Chat history is optional: without a DSN the history endpoints
	// report 501 and query answers are simply not persisted.
	var historyStore api.HistoryStore
	if cfg.History.PostgresDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.History.PostgresDSN)
		if err != nil {
			log.Fatalf("Failed to connect to history database: %v", err)
		}
		defer pool.Close()

		hs := history.NewStore(pool)
		if err := hs.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure history schema: %v", err)
		}
		historyStore = hs
		log.Printf("Chat history enabled")
	}

	// Analytics events are optional and always best effort.
	publisher := events.Publisher(events.NoopPublisher{})
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := events.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatalf("Failed to initialize event producer: %v", err)
		}
		publisher = events.NewPublisher(producer)
		log.Printf("Analytics events enabled on topic %s", cfg.Kafka.Topic)
	}
	defer publisher.Close()

	gateway := api.NewGateway(cfg.API, service, historyStore, publisher)

	go func() {
		if err := gateway.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("API gateway failed: %v", err)
		}
	}()

	waitForShutdown(cancel, gateway)
}

func newSearchStore(ctx context.Context, cfg *config.Config) (graph.SearchStore, error) {
	if cfg.Graph.Backend == "pgvector" {
		return graph.NewPgVectorStore(ctx, cfg.Graph.PostgresDSN, cfg.Graph.Dimensions)
	}

	return graph.NewNeo4jStore(graph.GraphConfig{
		URI:         cfg.Graph.URI,
		Database:    cfg.Graph.Database,
		Username:    cfg.Graph.Username,
		Password:    cfg.Graph.Password,
		IndexName:   cfg.Graph.IndexName,
		Dimensions:  cfg.Graph.Dimensions,
		MaxPoolSize: cfg.Graph.MaxPoolSize,
		ConnTimeout: cfg.Graph.ConnTimeout,
	})
}

func waitForShutdown(cancel context.CancelFunc, gateway *api.Gateway) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := gateway.Stop(shutdownCtx); err != nil {
		log.Printf("Error during gateway shutdown: %v", err)
	}

	cancel()
	log.Println("LegalAdvisor stopped")
}

func printHelp() {
	fmt.Printf(`LegalAdvisor - Retrieval-augmented legal question answering

Usage:
  legaladvisor [flags]

Flags:
  -config string
        Configuration file path (default "config/config.yaml")
  -version
        Show version information
  -help
        Show this help message

Examples:
  legaladvisor                                  # Start with default config
  legaladvisor -config config/production.yaml   # Start with production config
  legaladvisor -version                         # Show version
`)
}

func printVersion() {
	fmt.Printf("LegalAdvisor version %s\n", version)
	fmt.Printf("Commit: %s\n", commit)
	fmt.Printf("Built: %s\n", date)
}
