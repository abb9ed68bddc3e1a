package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration
type Config struct {
	Graph     GraphConfig     `yaml:"graph"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	History   HistoryConfig   `yaml:"history"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	API       APIConfig       `yaml:"api"`
}

// GraphConfig represents the corpus store configuration. Backend selects
// between the Neo4j graph store ("neo4j") and the pgvector store
// ("pgvector").
type GraphConfig struct {
	Backend     string        `yaml:"backend"`
	URI         string        `yaml:"uri"`
	Database    string        `yaml:"database"`
	Username    string        `yaml:"username"`
	Password    string        `yaml:"password"`
	IndexName   string        `yaml:"index_name"`
	Dimensions  int           `yaml:"dimensions"`
	MaxPoolSize int           `yaml:"max_pool_size"`
	ConnTimeout time.Duration `yaml:"conn_timeout"`
	PostgresDSN string        `yaml:"postgres_dsn"`
}

// EmbeddingConfig represents the embedding backend configuration
type EmbeddingConfig struct {
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	Model      string        `yaml:"model"`
	Dimensions int           `yaml:"dimensions"`
	Timeout    time.Duration `yaml:"timeout"`
}

// LLMConfig represents the answer generation backend configuration
type LLMConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	Temperature float32       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// RetrievalConfig tunes the retrieval pipeline
type RetrievalConfig struct {
	TopK                 int `yaml:"top_k"`
	MaxContextPassages   int `yaml:"max_context_passages"`
	SourcePreviewLen     int `yaml:"source_preview_len"`
	SuggestionPreviewLen int `yaml:"suggestion_preview_len"`
	DefaultSuggestionK   int `yaml:"default_suggestion_k"`
}

// HistoryConfig represents the chat history store configuration.
// An empty DSN disables history persistence.
type HistoryConfig struct {
	PostgresDSN string `yaml:"postgres_dsn"`
}

// KafkaConfig represents the analytics event producer configuration.
// An empty broker list disables event publishing.
type KafkaConfig struct {
	Brokers []string      `yaml:"brokers"`
	Topic   string        `yaml:"topic"`
	Timeout time.Duration `yaml:"timeout"`
}

// APIConfig represents HTTP gateway configuration
type APIConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	EnableCORS     bool          `yaml:"enable_cors"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// Load loads configuration from the given YAML file, then applies
// environment overrides for secrets and connection strings. A missing
// file is not an error: the defaults plus environment are enough to run.
func Load(path string) (*Config, error) {
	// Local development keeps secrets in a .env file.
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Graph: GraphConfig{
			Backend:     "neo4j",
			URI:         "bolt://localhost:7687",
			Database:    "neo4j",
			IndexName:   "vector",
			Dimensions:  768,
			MaxPoolSize: 50,
			ConnTimeout: 30 * time.Second,
		},
		Embedding: EmbeddingConfig{
			Model:      "text-embedding-3-small",
			Dimensions: 768,
			Timeout:    30 * time.Second,
		},
		LLM: LLMConfig{
			Model:       "llama-3.1-8b-instant",
			Temperature: 0.3,
			MaxTokens:   1024,
			Timeout:     60 * time.Second,
		},
		Retrieval: RetrievalConfig{
			TopK:                 25,
			MaxContextPassages:   5,
			SourcePreviewLen:     200,
			SuggestionPreviewLen: 150,
			DefaultSuggestionK:   4,
		},
		Kafka: KafkaConfig{
			Topic:   "legaladvisor.query.events",
			Timeout: 10 * time.Second,
		},
		API: APIConfig{
			Host:           "0.0.0.0",
			Port:           8000,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   120 * time.Second,
			IdleTimeout:    120 * time.Second,
			EnableCORS:     true,
			AllowedOrigins: []string{"*"},
		},
	}
}

// applyEnv overrides file values with environment variables. Environment
// wins so that deployments never need credentials in the YAML file.
func (c *Config) applyEnv() {
	if v := os.Getenv("NEO4J_URL"); v != "" {
		c.Graph.URI = v
	}
	if v := os.Getenv("NEO4J_USERNAME"); v != "" {
		c.Graph.Username = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		c.Graph.Password = v
	}
	if v := os.Getenv("NEO4J_DATABASE"); v != "" {
		c.Graph.Database = v
	}
	if v := os.Getenv("VECTOR_BACKEND"); v != "" {
		c.Graph.Backend = v
	}
	if v := os.Getenv("VECTOR_DATABASE_URL"); v != "" {
		c.Graph.PostgresDSN = v
	}
	if v := os.Getenv("EMBEDDING_BASE_URL"); v != "" {
		c.Embedding.BaseURL = v
	}
	if v := os.Getenv("EMBEDDING_API_KEY"); v != "" {
		c.Embedding.APIKey = v
	}
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		c.LLM.APIKey = v
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = "https://api.groq.com/openai/v1"
		}
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		if c.LLM.APIKey == "" {
			c.LLM.APIKey = v
		}
		if c.Embedding.APIKey == "" {
			c.Embedding.APIKey = v
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.History.PostgresDSN = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
}
