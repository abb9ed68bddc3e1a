package config

import (
	"fmt"
	"strings"
)

// Validate performs validation of the configuration
func (c *Config) Validate() error {
	if err := c.validateGraph(); err != nil {
		return fmt.Errorf("graph config error: %v", err)
	}

	if err := c.validateRetrieval(); err != nil {
		return fmt.Errorf("retrieval config error: %v", err)
	}

	if err := c.validateKafka(); err != nil {
		return fmt.Errorf("kafka config error: %v", err)
	}

	if err := c.validateAPI(); err != nil {
		return fmt.Errorf("api config error: %v", err)
	}

	return nil
}

func (c *Config) validateGraph() error {
	switch c.Graph.Backend {
	case "neo4j":
		if c.Graph.URI == "" {
			return fmt.Errorf("uri is required")
		}
	case "pgvector":
		if c.Graph.PostgresDSN == "" {
			return fmt.Errorf("postgres_dsn is required for the pgvector backend")
		}
	default:
		return fmt.Errorf("unknown backend: %s", c.Graph.Backend)
	}

	if c.Graph.IndexName == "" {
		return fmt.Errorf("index_name is required")
	}

	if c.Graph.Dimensions <= 0 {
		return fmt.Errorf("dimensions must be positive")
	}

	return nil
}

func (c *Config) validateRetrieval() error {
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("top_k must be positive")
	}

	if c.Retrieval.MaxContextPassages <= 0 {
		return fmt.Errorf("max_context_passages must be positive")
	}

	// The filter needs more candidates than it keeps.
	if c.Retrieval.TopK < c.Retrieval.MaxContextPassages {
		return fmt.Errorf("top_k (%d) must be >= max_context_passages (%d)",
			c.Retrieval.TopK, c.Retrieval.MaxContextPassages)
	}

	return nil
}

func (c *Config) validateKafka() error {
	// Kafka is optional: no brokers means event publishing is disabled.
	if len(c.Kafka.Brokers) == 0 {
		return nil
	}

	for _, broker := range c.Kafka.Brokers {
		if !strings.Contains(broker, ":") {
			return fmt.Errorf("invalid broker format: %s (expected host:port)", broker)
		}
	}

	if c.Kafka.Topic == "" {
		return fmt.Errorf("topic is required when brokers are configured")
	}

	return nil
}

func (c *Config) validateAPI() error {
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.API.Port)
	}

	return nil
}
