package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/aftab707/LegalAdvisor/pkg/models"
)

// Publisher emits analytics events. All publishing is best effort:
// failures are logged and swallowed so they can never affect a request.
type Publisher interface {
	PublishQueryEvent(ctx context.Context, event models.QueryEvent)
	Close() error
}

// kafkaPublisher publishes events through a Producer
type kafkaPublisher struct {
	producer Producer
}

// NewPublisher wraps a producer in the best-effort publishing policy
func NewPublisher(producer Producer) Publisher {
	return &kafkaPublisher{producer: producer}
}

func (p *kafkaPublisher) PublishQueryEvent(ctx context.Context, event models.QueryEvent) {
	value, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal query event: %v", err)
		return
	}

	if err := p.producer.Send(ctx, []byte(event.SessionID), value); err != nil {
		log.Printf("Failed to publish query event: %v", err)
	}
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher drops all events; used when Kafka is not configured
type NoopPublisher struct{}

func (NoopPublisher) PublishQueryEvent(ctx context.Context, event models.QueryEvent) {}

func (NoopPublisher) Close() error { return nil }
