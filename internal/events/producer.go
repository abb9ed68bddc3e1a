package events

import (
	"context"
	"sync"

	"github.com/segmentio/kafka-go"

	"github.com/aftab707/LegalAdvisor/internal/config"
)

// Producer defines the interface for Kafka message production
type Producer interface {
	Send(ctx context.Context, key []byte, value []byte) error
	Close() error
}

// kafkaProducer implements the Producer interface
type kafkaProducer struct {
	writer *kafka.Writer
	mu     sync.Mutex
	closed bool
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg config.KafkaConfig) (Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrInvalidBrokers
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Compression:  kafka.Gzip,
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.Timeout,
	}

	return &kafkaProducer{
		writer: writer,
	}, nil
}

// Send sends a message to the configured topic
func (p *kafkaProducer) Send(ctx context.Context, key []byte, value []byte) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrProducerClosed
	}
	p.mu.Unlock()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
	})
}

// Close closes the producer
func (p *kafkaProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true
	return p.writer.Close()
}
