package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// writer is the subset of kafka.Writer the publisher needs; tests swap in a
// fake.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes lifecycle events to a single Kafka topic, keyed by
// shipment ID so events for one shipment stay ordered within a partition.
type KafkaPublisher struct {
	w writer
}

// NewKafkaPublisher connects a writer to the given broker and topic.
func NewKafkaPublisher(brokerURL, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:     kafka.TCP(brokerURL),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// NewKafkaPublisherWithWriter injects a writer directly. Tests use this.
func NewKafkaPublisherWithWriter(w writer) *KafkaPublisher {
	return &KafkaPublisher{w: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key, event string, payload interface{}) error {
	e := Event{
		ID:         uuid.New(),
		Event:      event,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
	bytes, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %v", event, err)
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: bytes,
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %v", event, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
