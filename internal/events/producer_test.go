package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	skafka "github.com/segmentio/kafka-go"
)

// fakeWriter is a test writer that records messages written.
type fakeWriter struct {
	msgs []skafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...skafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestPublish(t *testing.T) {
	fw := &fakeWriter{}
	p := NewKafkaPublisherWithWriter(fw)

	err := p.Publish(context.Background(), "42", OutboundShipped, map[string]string{"reference_number": "R1"})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if len(fw.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fw.msgs))
	}
	if string(fw.msgs[0].Key) != "42" {
		t.Errorf("key = %q, want 42", fw.msgs[0].Key)
	}

	var e Event
	if err := json.Unmarshal(fw.msgs[0].Value, &e); err != nil {
		t.Fatalf("message is not a valid event: %v", err)
	}
	if e.Event != OutboundShipped {
		t.Errorf("event = %q, want %q", e.Event, OutboundShipped)
	}
	if e.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("event ID not assigned")
	}
	if e.OccurredAt.IsZero() {
		t.Error("event timestamp not assigned")
	}
}

func TestPublishWriteError(t *testing.T) {
	fw := &fakeWriter{err: errors.New("broker down")}
	p := NewKafkaPublisherWithWriter(fw)

	if err := p.Publish(context.Background(), "1", InboundCreated, nil); err == nil {
		t.Fatal("expected error when the writer fails")
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	if err := p.Publish(context.Background(), "1", InboundCreated, nil); err != nil {
		t.Fatalf("nop publish: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("nop close: %v", err)
	}
}
