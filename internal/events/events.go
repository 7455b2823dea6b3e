// Package events publishes shipment lifecycle events to Kafka. Publishing is
// best-effort: the service logs failures and carries on, so a broker outage
// never blocks warehouse operations.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event names emitted on the shipment lifecycle.
const (
	InboundCreated  = "inbound.created"
	InboundUpdated  = "inbound.updated"
	InboundReceived = "inbound.received"
	InboundDeleted  = "inbound.deleted"
	OutboundCreated = "outbound.created"
	OutboundUpdated = "outbound.updated"
	OutboundShipped = "outbound.shipped"
	OutboundDeleted = "outbound.deleted"
)

// Event is the envelope written to the topic. Payload carries the full
// shipment record as of the event.
type Event struct {
	ID         uuid.UUID   `json:"id"`
	Event      string      `json:"event"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// Publisher sends lifecycle events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, key string, event string, payload interface{}) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, key, event string, payload interface{}) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
