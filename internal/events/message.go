// Package events implements the durable, pattern-routed event bus between
// corkboard services: a publisher that appends immutable envelopes to a
// Redis stream, and a consumer group that dispatches them to registered
// handlers with at-least-once delivery.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Envelope is the immutable wire record for one committed mutation. The
// event type doubles as the routing key (dot-hierarchical, e.g.
// "card.moved"). ID is for deduplication and tracing; handlers must still
// be idempotent by entity id, since a retried operation may already be
// reflected in storage.
type Envelope struct {
	ID        uuid.UUID       `json:"id"`
	EventType string          `json:"eventType"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEnvelope stamps a payload with id and emission time.
func NewEnvelope(eventType string, data any) (*Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("events.NewEnvelope: marshal data: %w", err)
	}

	return &Envelope{
		ID:        uuid.New(),
		EventType: eventType,
		Data:      raw,
		Timestamp: time.Now().UTC(),
	}, nil
}

// Decode unmarshals the envelope payload into v.
func (e *Envelope) Decode(v any) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("events.Envelope.Decode: %w", err)
	}
	return nil
}
