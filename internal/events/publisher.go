package events

import (
	"context"
	"encoding/json"
	"fmt"

	redisstore "github.com/corkboardhq/corkboard/internal/store/redis"
)

// Publisher appends envelopes to the shared durable stream. Publishing is
// fire-and-forget from the mutation path: callers log failures and move
// on, they never fail the originating commit.
type Publisher struct {
	client *redisstore.Client
	stream string
}

func NewPublisher(client *redisstore.Client, stream string) *Publisher {
	return &Publisher{client: client, stream: stream}
}

// Publish stamps the payload into an envelope and appends it with the
// event type as routing key.
func (p *Publisher) Publish(ctx context.Context, eventType string, data any) error {
	env, err := NewEnvelope(eventType, data)
	if err != nil {
		return fmt.Errorf("events.Publisher.Publish: %w", err)
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("events.Publisher.Publish: marshal envelope: %w", err)
	}

	if err := p.client.Append(ctx, p.stream, env.EventType, body); err != nil {
		return fmt.Errorf("events.Publisher.Publish: %w", err)
	}
	return nil
}
