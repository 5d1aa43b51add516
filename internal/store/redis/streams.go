package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stream entry fields. The routing key rides alongside the opaque body so
// consumers can pattern-match without decoding first.
const (
	fieldRoutingKey = "key"
	fieldBody       = "body"
)

// StreamMessage is one durable event entry read from a consumer group.
type StreamMessage struct {
	ID         string
	RoutingKey string
	Body       []byte
}

// Append adds a durable entry to the stream. Entries survive broker
// restarts subject to Redis persistence configuration.
func (c *Client) Append(ctx context.Context, stream, routingKey string, body []byte) error {
	err := c.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			fieldRoutingKey: routingKey,
			fieldBody:       body,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("redis.Client.Append: %w", err)
	}
	return nil
}

// EnsureGroup creates the consumer group at the start of the stream if it
// does not already exist.
func (c *Client) EnsureGroup(ctx context.Context, stream, group string) error {
	err := c.rdb.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("redis.Client.EnsureGroup: %w", err)
	}
	return nil
}

// Fetch reads at most one new entry for the consumer, blocking up to block.
// A nil slice means the block elapsed with nothing to read.
func (c *Client) Fetch(ctx context.Context, stream, group, consumer string, block time.Duration) ([]StreamMessage, error) {
	res, err := c.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, ">"},
		Count:    1,
		Block:    block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis.Client.Fetch: %w", err)
	}

	var out []StreamMessage
	for _, s := range res {
		for _, m := range s.Messages {
			out = append(out, toStreamMessage(m))
		}
	}
	return out, nil
}

// Claim transfers entries that have been pending longer than minIdle to
// this consumer, one at a time, so a crashed instance's unacked messages
// are redelivered.
func (c *Client) Claim(ctx context.Context, stream, group, consumer string, minIdle time.Duration) ([]StreamMessage, error) {
	msgs, _, err := c.rdb.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   stream,
		Group:    group,
		Consumer: consumer,
		MinIdle:  minIdle,
		Start:    "0",
		Count:    1,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("redis.Client.Claim: %w", err)
	}

	out := make([]StreamMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toStreamMessage(m))
	}
	return out, nil
}

// Ack marks an entry as handled for the group.
func (c *Client) Ack(ctx context.Context, stream, group, id string) error {
	if err := c.rdb.XAck(ctx, stream, group, id).Err(); err != nil {
		return fmt.Errorf("redis.Client.Ack: %w", err)
	}
	return nil
}

func toStreamMessage(m redis.XMessage) StreamMessage {
	out := StreamMessage{ID: m.ID}
	if v, ok := m.Values[fieldRoutingKey].(string); ok {
		out.RoutingKey = v
	}
	if v, ok := m.Values[fieldBody].(string); ok {
		out.Body = []byte(v)
	}
	return out
}
