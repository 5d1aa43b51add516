package redis

import (
	"context"
	"fmt"
)

// Message is one pub/sub delivery. Channel doubles as the room key on the
// receiving hub instance.
type Message struct {
	Channel string
	Payload []byte
}

func (c *Client) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := c.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis.Client.Publish: %w", err)
	}
	return nil
}

// PatternSubscribe subscribes to one or more channel patterns (e.g.
// "board:*") and streams matching messages until ctx is cancelled. The
// returned cleanup closes the subscription.
func (c *Client) PatternSubscribe(ctx context.Context, patterns ...string) (<-chan Message, func(), error) {
	sub := c.rdb.PSubscribe(ctx, patterns...)

	// Wait for subscription confirmation.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis.Client.PatternSubscribe: receive confirmation: %w", err)
	}

	out := make(chan Message, 64)
	redisCh := sub.Channel()

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-redisCh:
				if !ok {
					return
				}
				select {
				case out <- Message{Channel: msg.Channel, Payload: []byte(msg.Payload)}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	cleanup := func() {
		_ = sub.Close()
	}

	return out, cleanup, nil
}
