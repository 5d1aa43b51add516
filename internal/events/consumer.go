package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	redisstore "github.com/corkboardhq/corkboard/internal/store/redis"
)

// Consumer reads one message at a time from a durable consumer group and
// dispatches it through the registry. One in-flight unacked message per
// consumer keeps handling of the queue ordered and non-overlapping.
//
// A failing handler is retried in place with exponential backoff; once the
// attempt budget is spent the message moves to the dead-letter stream and
// the original is acked. Messages left pending by a crashed instance are
// reclaimed on the next loop iteration, which is where the at-least-once
// guarantee comes from.
type Consumer struct {
	client      *redisstore.Client
	registry    *Registry
	stream      string
	group       string
	name        string
	deadLetter  string
	maxAttempts int
	baseBackoff time.Duration
	block       time.Duration
	claimIdle   time.Duration
}

type ConsumerOption func(*Consumer)

// WithMaxAttempts bounds how many times a handler is invoked for one
// message before it is dead-lettered.
func WithMaxAttempts(n int) ConsumerOption {
	return func(c *Consumer) { c.maxAttempts = n }
}

// WithBaseBackoff sets the first retry delay; each subsequent retry
// doubles it.
func WithBaseBackoff(d time.Duration) ConsumerOption {
	return func(c *Consumer) { c.baseBackoff = d }
}

func NewConsumer(client *redisstore.Client, registry *Registry, stream, group, name string, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		client:      client,
		registry:    registry,
		stream:      stream,
		group:       group,
		name:        name,
		deadLetter:  stream + ":dead",
		maxAttempts: 5,
		baseBackoff: 250 * time.Millisecond,
		block:       5 * time.Second,
		claimIdle:   time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run consumes until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.client.EnsureGroup(ctx, c.stream, c.group); err != nil {
		return fmt.Errorf("events.Consumer.Run: %w", err)
	}

	log.Info().
		Str("stream", c.stream).
		Str("group", c.group).
		Str("consumer", c.name).
		Strs("patterns", c.registry.Patterns()).
		Msg("event consumer started")

	for {
		if ctx.Err() != nil {
			return nil
		}

		msgs, err := c.client.Claim(ctx, c.stream, c.group, c.name, c.claimIdle)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error().Err(err).Msg("claim pending messages")
		}
		if len(msgs) == 0 {
			msgs, err = c.client.Fetch(ctx, c.stream, c.group, c.name, c.block)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Error().Err(err).Msg("fetch messages")
				continue
			}
		}

		for _, msg := range msgs {
			c.handle(ctx, msg)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg redisstore.StreamMessage) {
	var env Envelope
	if err := json.Unmarshal(msg.Body, &env); err != nil {
		log.Error().Err(err).Str("stream_id", msg.ID).Msg("undecodable event, dead-lettering")
		c.deadLetterAndAck(ctx, msg)
		return
	}

	if err := c.Process(ctx, &env); err != nil {
		log.Error().
			Err(err).
			Str("event_id", env.ID.String()).
			Str("event_type", env.EventType).
			Int("attempts", c.maxAttempts).
			Msg("handler exhausted retries, dead-lettering")
		c.deadLetterAndAck(ctx, msg)
		return
	}

	if err := c.client.Ack(ctx, c.stream, c.group, msg.ID); err != nil {
		// The message stays pending and will be redelivered; the handler
		// must absorb the duplicate.
		log.Warn().Err(err).Str("stream_id", msg.ID).Msg("ack failed")
	}
}

// Process dispatches one decoded envelope with the bounded retry policy.
// A nil return means the message can be acked; an error means the attempt
// budget is spent and the message should be dead-lettered. Envelopes that
// match no binding are dropped as handled.
func (c *Consumer) Process(ctx context.Context, env *Envelope) error {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		matched, err := c.registry.Dispatch(ctx, env)
		if !matched {
			log.Debug().Str("event_type", env.EventType).Msg("no binding for event")
			return nil
		}
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt < c.maxAttempts {
			backoff := c.baseBackoff << (attempt - 1)
			log.Warn().
				Err(err).
				Str("event_type", env.EventType).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("handler failed, retrying")

			select {
			case <-ctx.Done():
				return fmt.Errorf("events.Consumer.Process: %w", ctx.Err())
			case <-time.After(backoff):
			}
		}
	}

	return fmt.Errorf("events.Consumer.Process: %d attempts: %w", c.maxAttempts, lastErr)
}

func (c *Consumer) deadLetterAndAck(ctx context.Context, msg redisstore.StreamMessage) {
	if err := c.client.Append(ctx, c.deadLetter, msg.RoutingKey, msg.Body); err != nil {
		log.Error().Err(err).Str("stream_id", msg.ID).Msg("dead-letter append failed")
		// Leave the message pending rather than dropping it.
		return
	}
	if err := c.client.Ack(ctx, c.stream, c.group, msg.ID); err != nil {
		log.Warn().Err(err).Str("stream_id", msg.ID).Msg("ack after dead-letter failed")
	}
}
