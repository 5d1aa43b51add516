package redis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Client wraps the shared Redis connection used for real-time pub/sub,
// the durable event streams, and scope locks.
type Client struct {
	rdb *redis.Client
}

func New(ctx context.Context, addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

func (c *Client) Close() error {
	if err := c.rdb.Close(); err != nil {
		return fmt.Errorf("redis.Client.Close: %w", err)
	}
	return nil
}

// BoardChannel returns the pub/sub channel (and room key) for a board.
func BoardChannel(boardID uuid.UUID) string {
	return "board:" + boardID.String()
}

// UserChannel returns the pub/sub channel (and room key) for a user's
// personal notifications.
func UserChannel(userID uuid.UUID) string {
	return "user:" + userID.String()
}
