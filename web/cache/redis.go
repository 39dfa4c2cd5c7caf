// Package cache wraps the redis connection used for login throttling and,
// optionally, server-side session storage. With no address configured an
// embedded miniredis instance is started.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/edusite/edusite/logger"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "edusite:"

// Client is a redis client plus the embedded server backing it, if any.
type Client struct {
	rdb  *redis.Client
	mini *miniredis.Miniredis
}

// NewClient connects to redisAddr, or starts an embedded redis when it is empty.
func NewClient(ctx context.Context, redisAddr string) (*Client, error) {
	if redisAddr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("failed to start embedded Redis: %w", err)
		}
		logger.Info("Embedded Redis started on ", mr.Addr())
		return &Client{
			rdb:  redis.NewClient(&redis.Options{Addr: mr.Addr()}),
			mini: mr,
		}, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", redisAddr, err)
	}
	logger.Info("Connected to external Redis at ", redisAddr)
	return &Client{rdb: rdb}, nil
}

func (c *Client) Redis() *redis.Client {
	return c.rdb
}

func (c *Client) IsEmbedded() bool {
	return c.mini != nil
}

// Close closes the connection and stops the embedded server if running.
func (c *Client) Close() error {
	err := c.rdb.Close()
	if c.mini != nil {
		c.mini.Close()
	}
	return err
}

// Hit increments the counter for key and starts its window on the first hit.
func (c *Client) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	key = keyPrefix + key
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Reset drops the counter for key.
func (c *Client) Reset(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, keyPrefix+key).Err()
}

// TTL reports how long until the counter for key expires.
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.rdb.TTL(ctx, keyPrefix+key).Result()
}
