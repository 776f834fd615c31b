package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps redis but fails safe: a missing or unreachable redis behaves
// like a permanent cache miss, never like an error.
type Client struct {
	client *redis.Client
}

func New(addr, password string) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
	}
	return &Client{client: redis.NewClient(opts)}
}

func (c *Client) Get(ctx context.Context, key string) []byte {
	if c == nil || c.client == nil {
		return nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	return res
}

func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Set(ctx, key, value, ttl)
}

func (c *Client) Delete(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, keys...)
}
