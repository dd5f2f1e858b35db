package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jewelshop/internal/models"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetPincode retrieves a cached pincode lookup. Returns nil on a cache miss.
func (c *Client) GetPincode(ctx context.Context, pincode string) (*models.PincodeEntry, error) {
	key := fmt.Sprintf("pincode:%s", pincode)

	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry models.PincodeEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached pincode: %w", err)
	}
	return &entry, nil
}

// SetPincode caches a pincode lookup with a TTL
func (c *Client) SetPincode(ctx context.Context, entry *models.PincodeEntry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal pincode entry: %w", err)
	}

	return c.rdb.Set(ctx, fmt.Sprintf("pincode:%s", entry.Pincode), data, ttl).Err()
}

// ClaimIdempotencyKey atomically claims a checkout idempotency key. Returns
// false when the key was already claimed by an earlier request.
func (c *Client) ClaimIdempotencyKey(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("idempotency:checkout:%s", key), "1", ttl).Result()
}

// ReleaseIdempotencyKey drops a claimed key so a failed checkout can be retried.
func (c *Client) ReleaseIdempotencyKey(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("idempotency:checkout:%s", key)).Err()
}
