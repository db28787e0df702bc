package counter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RealtimeCounter keeps short-lived per-product click counters in Redis so a
// dashboard can show "clicks in the last minute" without scanning the ledger.
// The persisted ledger stays the source of truth; these keys expire on their
// own.
type RealtimeCounter struct {
	client *redis.Client
}

func NewRealtimeCounter(redisURL string) (*RealtimeCounter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		// Accept a bare host:port as well.
		opt = &redis.Options{Addr: redisURL}
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 2

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RealtimeCounter{client: client}, nil
}

func (c *RealtimeCounter) IncrClick(ctx context.Context, productID string) error {
	key := fmt.Sprintf("clicks:realtime:%s", productID)
	val, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to increment click counter: %w", err)
	}
	// Set TTL if this is the first increment
	if val == 1 {
		c.client.Expire(ctx, key, 60*time.Second)
	}
	return nil
}

// GetClicks returns the current realtime counter for a product, zero when the
// key has expired or never existed.
func (c *RealtimeCounter) GetClicks(ctx context.Context, productID string) (int64, error) {
	key := fmt.Sprintf("clicks:realtime:%s", productID)
	val, err := c.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get click counter: %w", err)
	}
	return val, nil
}

func (c *RealtimeCounter) Close() error {
	return c.client.Close()
}
