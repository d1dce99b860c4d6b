package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// New creates a new Redis client.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// The client is still usable once redis comes back, so hand it
		// over and let the caller decide whether a failed ping is fatal.
		return client, fmt.Errorf("platform/cache: ping: %w", err)
	}

	return client, nil
}
