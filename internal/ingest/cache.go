package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SnapshotCache keeps the latest raw payload per source in redis so freshly
// started sessions hydrate without hitting the upstream sheets. The worker's
// refresh job re-primes it on a schedule.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache constructs the cache.
func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SnapshotCache{client: client, ttl: ttl}
}

func sourceKey(name string) string {
	return fmt.Sprintf("ingest:source:%s", name)
}

// Get returns the cached payload for a source, if present.
func (c *SnapshotCache) Get(ctx context.Context, source string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, sourceKey(source)).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

// Set stores the payload for a source.
func (c *SnapshotCache) Set(ctx context.Context, source string, payload []byte) error {
	if c == nil || c.client == nil {
		return errors.New("snapshot cache not initialised")
	}
	return c.client.Set(ctx, sourceKey(source), payload, c.ttl).Err()
}
