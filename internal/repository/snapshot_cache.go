package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// SnapshotCache stores aggregation snapshots in redis for inspection and
// debugging. Snapshots are derived data; the cache is written best-effort
// and never read back by the aggregator itself.
type SnapshotCache struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewSnapshotCache(rdb *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{RDB: rdb, TTL: ttl}
}

func (c *SnapshotCache) StoreSnapshot(ctx context.Context, userID uint, planID, bookID string, snapshot interface{}) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("progress:snapshot:%d:%s:%s", userID, planID, bookID)
	return c.RDB.Set(ctx, key, payload, c.TTL).Err()
}
