package dedup

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBackend keeps the ids in a Redis set and the timestamp in a string
// key, both under a common prefix.
type RedisBackend struct {
	rdb *redis.Client
	key string
}

func NewRedisBackend(rdb *redis.Client, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = "upwork:scraped_jobs"
	}
	return &RedisBackend{rdb: rdb, key: prefix}
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("unable to parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis unreachable: %w", err)
	}
	return rdb, nil
}

func (b *RedisBackend) idsKey() string     { return b.key + ":ids" }
func (b *RedisBackend) updatedKey() string { return b.key + ":last_updated" }

func (b *RedisBackend) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	n, err := b.rdb.Exists(ctx, b.idsKey(), b.updatedKey()).Result()
	if err != nil {
		return snap, fmt.Errorf("redis exists: %w", err)
	}
	if n == 0 {
		return snap, ErrNoSnapshot
	}

	if snap.JobIDs, err = b.rdb.SMembers(ctx, b.idsKey()).Result(); err != nil {
		return snap, fmt.Errorf("redis smembers: %w", err)
	}
	snap.LastUpdated, err = b.rdb.Get(ctx, b.updatedKey()).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return snap, fmt.Errorf("redis get: %w", err)
	}
	return snap, nil
}

// Save replaces the stored set in one MULTI/EXEC.
func (b *RedisBackend) Save(ctx context.Context, snap Snapshot) error {
	_, err := b.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, b.idsKey())
		if len(snap.JobIDs) > 0 {
			members := make([]interface{}, len(snap.JobIDs))
			for i, id := range snap.JobIDs {
				members[i] = id
			}
			pipe.SAdd(ctx, b.idsKey(), members...)
		}
		pipe.Set(ctx, b.updatedKey(), snap.LastUpdated, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save: %w", err)
	}
	return nil
}
