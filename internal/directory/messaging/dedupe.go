package messaging

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Deduper remembers the ids of messages that were applied so that
// redeliveries can be acknowledged without applying them again.
type Deduper interface {
	Seen(ctx context.Context, id string) (bool, error)
	Mark(ctx context.Context, id string) error
}

// DefaultDedupeTTL bounds how long an applied message id is remembered.
const DefaultDedupeTTL = 24 * time.Hour

// MemoryDeduper keeps ids in process memory. Ids are lost on restart and not
// shared between consumer instances.
type MemoryDeduper struct {
	c *cache.Cache
}

func NewMemoryDeduper(ttl time.Duration) *MemoryDeduper {
	if ttl <= 0 {
		ttl = DefaultDedupeTTL
	}
	return &MemoryDeduper{c: cache.New(ttl, ttl/2)}
}

func (d *MemoryDeduper) Seen(_ context.Context, id string) (bool, error) {
	_, ok := d.c.Get(id)
	return ok, nil
}

func (d *MemoryDeduper) Mark(_ context.Context, id string) error {
	d.c.SetDefault(id, struct{}{})
	return nil
}

// RedisDeduper shares ids between consumer instances through redis.
type RedisDeduper struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisDeduper(rdb redis.UniversalClient, prefix string, ttl time.Duration) *RedisDeduper {
	if ttl <= 0 {
		ttl = DefaultDedupeTTL
	}
	return &RedisDeduper{rdb: rdb, prefix: prefix, ttl: ttl}
}

// NewRedisClient connects to a single redis node.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (d *RedisDeduper) key(id string) string { return d.prefix + id }

func (d *RedisDeduper) Seen(ctx context.Context, id string) (bool, error) {
	n, err := d.rdb.Exists(ctx, d.key(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *RedisDeduper) Mark(ctx context.Context, id string) error {
	return d.rdb.SetNX(ctx, d.key(id), 1, d.ttl).Err()
}
