package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/domain"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

// RedisProductCache caches catalog reads. Checkout never reads it; stock
// there always comes from locked rows. Writers and the restock consumer
// invalidate on change.
type RedisProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisProductCache(rdb *redis.Client, ttl time.Duration) *RedisProductCache {
	return &RedisProductCache{rdb: rdb, ttl: ttl}
}

var _ usecase.ProductCache = (*RedisProductCache)(nil)

func (c *RedisProductCache) Get(ctx context.Context, id string) (*domain.Product, bool, error) {
	raw, err := c.rdb.Get(ctx, "product:"+id).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var p domain.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		// stale or corrupt entry; treat as a miss
		_ = c.rdb.Del(ctx, "product:"+id).Err()
		return nil, false, nil
	}
	return &p, true, nil
}

func (c *RedisProductCache) Set(ctx context.Context, p *domain.Product) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, "product:"+p.ID, raw, c.ttl).Err()
}

func (c *RedisProductCache) Invalidate(ctx context.Context, id string) error {
	return c.rdb.Del(ctx, "product:"+id).Err()
}
