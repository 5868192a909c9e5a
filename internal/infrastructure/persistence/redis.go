package persistence

import (
	"context"
	"errors"
	"fmt"

	"coown-backend/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisAdapter keeps the snapshot as one JSON string value.
type RedisAdapter struct {
	Rdb *redis.Client
	Key string
}

func NewRedisAdapter(rdb *redis.Client, key string) *RedisAdapter {
	if key == "" {
		key = DefaultKey
	}
	return &RedisAdapter{Rdb: rdb, Key: key}
}

func (a *RedisAdapter) Name() string { return "redis" }

func (a *RedisAdapter) Load(ctx context.Context) (domain.Snapshot, bool, error) {
	b, err := a.Rdb.Get(ctx, a.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Snapshot{}, false, nil
	}
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("persistence: redis get %s: %w", a.Key, err)
	}
	return decode(b)
}

func (a *RedisAdapter) Save(ctx context.Context, snap domain.Snapshot) error {
	b, err := encode(snap)
	if err != nil {
		return err
	}
	if err := a.Rdb.Set(ctx, a.Key, b, 0).Err(); err != nil {
		return fmt.Errorf("persistence: redis set %s: %w", a.Key, err)
	}
	return nil
}

func (a *RedisAdapter) Reset(ctx context.Context) error {
	if err := a.Rdb.Del(ctx, a.Key).Err(); err != nil {
		return fmt.Errorf("persistence: redis del %s: %w", a.Key, err)
	}
	return nil
}
