package flagstore

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "etalase:flag:"

// RedisStore keeps flags in Redis. Consume uses GETDEL so two launches racing
// for the same flag cannot both see it.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore returns a RedisStore using client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Set raises key.
func (s *RedisStore) Set(ctx context.Context, key string) error {
	return pkgerrors.Wrapf(s.client.Set(ctx, redisKeyPrefix+key, "1", 0).Err(), "set flag %s", key)
}

// Consume reads and deletes key in one GETDEL.
func (s *RedisStore) Consume(ctx context.Context, key string) (bool, error) {
	_, err := s.client.GetDel(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, pkgerrors.Wrapf(err, "consume flag %s", key)
	}
	return true, nil
}
