package memory

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ai:mem:"

// RedisStore is the durable backend. Stored values are the JSON
// encoding of a History.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(addr, password string) *RedisStore {
	return &RedisStore{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})}
}

func (s *RedisStore) Load(ctx context.Context, id string) (History, bool, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	h := decodeHistory(raw)
	if h == nil {
		// Undecodable entries read as absent, not as a store failure.
		return nil, false, nil
	}
	return h, true, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, h History, ttl time.Duration) error {
	raw, err := encodeHistory(h)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyPrefix+id, raw, ttl).Err()
}
