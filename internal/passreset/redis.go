package passreset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "pwreset:"

// retention keeps a key around slightly past its expiry so a late attempt is
// reported as expired rather than as never requested.
const retention = time.Hour

// RedisStore shares pending reset codes between instances.
type RedisStore struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, now: time.Now}
}

func (s *RedisStore) Save(ctx context.Context, email string, req Request) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}
	ttl := req.ExpiresAt.Sub(s.now()) + retention
	if err := s.rdb.Set(ctx, redisKeyPrefix+email, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, email string) (Request, error) {
	raw, err := s.rdb.Get(ctx, redisKeyPrefix+email).Bytes()
	if errors.Is(err, redis.Nil) {
		return Request{}, ErrNotFound
	}
	if err != nil {
		return Request{}, fmt.Errorf("load reset code: %w", err)
	}
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return Request{}, fmt.Errorf("decode reset code: %w", err)
	}
	return req, nil
}

func (s *RedisStore) Delete(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, redisKeyPrefix+email).Err()
}
