package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/fitness-tracker/internal/utils"
)

const redisKeyPrefix = "session:"

// RedisStore shares sessions between instances.  Each session is a JSON
// value whose redis TTL matches the cookie lifetime.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore returns a store backed by rdb.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, p Profile) (string, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	for {
		token, err := utils.NewSessionToken()
		if err != nil {
			return "", err
		}
		ok, err := s.rdb.SetNX(ctx, redisKeyPrefix+token, payload, s.ttl).Result()
		if err != nil {
			return "", fmt.Errorf("store session: %w", err)
		}
		if ok {
			return token, nil
		}
	}
}

func (s *RedisStore) Get(ctx context.Context, token string) (Profile, error) {
	raw, err := s.rdb.Get(ctx, redisKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("load session: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, fmt.Errorf("decode session: %w", err)
	}
	return p, nil
}

// Update rewrites the snapshot under WATCH so a concurrent logout cannot be
// resurrected, keeping the remaining TTL.
func (s *RedisStore) Update(ctx context.Context, token string, patch Patch) error {
	key := redisKeyPrefix + token
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var p Profile
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("decode session: %w", err)
		}
		patch.apply(&p)
		payload, err := json.Marshal(p)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetArgs(ctx, key, payload, redis.SetArgs{KeepTTL: true, Mode: "XX"})
			return nil
		})
		return err
	}
	for attempt := 0; attempt < 3; attempt++ {
		err := s.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return err
	}
	return fmt.Errorf("update session: %w", redis.TxFailedErr)
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, redisKeyPrefix+token).Err()
}
