package passreset

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestCheck(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	req := Request{Code: "123456", ExpiresAt: now.Add(15 * time.Minute)}

	assert.NoError(t, req.Check("123456", now))
	assert.ErrorIs(t, req.Check("654321", now), ErrMismatch)
	assert.ErrorIs(t, req.Check("12345", now), ErrMismatch)
	assert.ErrorIs(t, req.Check("123456", now.Add(16*time.Minute)), ErrExpired)
}

func runStore(t *testing.T, s Store) {
	ctx := context.Background()
	exp := time.Now().Add(15 * time.Minute).UTC().Truncate(time.Second)

	_, err := s.Get(ctx, "a@x.com")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, "a@x.com", Request{Code: "111111", ExpiresAt: exp}))
	require.NoError(t, s.Save(ctx, "a@x.com", Request{Code: "222222", ExpiresAt: exp}))

	got, err := s.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", got.Code)
	assert.True(t, exp.Equal(got.ExpiresAt))

	require.NoError(t, s.Delete(ctx, "a@x.com"))
	_, err = s.Get(ctx, "a@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	runStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	runStore(t, NewRedisStore(rdb))
}
