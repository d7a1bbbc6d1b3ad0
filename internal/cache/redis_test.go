package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func setupMiniRedis(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()

	mr := miniredis.NewMiniRedis()
	if err := mr.Start(); err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	c := &RedisCache{
		client: client,
		logger: zerolog.Nop(),
	}

	return mr, c
}

func TestRedisCacheSetGet(t *testing.T) {
	mr, c := setupMiniRedis(t)
	defer mr.Close()

	c.Set("key", []byte(`[{"university_id":"41"}]`), 5*time.Minute)

	val, found := c.Get("key")
	if !found {
		t.Fatal("expected value to be found")
	}
	if string(val) != `[{"university_id":"41"}]` {
		t.Fatalf("unexpected value %q", val)
	}

	stats := c.Stats()
	if stats.Sets != 1 || stats.Hits != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestRedisCacheMiss(t *testing.T) {
	mr, c := setupMiniRedis(t)
	defer mr.Close()

	if _, found := c.Get("absent"); found {
		t.Fatal("expected miss")
	}
	if got := c.Stats().Misses; got != 1 {
		t.Fatalf("misses = %d, want 1", got)
	}
}

func TestRedisCacheTTL(t *testing.T) {
	mr, c := setupMiniRedis(t)
	defer mr.Close()

	c.Set("ttl", []byte("v"), 100*time.Millisecond)

	if _, found := c.Get("ttl"); !found {
		t.Fatal("expected fresh value")
	}

	mr.FastForward(200 * time.Millisecond)

	if _, found := c.Get("ttl"); found {
		t.Fatal("expected expired value to miss")
	}
}

func TestRedisCacheDelete(t *testing.T) {
	mr, c := setupMiniRedis(t)
	defer mr.Close()

	c.Set("key", []byte("v"), time.Minute)
	c.Delete("key")

	if _, found := c.Get("key"); found {
		t.Fatal("deleted key should miss")
	}
}

func TestRedisCacheHealthCheck(t *testing.T) {
	mr, c := setupMiniRedis(t)

	if err := c.HealthCheck(context.Background()); err != nil {
		t.Fatalf("health check should pass: %v", err)
	}

	mr.Close()

	if err := c.HealthCheck(context.Background()); err == nil {
		t.Fatal("health check should fail after server shutdown")
	}
}

func TestNewRedisUnreachable(t *testing.T) {
	_, err := NewRedis(RedisConfig{Addr: "127.0.0.1:1"}, zerolog.Nop())
	if err == nil {
		t.Fatal("expected connection error")
	}
}
