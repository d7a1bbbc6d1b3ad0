package cache

import (
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemory(0)

	c.Set("key", []byte("value"), time.Minute)

	val, found := c.Get("key")
	if !found {
		t.Fatal("expected value to be found")
	}
	if string(val) != "value" {
		t.Fatalf("got %q, want %q", val, "value")
	}

	stats := c.Stats()
	if stats.Sets != 1 || stats.Hits != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemory(0)

	if _, found := c.Get("absent"); found {
		t.Fatal("expected miss")
	}
	if got := c.Stats().Misses; got != 1 {
		t.Fatalf("misses = %d, want 1", got)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemory(0)

	c.Set("ttl", []byte("v"), 10*time.Millisecond)
	if _, found := c.Get("ttl"); !found {
		t.Fatal("expected fresh value")
	}

	time.Sleep(20 * time.Millisecond)
	if _, found := c.Get("ttl"); found {
		t.Fatal("expected expired value to miss")
	}
}

func TestMemoryCacheJanitorEvicts(t *testing.T) {
	c := NewMemory(10 * time.Millisecond).(*memoryCache)
	defer c.Stop()

	c.Set("a", []byte("1"), time.Millisecond)
	c.Set("b", []byte("2"), time.Hour)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if c.Stats().CurrentSize == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	stats := c.Stats()
	if stats.CurrentSize != 1 {
		t.Fatalf("janitor did not evict, size = %d", stats.CurrentSize)
	}
	if stats.Evictions == 0 {
		t.Fatal("expected at least one eviction")
	}
}

func TestMemoryCacheDeleteAndClear(t *testing.T) {
	c := NewMemory(0)

	c.Set("a", []byte("1"), time.Minute)
	c.Set("b", []byte("2"), time.Minute)

	c.Delete("a")
	if _, found := c.Get("a"); found {
		t.Fatal("deleted key should miss")
	}

	c.Clear()
	if got := c.Stats().CurrentSize; got != 0 {
		t.Fatalf("size after clear = %d", got)
	}
}

func TestNoOpCache(t *testing.T) {
	c := NewNoOp()

	c.Set("key", []byte("value"), time.Minute)
	if _, found := c.Get("key"); found {
		t.Fatal("noop cache must never hit")
	}
	if stats := c.Stats(); stats != (Stats{}) {
		t.Fatalf("noop stats should be zero: %+v", stats)
	}
}
