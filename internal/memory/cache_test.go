package memory

import (
	"testing"
	"time"
)

func TestCacheSweepDropsExpired(t *testing.T) {
	c := newLocalCache(8)
	now := time.Now()
	c.put("a", History{}.Append(RoleUser, "x"), 10*time.Millisecond, now)
	c.put("b", History{}.Append(RoleUser, "y"), time.Hour, now)

	removed := c.sweep(now.Add(time.Second))
	if removed != 1 {
		t.Fatalf("expected 1 eviction, got %d", removed)
	}
	if c.get("a", now.Add(time.Second)) != nil {
		t.Fatalf("expired entry survived sweep")
	}
	if c.get("b", now.Add(time.Second)) == nil {
		t.Fatalf("live entry evicted by sweep")
	}
}

func TestCacheLRUBound(t *testing.T) {
	c := newLocalCache(2)
	now := time.Now()
	c.put("a", History{}.Append(RoleUser, "1"), time.Hour, now)
	c.put("b", History{}.Append(RoleUser, "2"), time.Hour, now)
	c.put("c", History{}.Append(RoleUser, "3"), time.Hour, now)

	if c.get("a", now) != nil {
		t.Fatalf("oldest entry should have been evicted")
	}
	if c.get("b", now) == nil || c.get("c", now) == nil {
		t.Fatalf("recent entries should survive")
	}
}
