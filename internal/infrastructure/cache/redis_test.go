package cache

import (
	"context"
	"testing"
	"time"
)

func TestUnavailableRedisBypasses(t *testing.T) {
	r := NewRedisWithClient(nil, 0, nil)
	ctx := context.Background()

	if r.ttl != defaultTTL {
		t.Fatalf("ttl = %v, want default", r.ttl)
	}
	if err := r.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute); err != nil {
		t.Fatalf("set should bypass: %v", err)
	}
	var out map[string]int
	hit, err := r.GetJSON(ctx, "k", &out)
	if err != nil || hit {
		t.Fatalf("get should miss without error, hit=%v err=%v", hit, err)
	}
	if err := r.DeleteByPattern(ctx, "catalog:*"); err != nil {
		t.Fatalf("delete should bypass: %v", err)
	}
	if err := r.Ping(ctx); err == nil {
		t.Fatalf("ping must report unavailability")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var nilCache *Redis
	if hit, err := nilCache.GetJSON(ctx, "k", &out); hit || err != nil {
		t.Fatalf("nil cache must miss")
	}
}
