package store

import (
	"context"
	"os"
	"testing"
	"time"
)

// Integration test, runs only when a Redis instance is available.
func TestRedisStore_GetPut(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping Redis integration test")
	}

	ctx := context.Background()
	s, err := NewRedisStore(ctx, addr, time.Minute)
	if err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer s.Close()

	hash := "test_hash_" + time.Now().Format("20060102150405")

	seen, err := s.Get(ctx, hash)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if seen {
		t.Error("Fresh hash should not be seen")
	}

	if err := s.Put(ctx, hash); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	seen, err = s.Get(ctx, hash)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !seen {
		t.Error("Stored hash should be reported as seen")
	}
}
