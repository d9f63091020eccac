package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/wine-inventory/internal/core/domain"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestRedisLocker_ExclusiveUntilReleased(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	key := "lock:test-wine-inventory"
	client.Del(ctx, key)

	first := NewRedisLocker(client, key, 5*time.Second, nil)
	second := NewRedisLocker(client, key, 5*time.Second, nil)

	release, err := first.Acquire(ctx, time.Second)
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	if _, err := second.Acquire(ctx, 100*time.Millisecond); err != domain.ErrLockTimeout {
		t.Errorf("expected ErrLockTimeout, got: %v", err)
	}

	release()

	release, err = second.Acquire(ctx, time.Second)
	if err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
	release()
}

func TestRedisLocker_WaitsForHolder(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	key := "lock:test-wine-inventory-wait"
	client.Del(ctx, key)

	locker := NewRedisLocker(client, key, 5*time.Second, nil)
	release, err := locker.Acquire(ctx, time.Second)
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	go func() {
		time.Sleep(100 * time.Millisecond)
		release()
	}()

	release2, err := locker.Acquire(ctx, time.Second)
	if err != nil {
		t.Fatalf("expected lock after holder released, got: %v", err)
	}
	release2()
}
