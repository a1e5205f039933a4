package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/cache"
)

func newTestCacheManager(t *testing.T) (*cache.CacheManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewCacheManager(client), mr
}

func TestRunOrDefer_ImmediateOutsideTransaction(t *testing.T) {
	var ran bool
	runOrDefer(context.Background(), nil, func(ctx context.Context) { ran = true })
	if !ran {
		t.Error("expected immediate execution without a pending queue")
	}
}

func TestRunOrDefer_QueuedUntilFlush(t *testing.T) {
	ctx := context.Background()
	pending := &cacheInvalidations{}

	var calls int
	runOrDefer(ctx, pending, func(ctx context.Context) { calls++ })
	runOrDefer(ctx, pending, func(ctx context.Context) { calls++ })

	if calls != 0 {
		t.Fatalf("calls = %d before flush, want 0", calls)
	}
	pending.flush(ctx)
	if calls != 2 {
		t.Errorf("calls = %d after flush, want 2", calls)
	}
}

func TestSectionRepository_InvalidationHeldUntilFlush(t *testing.T) {
	cm, mr := newTestCacheManager(t)
	ctx := context.Background()

	if err := cm.Section.Set(ctx, "id:9", "cached", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	pending := &cacheInvalidations{}
	repo := &sectionRepository{cache: cm, pending: pending}

	// Inside a transaction the entry must survive until the commit-side
	// flush; dropping it earlier lets a concurrent reader re-cache state
	// the transaction has not committed yet.
	repo.invalidateSection(ctx, 9)
	if !mr.Exists("section:id:9") {
		t.Fatal("cache entry dropped before flush")
	}

	pending.flush(ctx)
	if mr.Exists("section:id:9") {
		t.Error("cache entry still present after flush")
	}
}

func TestSectionRepository_InvalidationImmediateOutsideTransaction(t *testing.T) {
	cm, mr := newTestCacheManager(t)
	ctx := context.Background()

	if err := cm.Section.Set(ctx, "id:9", "cached", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	repo := &sectionRepository{cache: cm}
	repo.invalidateSection(ctx, 9)

	if mr.Exists("section:id:9") {
		t.Error("cache entry still present after non-transactional write")
	}
}
