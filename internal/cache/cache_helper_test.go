package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHelper(t *testing.T, prefix string) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheHelper(client, prefix), mr
}

type cachedSection struct {
	ID            uint   `json:"id"`
	SectionNumber string `json:"section_number"`
	EnrolledCount int    `json:"enrolled_count"`
}

func TestCacheHelper_SetGetRoundTrip(t *testing.T) {
	helper, mr := newTestHelper(t, "section:")
	ctx := context.Background()

	want := cachedSection{ID: 9, SectionNumber: "A1", EnrolledCount: 17}
	if err := helper.Set(ctx, "id:9", want, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Keys are stored under the helper prefix.
	if !mr.Exists("section:id:9") {
		t.Fatal("expected key section:id:9 in redis")
	}

	var got cachedSection
	if err := helper.Get(ctx, "id:9", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != want {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
}

func TestCacheHelper_GetMiss(t *testing.T) {
	helper, _ := newTestHelper(t, "section:")

	var got cachedSection
	err := helper.Get(context.Background(), "id:404", &got)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "section:")
	ctx := context.Background()

	if err := helper.Set(ctx, "id:1", cachedSection{ID: 1}, time.Minute); err != nil {
		t.Errorf("Set with nil client must be a no-op, got %v", err)
	}
	if err := helper.Delete(ctx, "id:1"); err != nil {
		t.Errorf("Delete with nil client must be a no-op, got %v", err)
	}

	var got cachedSection
	if err := helper.Get(ctx, "id:1", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}
	if _, err := helper.Exists(ctx, "id:1"); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("expected ErrCacheNotAvailable from Exists, got %v", err)
	}
}

func TestCacheHelper_Delete(t *testing.T) {
	helper, mr := newTestHelper(t, "student:")
	ctx := context.Background()

	for _, key := range []string{"id:1", "id:2", "id:3"} {
		if err := helper.Set(ctx, key, cachedSection{ID: 1}, time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := helper.Delete(ctx, "id:1", "id:2"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if mr.Exists("student:id:1") || mr.Exists("student:id:2") {
		t.Error("deleted keys still present")
	}
	if !mr.Exists("student:id:3") {
		t.Error("untouched key was removed")
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	helper, mr := newTestHelper(t, "section:")
	ctx := context.Background()

	keys := []string{"roster:9", "roster:9:csv", "id:9", "list:all"}
	for _, key := range keys {
		if err := helper.Set(ctx, key, cachedSection{ID: 9}, time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "roster:9*"); err != nil {
		t.Fatalf("InvalidatePattern failed: %v", err)
	}

	if mr.Exists("section:roster:9") || mr.Exists("section:roster:9:csv") {
		t.Error("matching keys survived invalidation")
	}
	if !mr.Exists("section:id:9") || !mr.Exists("section:list:all") {
		t.Error("non-matching keys were removed")
	}
}

func TestCacheHelper_WithConfig(t *testing.T) {
	helper, mr := newTestHelper(t, "")
	ctx := context.Background()

	if err := helper.SetWithConfig(ctx, "term:current", cachedSection{ID: 3}, CatalogCacheConfig); err != nil {
		t.Fatalf("SetWithConfig failed: %v", err)
	}
	if !mr.Exists("catalog:term:current") {
		t.Fatal("expected key under catalog prefix")
	}

	var got cachedSection
	if err := helper.GetWithConfig(ctx, "term:current", &got, CatalogCacheConfig); err != nil {
		t.Fatalf("GetWithConfig failed: %v", err)
	}
	if got.ID != 3 {
		t.Errorf("GetWithConfig = %+v, want ID 3", got)
	}

	mr.FastForward(CatalogCacheConfig.TTL + time.Second)
	if err := helper.GetWithConfig(ctx, "term:current", &got, CatalogCacheConfig); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expected ErrCacheNotFound after TTL, got %v", err)
	}
}

func TestCacheManager_InvalidateSection(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	cm := NewCacheManager(client)
	ctx := context.Background()

	seed := map[string]string{
		"section:id:9":     "x",
		"section:roster:9": "x",
		"section:list:all": "x",
		"section:id:10":    "x",
		"student:id:9":     "x",
	}
	for k, v := range seed {
		if err := client.Set(ctx, k, v, time.Minute).Err(); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	if err := cm.InvalidateSection(ctx, 9); err != nil {
		t.Fatalf("InvalidateSection failed: %v", err)
	}

	for _, gone := range []string{"section:id:9", "section:roster:9", "section:list:all"} {
		if mr.Exists(gone) {
			t.Errorf("%s should have been invalidated", gone)
		}
	}
	if !mr.Exists("section:id:10") {
		t.Error("other section entries must survive")
	}
	if !mr.Exists("student:id:9") {
		t.Error("student cache must survive section invalidation")
	}
}
