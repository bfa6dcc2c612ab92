package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kitzurapp/qa-backend/internal/apperr"
	"github.com/kitzurapp/qa-backend/internal/repos"
)

func TestBucketKey(t *testing.T) {
	at := time.Date(2026, 3, 15, 10, 30, 45, 0, time.UTC)
	key := BucketKey("user-1", at)
	want := fmt.Sprintf("user-1_%d", at.Unix()/60)
	if key != want {
		t.Fatalf("BucketKey = %q, want %q", key, want)
	}
	// Seconds within the same minute share a bucket.
	if other := BucketKey("user-1", at.Add(10*time.Second)); other != key {
		t.Fatalf("same minute produced different buckets: %q vs %q", other, key)
	}
	if other := BucketKey("user-1", at.Add(time.Minute)); other == key {
		t.Fatal("next minute reused the bucket")
	}
}

func TestDBRateLimiter(t *testing.T) {
	gdb := newTestDB(t)
	log := newTestLogger(t)
	limitRepo := repos.NewRateLimitRepo(gdb, log)

	now := testClock
	limiter := &dbRateLimiter{
		db:   gdb,
		log:  log,
		repo: limitRepo,
		now:  func() time.Time { return now },
	}
	ctx := context.Background()

	t.Run("allows up to the limit then fails atomically", func(t *testing.T) {
		const limit = 5
		for i := 0; i < limit; i++ {
			if err := limiter.CheckAndIncrement(ctx, "actor-a", limit); err != nil {
				t.Fatalf("call %d unexpectedly limited: %v", i+1, err)
			}
		}
		err := limiter.CheckAndIncrement(ctx, "actor-a", limit)
		if !errors.Is(err, apperr.ErrResourceExhausted) {
			t.Fatalf("expected resource-exhausted, got %v", err)
		}
		// The failed call must not have consumed anything: the stored
		// count stays at the limit.
		count, err := limitRepo.GetCount(ctx, nil, BucketKey("actor-a", now))
		if err != nil {
			t.Fatalf("get count: %v", err)
		}
		if count != limit {
			t.Fatalf("count = %d after rejected call, want %d", count, limit)
		}
	})

	t.Run("next minute starts a fresh bucket", func(t *testing.T) {
		const limit = 2
		for i := 0; i < limit; i++ {
			if err := limiter.CheckAndIncrement(ctx, "actor-b", limit); err != nil {
				t.Fatalf("call %d unexpectedly limited: %v", i+1, err)
			}
		}
		if err := limiter.CheckAndIncrement(ctx, "actor-b", limit); !errors.Is(err, apperr.ErrResourceExhausted) {
			t.Fatalf("expected resource-exhausted, got %v", err)
		}

		now = now.Add(time.Minute)
		defer func() { now = testClock }()
		if err := limiter.CheckAndIncrement(ctx, "actor-b", limit); err != nil {
			t.Fatalf("fresh minute should not be limited: %v", err)
		}
	})

	t.Run("actors do not share buckets", func(t *testing.T) {
		const limit = 1
		if err := limiter.CheckAndIncrement(ctx, "actor-c", limit); err != nil {
			t.Fatalf("unexpected limit: %v", err)
		}
		if err := limiter.CheckAndIncrement(ctx, "actor-d", limit); err != nil {
			t.Fatalf("actor-d should have its own bucket: %v", err)
		}
	})
}
