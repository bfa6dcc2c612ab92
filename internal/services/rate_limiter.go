package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kitzurapp/qa-backend/internal/apperr"
	"github.com/kitzurapp/qa-backend/internal/logger"
	"github.com/kitzurapp/qa-backend/internal/repos"
)

// RateLimiter bounds the number of mutating calls per actor per calendar
// minute. Exceeding the limit fails the triggering operation atomically
// with no partial write.
type RateLimiter interface {
	CheckAndIncrement(ctx context.Context, key string, limit int) error
}

// BucketKey composes the actor identity with the current UTC minute.
// Buckets are disjoint per minute; a fresh minute always starts at zero.
func BucketKey(actor string, now time.Time) string {
	return fmt.Sprintf("%s_%d", actor, now.UTC().Unix()/60)
}

type dbRateLimiter struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.RateLimitRepo
	now  func() time.Time
}

func NewDBRateLimiter(db *gorm.DB, log *logger.Logger, repo repos.RateLimitRepo) RateLimiter {
	return &dbRateLimiter{
		db:   db,
		log:  log.With("service", "RateLimiter"),
		repo: repo,
		now:  time.Now,
	}
}

func (rl *dbRateLimiter) CheckAndIncrement(ctx context.Context, key string, limit int) error {
	bucketKey := BucketKey(key, rl.now())
	err := rl.repo.CheckAndIncrement(ctx, nil, bucketKey, limit)
	if errors.Is(err, repos.ErrLimitExceeded) {
		rl.log.Debug("Rate limit breached", "key", key, "limit", limit)
		return fmt.Errorf("rate limited for %q: %w", key, apperr.ErrResourceExhausted)
	}
	if err != nil {
		return fmt.Errorf("rate limit check: %w", err)
	}
	return nil
}
