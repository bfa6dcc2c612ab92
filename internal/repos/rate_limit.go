package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kitzurapp/qa-backend/internal/logger"
	"github.com/kitzurapp/qa-backend/internal/types"
)

// ErrLimitExceeded is returned when a bucket is already at its limit. The
// failing call performs no write.
var ErrLimitExceeded = errors.New("rate limit exceeded")

type RateLimitRepo interface {
	CheckAndIncrement(ctx context.Context, tx *gorm.DB, key string, limit int) error
	GetCount(ctx context.Context, tx *gorm.DB, key string) (int, error)
}

type rateLimitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRateLimitRepo(db *gorm.DB, baseLog *logger.Logger) RateLimitRepo {
	return &rateLimitRepo{db: db, log: baseLog.With("repo", "RateLimitRepo")}
}

// CheckAndIncrement uses a guarded UPDATE (count < limit) plus an
// insert-if-absent so that two concurrent callers sharing a bucket cannot
// both succeed once the limit is reached. No row-level lock is needed:
// each statement is atomic on its own.
func (rr *rateLimitRepo) CheckAndIncrement(ctx context.Context, tx *gorm.DB, key string, limit int) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if limit <= 0 {
		return ErrLimitExceeded
	}

	res := rr.guardedIncrement(ctx, transaction, key, limit)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// Bucket row missing, or already at the limit. Try to create it.
	bucket := &types.RateLimitBucket{Key: key, Count: 1}
	created := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(bucket)
	if created.Error != nil {
		return created.Error
	}
	if created.RowsAffected == 1 {
		return nil
	}

	// A concurrent caller created the row first; one more guarded pass
	// decides between increment and exhaustion.
	res = rr.guardedIncrement(ctx, transaction, key, limit)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}
	return ErrLimitExceeded
}

func (rr *rateLimitRepo) guardedIncrement(ctx context.Context, transaction *gorm.DB, key string, limit int) *gorm.DB {
	return transaction.WithContext(ctx).
		Model(&types.RateLimitBucket{}).
		Where("key = ? AND count < ?", key, limit).
		Update("count", gorm.Expr("count + 1"))
}

func (rr *rateLimitRepo) GetCount(ctx context.Context, tx *gorm.DB, key string) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var bucket types.RateLimitBucket
	if err := transaction.WithContext(ctx).
		Where("key = ?", key).
		First(&bucket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return bucket.Count, nil
}
