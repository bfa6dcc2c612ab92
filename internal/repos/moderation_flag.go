package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kitzurapp/qa-backend/internal/logger"
	"github.com/kitzurapp/qa-backend/internal/types"
)

type ModerationFlagRepo interface {
	Create(ctx context.Context, tx *gorm.DB, flag *types.ModerationFlag) (*types.ModerationFlag, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ModerationFlag, error)
	ListPending(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ModerationFlag, error)
	Resolve(ctx context.Context, tx *gorm.DB, id uuid.UUID, resolvedBy uuid.UUID, resolvedAt time.Time, note string) error
}

type moderationFlagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModerationFlagRepo(db *gorm.DB, baseLog *logger.Logger) ModerationFlagRepo {
	return &moderationFlagRepo{db: db, log: baseLog.With("repo", "ModerationFlagRepo")}
}

func (fr *moderationFlagRepo) Create(ctx context.Context, tx *gorm.DB, flag *types.ModerationFlag) (*types.ModerationFlag, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if err := transaction.WithContext(ctx).Create(flag).Error; err != nil {
		return nil, err
	}
	return flag, nil
}

func (fr *moderationFlagRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ModerationFlag, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var result types.ModerationFlag
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (fr *moderationFlagRepo) ListPending(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ModerationFlag, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.ModerationFlag
	if err := transaction.WithContext(ctx).
		Where("status = ?", types.FlagPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (fr *moderationFlagRepo) Resolve(ctx context.Context, tx *gorm.DB, id uuid.UUID, resolvedBy uuid.UUID, resolvedAt time.Time, note string) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ModerationFlag{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          types.FlagActioned,
			"resolved_by":     resolvedBy,
			"resolved_at":     resolvedAt,
			"resolution_note": note,
		}).Error
}
