package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kitzurapp/qa-backend/internal/logger"
	"github.com/kitzurapp/qa-backend/internal/types"
)

type DiscussionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.DiscussionEntry) (*types.DiscussionEntry, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DiscussionEntry, error)
	ListByQuestion(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) ([]*types.DiscussionEntry, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.DiscussionStatus) error
}

type discussionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDiscussionRepo(db *gorm.DB, baseLog *logger.Logger) DiscussionRepo {
	return &discussionRepo{db: db, log: baseLog.With("repo", "DiscussionRepo")}
}

func (dr *discussionRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.DiscussionEntry) (*types.DiscussionEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (dr *discussionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DiscussionEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var result types.DiscussionEntry
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (dr *discussionRepo) ListByQuestion(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) ([]*types.DiscussionEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var results []*types.DiscussionEntry
	if err := transaction.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *discussionRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.DiscussionStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.DiscussionEntry{}).
		Where("id = ?", id).
		Update("status", status).Error
}
