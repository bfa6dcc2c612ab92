package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/kitzurapp/qa-backend/internal/logger"
	"github.com/kitzurapp/qa-backend/internal/types"
)

type RevisionRepo interface {
	Append(ctx context.Context, tx *gorm.DB, revision *types.Revision) (*types.Revision, error)
	ListByEntity(ctx context.Context, tx *gorm.DB, entityType, entityID string) ([]*types.Revision, error)
}

type revisionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRevisionRepo(db *gorm.DB, baseLog *logger.Logger) RevisionRepo {
	return &revisionRepo{db: db, log: baseLog.With("repo", "RevisionRepo")}
}

func (rr *revisionRepo) Append(ctx context.Context, tx *gorm.DB, revision *types.Revision) (*types.Revision, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if err := transaction.WithContext(ctx).Create(revision).Error; err != nil {
		return nil, err
	}
	return revision, nil
}

func (rr *revisionRepo) ListByEntity(ctx context.Context, tx *gorm.DB, entityType, entityID string) ([]*types.Revision, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.Revision
	if err := transaction.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
