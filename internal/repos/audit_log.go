package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/kitzurapp/qa-backend/internal/logger"
	"github.com/kitzurapp/qa-backend/internal/types"
)

type AuditLogRepo interface {
	Append(ctx context.Context, tx *gorm.DB, entry *types.AuditLogEntry) (*types.AuditLogEntry, error)
	ListByEntity(ctx context.Context, tx *gorm.DB, entityType, entityID string) ([]*types.AuditLogEntry, error)
}

type auditLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuditLogRepo(db *gorm.DB, baseLog *logger.Logger) AuditLogRepo {
	return &auditLogRepo{db: db, log: baseLog.With("repo", "AuditLogRepo")}
}

func (ar *auditLogRepo) Append(ctx context.Context, tx *gorm.DB, entry *types.AuditLogEntry) (*types.AuditLogEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (ar *auditLogRepo) ListByEntity(ctx context.Context, tx *gorm.DB, entityType, entityID string) ([]*types.AuditLogEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.AuditLogEntry
	if err := transaction.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
