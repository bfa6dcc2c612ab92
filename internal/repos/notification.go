package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/kitzurapp/qa-backend/internal/logger"
	"github.com/kitzurapp/qa-backend/internal/types"
)

type NotificationRepo interface {
	Append(ctx context.Context, tx *gorm.DB, notification *types.Notification) (*types.Notification, error)
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Notification, error)
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (nr *notificationRepo) Append(ctx context.Context, tx *gorm.DB, notification *types.Notification) (*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	if err := transaction.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}

func (nr *notificationRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	var results []*types.Notification
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
