package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kitzurapp/qa-backend/internal/logger"
	"github.com/kitzurapp/qa-backend/internal/types"
)

type ApprovalRepo interface {
	// Upsert stores at most one approval per approver key per answer: a
	// repeated approval replaces the prior row in place.
	Upsert(ctx context.Context, tx *gorm.DB, approval *types.Approval) (*types.Approval, error)
	GetByAnswerAndApprover(ctx context.Context, tx *gorm.DB, answerID uuid.UUID, approverKey string) (*types.Approval, error)
	ListByAnswer(ctx context.Context, tx *gorm.DB, answerID uuid.UUID) ([]*types.Approval, error)
	SumWeights(ctx context.Context, tx *gorm.DB, answerID uuid.UUID) (int, error)
	CountByAnswer(ctx context.Context, tx *gorm.DB, answerID uuid.UUID) (int64, error)
	DeleteByAnswerAndApprover(ctx context.Context, tx *gorm.DB, answerID uuid.UUID, approverKey string) error
}

type approvalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewApprovalRepo(db *gorm.DB, baseLog *logger.Logger) ApprovalRepo {
	return &approvalRepo{db: db, log: baseLog.With("repo", "ApprovalRepo")}
}

func (ar *approvalRepo) Upsert(ctx context.Context, tx *gorm.DB, approval *types.Approval) (*types.Approval, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	existing, err := ar.GetByAnswerAndApprover(ctx, transaction, approval.AnswerID, approval.ApproverKey)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		approval.ID = existing.ID
		approval.CreatedAt = existing.CreatedAt
		if err := transaction.WithContext(ctx).
			Model(&types.Approval{}).
			Where("id = ?", existing.ID).
			Updates(map[string]interface{}{
				"level":         approval.Level,
				"role":          approval.Role,
				"weight":        approval.Weight,
				"comment":       approval.Comment,
				"approver_name": approval.ApproverName,
			}).Error; err != nil {
			return nil, err
		}
		return approval, nil
	}
	if err := transaction.WithContext(ctx).Create(approval).Error; err != nil {
		return nil, err
	}
	return approval, nil
}

func (ar *approvalRepo) GetByAnswerAndApprover(ctx context.Context, tx *gorm.DB, answerID uuid.UUID, approverKey string) (*types.Approval, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var result types.Approval
	if err := transaction.WithContext(ctx).
		Where("answer_id = ? AND approver_key = ?", answerID, approverKey).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ar *approvalRepo) ListByAnswer(ctx context.Context, tx *gorm.DB, answerID uuid.UUID) ([]*types.Approval, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.Approval
	if err := transaction.WithContext(ctx).
		Where("answer_id = ?", answerID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *approvalRepo) SumWeights(ctx context.Context, tx *gorm.DB, answerID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var sum *int
	if err := transaction.WithContext(ctx).
		Model(&types.Approval{}).
		Where("answer_id = ?", answerID).
		Select("SUM(weight)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

func (ar *approvalRepo) CountByAnswer(ctx context.Context, tx *gorm.DB, answerID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Approval{}).
		Where("answer_id = ?", answerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (ar *approvalRepo) DeleteByAnswerAndApprover(ctx context.Context, tx *gorm.DB, answerID uuid.UUID, approverKey string) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).
		Where("answer_id = ? AND approver_key = ?", answerID, approverKey).
		Delete(&types.Approval{}).Error
}
