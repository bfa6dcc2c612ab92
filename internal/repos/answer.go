package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kitzurapp/qa-backend/internal/logger"
	"github.com/kitzurapp/qa-backend/internal/types"
)

type AnswerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, answer *types.Answer) (*types.Answer, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Answer, error)
	ListByQuestion(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) ([]*types.Answer, error)
	MarkApproved(ctx context.Context, tx *gorm.DB, id uuid.UUID, verified bool, approvedBy *uuid.UUID, approvedAt time.Time) error
	RecomputeTotalWeight(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	UpdateText(ctx context.Context, tx *gorm.DB, id uuid.UUID, text string, history []types.AnswerEdit) error
}

type answerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnswerRepo(db *gorm.DB, baseLog *logger.Logger) AnswerRepo {
	return &answerRepo{db: db, log: baseLog.With("repo", "AnswerRepo")}
}

func (ar *answerRepo) Create(ctx context.Context, tx *gorm.DB, answer *types.Answer) (*types.Answer, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if err := transaction.WithContext(ctx).Create(answer).Error; err != nil {
		return nil, err
	}
	return answer, nil
}

func (ar *answerRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Answer, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var result types.Answer
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ar *answerRepo) ListByQuestion(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) ([]*types.Answer, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.Answer
	if err := transaction.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("answered_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *answerRepo) MarkApproved(ctx context.Context, tx *gorm.DB, id uuid.UUID, verified bool, approvedBy *uuid.UUID, approvedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	updates := map[string]interface{}{
		"status":      types.AnswerApproved,
		"approved_at": approvedAt,
	}
	if verified {
		updates["is_verified"] = true
	}
	if approvedBy != nil {
		updates["approved_by_user_id"] = *approvedBy
	}
	return transaction.WithContext(ctx).
		Model(&types.Answer{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// RecomputeTotalWeight rebuilds total_approval_weight from the stored
// approvals in one statement. A read-then-write recompute can lose a
// concurrent approver's sum at READ COMMITTED; the subselect runs under
// the row lock the UPDATE takes, so the last writer always sums every
// committed row.
func (ar *answerRepo) RecomputeTotalWeight(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Answer{}).
		Where("id = ?", id).
		Update("total_approval_weight", gorm.Expr(
			"(SELECT COALESCE(SUM(weight), 0) FROM approvals WHERE answer_id = ?)", id,
		)).Error
}

func (ar *answerRepo) UpdateText(ctx context.Context, tx *gorm.DB, id uuid.UUID, text string, history []types.AnswerEdit) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Answer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"text":         text,
			"edit_history": datatypes.NewJSONType(history),
		}).Error
}
