package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kitzurapp/qa-backend/internal/logger"
	"github.com/kitzurapp/qa-backend/internal/types"
)

type AnswerRatingRepo interface {
	// Upsert keeps one rating per rater key per answer; a changed vote
	// overwrites the stored row.
	Upsert(ctx context.Context, tx *gorm.DB, rating *types.AnswerRating) (*types.AnswerRating, error)
	DeleteByAnswerAndRater(ctx context.Context, tx *gorm.DB, answerID uuid.UUID, raterKey string) error
	CountByAnswer(ctx context.Context, tx *gorm.DB, answerID uuid.UUID) (helpful int, notHelpful int, err error)
	CountByQuestion(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) (helpful int, notHelpful int, err error)
}

type answerRatingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnswerRatingRepo(db *gorm.DB, baseLog *logger.Logger) AnswerRatingRepo {
	return &answerRatingRepo{db: db, log: baseLog.With("repo", "AnswerRatingRepo")}
}

func (rr *answerRatingRepo) Upsert(ctx context.Context, tx *gorm.DB, rating *types.AnswerRating) (*types.AnswerRating, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var existing types.AnswerRating
	err := transaction.WithContext(ctx).
		Where("answer_id = ? AND rater_key = ?", rating.AnswerID, rating.RaterKey).
		First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil {
		rating.ID = existing.ID
		rating.CreatedAt = existing.CreatedAt
		if uErr := transaction.WithContext(ctx).
			Model(&types.AnswerRating{}).
			Where("id = ?", existing.ID).
			Update("helpful", rating.Helpful).Error; uErr != nil {
			return nil, uErr
		}
		return rating, nil
	}
	if cErr := transaction.WithContext(ctx).Create(rating).Error; cErr != nil {
		return nil, cErr
	}
	return rating, nil
}

func (rr *answerRatingRepo) DeleteByAnswerAndRater(ctx context.Context, tx *gorm.DB, answerID uuid.UUID, raterKey string) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Where("answer_id = ? AND rater_key = ?", answerID, raterKey).
		Delete(&types.AnswerRating{}).Error
}

func (rr *answerRatingRepo) CountByAnswer(ctx context.Context, tx *gorm.DB, answerID uuid.UUID) (int, int, error) {
	return rr.countWhere(ctx, tx, "answer_id = ?", answerID)
}

func (rr *answerRatingRepo) CountByQuestion(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) (int, int, error) {
	return rr.countWhere(ctx, tx, "question_id = ?", questionID)
}

func (rr *answerRatingRepo) countWhere(ctx context.Context, tx *gorm.DB, cond string, arg interface{}) (int, int, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var helpful, notHelpful int64
	if err := transaction.WithContext(ctx).
		Model(&types.AnswerRating{}).
		Where(cond, arg).
		Where("helpful = ?", true).
		Count(&helpful).Error; err != nil {
		return 0, 0, err
	}
	if err := transaction.WithContext(ctx).
		Model(&types.AnswerRating{}).
		Where(cond, arg).
		Where("helpful = ?", false).
		Count(&notHelpful).Error; err != nil {
		return 0, 0, err
	}
	return int(helpful), int(notHelpful), nil
}
