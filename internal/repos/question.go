package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kitzurapp/qa-backend/internal/logger"
	"github.com/kitzurapp/qa-backend/internal/types"
)

type QuestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, question *types.Question) (*types.Question, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Question, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Question, error)
	ListByCategory(ctx context.Context, tx *gorm.DB, category types.QuestionCategory, limit int) ([]*types.Question, error)
	ListByContentHash(ctx context.Context, tx *gorm.DB, contentHash string) ([]*types.Question, error)
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Question, error)
	ListPopular(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Question, error)
	ListUnanswered(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Question, error)
	Search(ctx context.Context, tx *gorm.DB, query string, limit int) ([]*types.Question, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.QuestionStatus) error
	RecomputeRatingStats(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	IncrementViews(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	IncrementShares(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{db: db, log: baseLog.With("repo", "QuestionRepo")}
}

func (qr *questionRepo) Create(ctx context.Context, tx *gorm.DB, question *types.Question) (*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	if err := transaction.WithContext(ctx).Create(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

func (qr *questionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var result types.Question
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (qr *questionRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var result types.Question
	if err := transaction.WithContext(ctx).
		Where("slug = ?", slug).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (qr *questionRepo) ListByCategory(ctx context.Context, tx *gorm.DB, category types.QuestionCategory, limit int) ([]*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var results []*types.Question
	if err := transaction.WithContext(ctx).
		Where("category = ? AND visibility = ?", category, types.VisibilityPublic).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (qr *questionRepo) ListByContentHash(ctx context.Context, tx *gorm.DB, contentHash string) ([]*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var results []*types.Question
	if err := transaction.WithContext(ctx).
		Where("content_hash = ?", contentHash).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (qr *questionRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var results []*types.Question
	if err := transaction.WithContext(ctx).
		Where("visibility = ?", types.VisibilityPublic).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (qr *questionRepo) ListPopular(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var results []*types.Question
	if err := transaction.WithContext(ctx).
		Where("visibility = ?", types.VisibilityPublic).
		Order("views DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (qr *questionRepo) ListUnanswered(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var results []*types.Question
	if err := transaction.WithContext(ctx).
		Where("visibility = ? AND id NOT IN (?)",
			types.VisibilityPublic,
			transaction.Session(&gorm.Session{NewDB: true}).Model(&types.Answer{}).Select("question_id"),
		).
		Order("created_at ASC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (qr *questionRepo) Search(ctx context.Context, tx *gorm.DB, query string, limit int) ([]*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var results []*types.Question
	pattern := "%" + query + "%"
	if err := transaction.WithContext(ctx).
		Where("visibility = ? AND (title LIKE ? OR body LIKE ?)", types.VisibilityPublic, pattern, pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (qr *questionRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.QuestionStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Question{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// RecomputeRatingStats rebuilds the helpful / not-helpful counters from
// the stored ratings in one statement, for the same reason as
// AnswerRepo.RecomputeTotalWeight: two concurrent raters must not
// overwrite each other's counts with stale sums.
func (qr *questionRepo) RecomputeRatingStats(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Question{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"helpful":     gorm.Expr("(SELECT COUNT(*) FROM answer_ratings WHERE question_id = ? AND helpful = ?)", id, true),
			"not_helpful": gorm.Expr("(SELECT COUNT(*) FROM answer_ratings WHERE question_id = ? AND helpful = ?)", id, false),
		}).Error
}

func (qr *questionRepo) IncrementViews(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Question{}).
		Where("id = ?", id).
		Update("views", gorm.Expr("views + 1")).Error
}

func (qr *questionRepo) IncrementShares(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Question{}).
		Where("id = ?", id).
		Update("shares", gorm.Expr("shares + 1")).Error
}
