package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kitzurapp/qa-backend/internal/apperr"
	"github.com/kitzurapp/qa-backend/internal/logger"
	"github.com/kitzurapp/qa-backend/internal/repos"
	"github.com/kitzurapp/qa-backend/internal/requestdata"
	"github.com/kitzurapp/qa-backend/internal/types"
)

type SubmitQuestionInput struct {
	Title         string
	Body          string
	Category      string
	Visibility    string
	AnonSessionID string
}

type QuestionService interface {
	Submit(ctx context.Context, input SubmitQuestionInput) (*types.Question, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Question, error)
	ListByCategory(ctx context.Context, category string, limit int) ([]*types.Question, error)
	ListRecent(ctx context.Context, limit int) ([]*types.Question, error)
	ListPopular(ctx context.Context, limit int) ([]*types.Question, error)
	ListUnanswered(ctx context.Context, limit int) ([]*types.Question, error)
	Search(ctx context.Context, query string, limit int) ([]*types.Question, error)
	FindDuplicates(ctx context.Context, id uuid.UUID) ([]*types.Question, error)
	IncrementShares(ctx context.Context, id uuid.UUID) error
}

type questionService struct {
	db           *gorm.DB
	log          *logger.Logger
	questionRepo repos.QuestionRepo
	events       EventService
}

func NewQuestionService(db *gorm.DB, log *logger.Logger, questionRepo repos.QuestionRepo, events EventService) QuestionService {
	return &questionService{
		db:           db,
		log:          log.With("service", "QuestionService"),
		questionRepo: questionRepo,
		events:       events,
	}
}

// commonQuestionWords are skipped when extracting tags from a title.
var commonQuestionWords = map[string]bool{
	"האם": true, "מה": true, "איך": true, "למה": true,
	"מתי": true, "איפה": true, "כמה": true,
}

func extractTags(text string) []string {
	var tags []string
	for _, word := range strings.Fields(text) {
		if len([]rune(word)) <= 2 || commonQuestionWords[word] {
			continue
		}
		tags = append(tags, word)
		if len(tags) == 5 {
			break
		}
	}
	return tags
}

func (qs *questionService) Submit(ctx context.Context, input SubmitQuestionInput) (*types.Question, error) {
	rd := requestdata.GetRequestData(ctx)

	anonSessionID := strings.TrimSpace(input.AnonSessionID)
	if anonSessionID == "" && rd != nil {
		anonSessionID = rd.AnonSessionID
	}
	authenticated := rd.IsAuthenticated()
	if !authenticated && anonSessionID == "" {
		return nil, fmt.Errorf("anonymous submission requires a session id: %w", apperr.ErrInvalidArgument)
	}

	title := strings.TrimSpace(input.Title)
	body := strings.TrimSpace(input.Body)
	if title == "" || body == "" {
		return nil, fmt.Errorf("title and body required: %w", apperr.ErrInvalidArgument)
	}
	category, err := types.ParseQuestionCategory(input.Category)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperr.ErrInvalidArgument)
	}
	visibility := types.VisibilityPublic
	switch input.Visibility {
	case "", string(types.VisibilityPublic):
	case string(types.VisibilityPrivate):
		visibility = types.VisibilityPrivate
	default:
		return nil, fmt.Errorf("unknown visibility %q: %w", input.Visibility, apperr.ErrInvalidArgument)
	}

	question := &types.Question{
		ID:                       uuid.New(),
		Title:                    title,
		Body:                     body,
		Category:                 category,
		AnonSessionID:            anonSessionID,
		Status:                   types.QuestionPendingReview,
		Visibility:               visibility,
		MinimumApprovalsRequired: types.DefaultMinimumApprovals,
		Tags:                     datatypes.NewJSONType(extractTags(title)),
		RelatedQuestionIDs:       datatypes.NewJSONType([]uuid.UUID{}),
	}
	if authenticated {
		userID := rd.UserID
		question.AskedByUserID = &userID
		question.AskedByName = rd.DisplayName
		question.AnonSessionID = ""
	}

	err = qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Derive-if-absent guard lives inside the persisting transaction
		// so two concurrent writers cannot race to different values.
		if question.Slug == "" {
			question.Slug = BuildSlug(question.Title, question.ID.String())
		}
		if question.ContentHash == "" {
			question.ContentHash = BuildContentHash(question.Title, question.Body, anonSessionID)
		}
		_, cErr := qs.questionRepo.Create(ctx, tx, question)
		return cErr
	})
	if err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}

	// Best-effort side effects, decoupled from the commit above.
	// The session id may have arrived only in the request body, so the
	// audit actor falls back to it rather than to rd.
	actorKey := rd.ActorKey()
	if actorKey == "anonymous" && anonSessionID != "" {
		actorKey = anonSessionID
	}
	qs.events.Emit(Event{
		Action:           "question.create",
		EntityType:       "question",
		EntityID:         question.ID.String(),
		ActorKey:         actorKey,
		NotificationType: "question.created",
		Payload:          map[string]interface{}{"questionId": question.ID.String()},
	})

	return question, nil
}

func (qs *questionService) GetByID(ctx context.Context, id uuid.UUID) (*types.Question, error) {
	question, err := qs.questionRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question %s: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	if err := qs.questionRepo.IncrementViews(ctx, nil, id); err != nil {
		qs.log.Warn("View increment failed", "question_id", id, "error", err)
	}
	return question, nil
}

func (qs *questionService) ListByCategory(ctx context.Context, category string, limit int) ([]*types.Question, error) {
	cat, err := types.ParseQuestionCategory(category)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperr.ErrInvalidArgument)
	}
	return qs.questionRepo.ListByCategory(ctx, nil, cat, normalizeLimit(limit))
}

func (qs *questionService) ListRecent(ctx context.Context, limit int) ([]*types.Question, error) {
	return qs.questionRepo.ListRecent(ctx, nil, normalizeLimit(limit))
}

func (qs *questionService) ListPopular(ctx context.Context, limit int) ([]*types.Question, error) {
	return qs.questionRepo.ListPopular(ctx, nil, normalizeLimit(limit))
}

func (qs *questionService) ListUnanswered(ctx context.Context, limit int) ([]*types.Question, error) {
	return qs.questionRepo.ListUnanswered(ctx, nil, normalizeLimit(limit))
}

func (qs *questionService) Search(ctx context.Context, query string, limit int) ([]*types.Question, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty search query: %w", apperr.ErrInvalidArgument)
	}
	return qs.questionRepo.Search(ctx, nil, query, normalizeLimit(limit))
}

// FindDuplicates surfaces other questions sharing the content hash. The
// policy of what to do with a duplicate is left to the moderator.
func (qs *questionService) FindDuplicates(ctx context.Context, id uuid.UUID) ([]*types.Question, error) {
	question, err := qs.questionRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question %s: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	all, err := qs.questionRepo.ListByContentHash(ctx, nil, question.ContentHash)
	if err != nil {
		return nil, err
	}
	out := make([]*types.Question, 0, len(all))
	for _, q := range all {
		if q.ID != id {
			out = append(out, q)
		}
	}
	return out, nil
}

func (qs *questionService) IncrementShares(ctx context.Context, id uuid.UUID) error {
	return qs.questionRepo.IncrementShares(ctx, nil, id)
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 10
	}
	return limit
}
