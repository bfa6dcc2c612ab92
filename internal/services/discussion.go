package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kitzurapp/qa-backend/internal/apperr"
	"github.com/kitzurapp/qa-backend/internal/logger"
	"github.com/kitzurapp/qa-backend/internal/repos"
	"github.com/kitzurapp/qa-backend/internal/requestdata"
	"github.com/kitzurapp/qa-backend/internal/types"
)

type DiscussionService interface {
	AddRemark(ctx context.Context, questionID uuid.UUID, entryType, body, anonSessionID string) (*types.DiscussionEntry, error)
	Moderate(ctx context.Context, entryID uuid.UUID, approve bool) error
	ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*types.DiscussionEntry, error)
}

type discussionService struct {
	db             *gorm.DB
	log            *logger.Logger
	discussionRepo repos.DiscussionRepo
	questionRepo   repos.QuestionRepo
	limiter        RateLimiter
	events         EventService
}

func NewDiscussionService(db *gorm.DB, log *logger.Logger, discussionRepo repos.DiscussionRepo, questionRepo repos.QuestionRepo, limiter RateLimiter, events EventService) DiscussionService {
	return &discussionService{
		db:             db,
		log:            log.With("service", "DiscussionService"),
		discussionRepo: discussionRepo,
		questionRepo:   questionRepo,
		limiter:        limiter,
		events:         events,
	}
}

// AddRemark creates a discussion entry. Entries always start pending;
// there is no way to create one directly in an approved state.
func (ds *discussionService) AddRemark(ctx context.Context, questionID uuid.UUID, entryType, body, anonSessionID string) (*types.DiscussionEntry, error) {
	rd := requestdata.GetRequestData(ctx)

	anonSessionID = strings.TrimSpace(anonSessionID)
	if anonSessionID == "" && rd != nil {
		anonSessionID = rd.AnonSessionID
	}
	if !rd.IsAuthenticated() && anonSessionID == "" {
		return nil, fmt.Errorf("anonymous remark requires a session id: %w", apperr.ErrInvalidArgument)
	}

	parsedType, ok := types.ParseDiscussionType(entryType)
	if !ok {
		return nil, fmt.Errorf("unknown discussion type %q: %w", entryType, apperr.ErrInvalidArgument)
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("remark body required: %w", apperr.ErrInvalidArgument)
	}

	if err := ds.limiter.CheckAndIncrement(ctx, "discussion:"+rd.ActorKey(), RateLimitMutate); err != nil {
		return nil, err
	}

	if _, err := ds.questionRepo.GetByID(ctx, nil, questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question %s: %w", questionID, apperr.ErrNotFound)
		}
		return nil, err
	}

	entry := &types.DiscussionEntry{
		ID:            uuid.New(),
		QuestionID:    questionID,
		Type:          parsedType,
		Body:          body,
		Status:        types.DiscussionPending,
		AnonSessionID: anonSessionID,
	}
	if rd.IsAuthenticated() {
		userID := rd.UserID
		entry.AskedByUserID = &userID
		entry.AnonSessionID = ""
	}

	if _, err := ds.discussionRepo.Create(ctx, nil, entry); err != nil {
		return nil, fmt.Errorf("create discussion entry: %w", err)
	}

	ds.events.Emit(Event{
		Action:     "discussion.create",
		EntityType: "discussion",
		EntityID:   entry.ID.String(),
		ActorKey:   rd.ActorKey(),
	})
	return entry, nil
}

func (ds *discussionService) Moderate(ctx context.Context, entryID uuid.UUID, approve bool) error {
	rd := requestdata.GetRequestData(ctx)
	if !rd.IsAuthenticated() {
		return fmt.Errorf("moderation requires authentication: %w", apperr.ErrUnauthenticated)
	}
	if !rd.Role.In(types.RoleEditor, types.RoleSuperAdmin) {
		return fmt.Errorf("role %q may not moderate discussions: %w", rd.Role, apperr.ErrPermissionDenied)
	}
	if !approve {
		return nil
	}
	if _, err := ds.discussionRepo.GetByID(ctx, nil, entryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("discussion entry %s: %w", entryID, apperr.ErrNotFound)
		}
		return err
	}
	if err := ds.discussionRepo.UpdateStatus(ctx, nil, entryID, types.DiscussionStatusApproved); err != nil {
		return fmt.Errorf("approve discussion entry: %w", err)
	}
	ds.events.Emit(Event{
		Action:     "discussion.approve",
		EntityType: "discussion",
		EntityID:   entryID.String(),
		ActorKey:   rd.UserID.String(),
	})
	return nil
}

func (ds *discussionService) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*types.DiscussionEntry, error) {
	return ds.discussionRepo.ListByQuestion(ctx, nil, questionID)
}
