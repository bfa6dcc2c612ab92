package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kitzurapp/qa-backend/internal/apperr"
	"github.com/kitzurapp/qa-backend/internal/logger"
	"github.com/kitzurapp/qa-backend/internal/repos"
	"github.com/kitzurapp/qa-backend/internal/requestdata"
	"github.com/kitzurapp/qa-backend/internal/types"
)

// Per-minute limits for the mutating operations on answers and flags.
const (
	RateLimitApprove = 30
	RateLimitMutate  = 60
)

const minAnswerLength = 20

type ProposeAnswerInput struct {
	Text       string
	Source     string
	RabbiTitle string
	Sources    []types.HalachicSource
}

type AnswerService interface {
	Propose(ctx context.Context, questionID uuid.UUID, input ProposeAnswerInput) (*types.Answer, error)
	Approve(ctx context.Context, questionID, answerID uuid.UUID) error
	AddApproval(ctx context.Context, answerID uuid.UUID, level, comment string) (*types.Approval, error)
	RemoveApproval(ctx context.Context, answerID uuid.UUID) error
	Rate(ctx context.Context, answerID uuid.UUID, helpful bool) error
	WithdrawRating(ctx context.Context, answerID uuid.UUID) error
	Edit(ctx context.Context, answerID uuid.UUID, newText, reason string) error
	GetTrustScore(ctx context.Context, answerID uuid.UUID) (int, error)
	ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*types.Answer, error)
}

type answerService struct {
	db           *gorm.DB
	log          *logger.Logger
	answerRepo   repos.AnswerRepo
	questionRepo repos.QuestionRepo
	approvalRepo repos.ApprovalRepo
	ratingRepo   repos.AnswerRatingRepo
	revisionRepo repos.RevisionRepo
	auditRepo    repos.AuditLogRepo
	limiter      RateLimiter
	events       EventService
}

func NewAnswerService(
	db *gorm.DB,
	log *logger.Logger,
	answerRepo repos.AnswerRepo,
	questionRepo repos.QuestionRepo,
	approvalRepo repos.ApprovalRepo,
	ratingRepo repos.AnswerRatingRepo,
	revisionRepo repos.RevisionRepo,
	auditRepo repos.AuditLogRepo,
	limiter RateLimiter,
	events EventService,
) AnswerService {
	return &answerService{
		db:           db,
		log:          log.With("service", "AnswerService"),
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		approvalRepo: approvalRepo,
		ratingRepo:   ratingRepo,
		revisionRepo: revisionRepo,
		auditRepo:    auditRepo,
		limiter:      limiter,
		events:       events,
	}
}

// Propose creates a draft answer. Legal answers must be sourced: at least
// one citation with book and siman is required.
func (svc *answerService) Propose(ctx context.Context, questionID uuid.UUID, input ProposeAnswerInput) (*types.Answer, error) {
	rd := requestdata.GetRequestData(ctx)
	if !rd.IsAuthenticated() && (rd == nil || rd.AnonSessionID == "") {
		return nil, fmt.Errorf("identity required to propose an answer: %w", apperr.ErrInvalidArgument)
	}

	text := strings.TrimSpace(input.Text)
	if len([]rune(text)) < minAnswerLength {
		return nil, fmt.Errorf("answer text must be at least %d characters: %w", minAnswerLength, apperr.ErrInvalidArgument)
	}
	if len(input.Sources) == 0 {
		return nil, fmt.Errorf("at least one halachic source required: %w", apperr.ErrInvalidArgument)
	}
	for _, s := range input.Sources {
		if strings.TrimSpace(s.Book) == "" || strings.TrimSpace(s.Siman) == "" {
			return nil, fmt.Errorf("source citation requires book and siman: %w", apperr.ErrInvalidArgument)
		}
	}
	source := types.SourceCommunity
	if input.Source != "" {
		parsed, ok := types.ParseAnswerSource(input.Source)
		if !ok {
			return nil, fmt.Errorf("unknown answer source %q: %w", input.Source, apperr.ErrInvalidArgument)
		}
		source = parsed
	}

	if err := svc.limiter.CheckAndIncrement(ctx, "answer:"+rd.ActorKey(), RateLimitMutate); err != nil {
		return nil, err
	}

	if _, err := svc.questionRepo.GetByID(ctx, nil, questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question %s: %w", questionID, apperr.ErrNotFound)
		}
		return nil, err
	}

	answer := &types.Answer{
		ID:          uuid.New(),
		QuestionID:  questionID,
		Text:        text,
		Source:      source,
		RabbiTitle:  strings.TrimSpace(input.RabbiTitle),
		Sources:     datatypes.NewJSONType(input.Sources),
		Status:      types.AnswerDraft,
		EditHistory: datatypes.NewJSONType([]types.AnswerEdit{}),
		AnsweredAt:  time.Now(),
	}
	if rd.IsAuthenticated() {
		userID := rd.UserID
		answer.AuthorUserID = &userID
		answer.AuthorName = rd.DisplayName
	}

	if _, err := svc.answerRepo.Create(ctx, nil, answer); err != nil {
		return nil, fmt.Errorf("create answer: %w", err)
	}

	svc.events.Emit(Event{
		Action:     "answer.create",
		EntityType: "answer",
		EntityID:   answer.ID.String(),
		ActorKey:   rd.ActorKey(),
	})
	return answer, nil
}

// Approve is the authority path: a Posek or SuperAdmin verifies the
// answer. The answer update, the question update, the revision and the
// audit entry commit in one transaction; no partial state survives a
// mid-sequence failure.
func (svc *answerService) Approve(ctx context.Context, questionID, answerID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if !rd.IsAuthenticated() {
		return fmt.Errorf("approval requires authentication: %w", apperr.ErrUnauthenticated)
	}
	if !rd.Role.In(types.RolePosek, types.RoleSuperAdmin) {
		return fmt.Errorf("role %q may not approve answers: %w", rd.Role, apperr.ErrPermissionDenied)
	}

	if err := svc.limiter.CheckAndIncrement(ctx, "approve:"+rd.UserID.String(), RateLimitApprove); err != nil {
		return err
	}

	now := time.Now()
	approverID := rd.UserID
	return svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		answer, err := svc.answerRepo.GetByID(ctx, tx, answerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("answer %s: %w", answerID, apperr.ErrNotFound)
			}
			return err
		}
		if answer.QuestionID != questionID {
			return fmt.Errorf("answer %s does not belong to question %s: %w", answerID, questionID, apperr.ErrNotFound)
		}
		if err := svc.answerRepo.MarkApproved(ctx, tx, answerID, true, &approverID, now); err != nil {
			return fmt.Errorf("mark answer approved: %w", err)
		}
		if err := svc.questionRepo.UpdateStatus(ctx, tx, questionID, types.QuestionApproved); err != nil {
			return fmt.Errorf("mark question approved: %w", err)
		}
		if _, err := svc.revisionRepo.Append(ctx, tx, &types.Revision{
			ID:            uuid.New(),
			EntityType:    "answer",
			EntityID:      answerID.String(),
			ChangeSummary: "Answer approved",
			ChangedBy:     approverID.String(),
		}); err != nil {
			return fmt.Errorf("append revision: %w", err)
		}
		if _, err := svc.auditRepo.Append(ctx, tx, &types.AuditLogEntry{
			ID:         uuid.New(),
			Action:     "answer.approve",
			EntityType: "answer",
			EntityID:   answerID.String(),
			ActorKey:   approverID.String(),
		}); err != nil {
			return fmt.Errorf("append audit entry: %w", err)
		}
		return nil
	})
}

// AddApproval records a weighted endorsement. A repeated approval from
// the same identity replaces the stored one, and the answer's total
// weight is recomputed from the stored approvals on every change.
func (svc *answerService) AddApproval(ctx context.Context, answerID uuid.UUID, level, comment string) (*types.Approval, error) {
	rd := requestdata.GetRequestData(ctx)
	if !rd.IsAuthenticated() {
		return nil, fmt.Errorf("approvals require authentication: %w", apperr.ErrUnauthenticated)
	}
	parsedLevel, err := types.ParseApprovalLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperr.ErrInvalidArgument)
	}

	if err := svc.limiter.CheckAndIncrement(ctx, "approval:"+rd.UserID.String(), RateLimitMutate); err != nil {
		return nil, err
	}

	approval := &types.Approval{
		ID:             uuid.New(),
		AnswerID:       answerID,
		ApproverKey:    rd.UserID.String(),
		ApproverUserID: rd.UserID,
		ApproverName:   rd.DisplayName,
		Level:          parsedLevel,
		Role:           rd.Role,
		Weight:         types.ApprovalWeights[parsedLevel],
		Comment:        strings.TrimSpace(comment),
	}

	err = svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		answer, gErr := svc.answerRepo.GetByID(ctx, tx, answerID)
		if gErr != nil {
			if errors.Is(gErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("answer %s: %w", answerID, apperr.ErrNotFound)
			}
			return gErr
		}
		if _, uErr := svc.approvalRepo.Upsert(ctx, tx, approval); uErr != nil {
			return fmt.Errorf("upsert approval: %w", uErr)
		}
		if rErr := svc.recomputeWeight(ctx, tx, answer); rErr != nil {
			return rErr
		}
		return svc.maybeApproveByThreshold(ctx, tx, answer)
	})
	if err != nil {
		return nil, err
	}

	svc.events.Emit(Event{
		Action:     "answer.approval.add",
		EntityType: "answer",
		EntityID:   answerID.String(),
		ActorKey:   rd.UserID.String(),
	})
	return approval, nil
}

func (svc *answerService) RemoveApproval(ctx context.Context, answerID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if !rd.IsAuthenticated() {
		return fmt.Errorf("approvals require authentication: %w", apperr.ErrUnauthenticated)
	}
	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		answer, gErr := svc.answerRepo.GetByID(ctx, tx, answerID)
		if gErr != nil {
			if errors.Is(gErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("answer %s: %w", answerID, apperr.ErrNotFound)
			}
			return gErr
		}
		if dErr := svc.approvalRepo.DeleteByAnswerAndApprover(ctx, tx, answerID, rd.UserID.String()); dErr != nil {
			return fmt.Errorf("delete approval: %w", dErr)
		}
		return svc.recomputeWeight(ctx, tx, answer)
	})
	if err != nil {
		return err
	}
	svc.events.Emit(Event{
		Action:     "answer.approval.remove",
		EntityType: "answer",
		EntityID:   answerID.String(),
		ActorKey:   rd.UserID.String(),
	})
	return nil
}

func (svc *answerService) recomputeWeight(ctx context.Context, tx *gorm.DB, answer *types.Answer) error {
	if err := svc.answerRepo.RecomputeTotalWeight(ctx, tx, answer.ID); err != nil {
		return fmt.Errorf("recompute total weight: %w", err)
	}
	return nil
}

// maybeApproveByThreshold advances a draft answer once enough distinct
// approvals accumulate. The community path does not set is_verified;
// verification is reserved for the Posek/SuperAdmin approval protocol.
func (svc *answerService) maybeApproveByThreshold(ctx context.Context, tx *gorm.DB, answer *types.Answer) error {
	if answer.Status != types.AnswerDraft {
		return nil
	}
	question, err := svc.questionRepo.GetByID(ctx, tx, answer.QuestionID)
	if err != nil {
		return fmt.Errorf("load parent question: %w", err)
	}
	count, err := svc.approvalRepo.CountByAnswer(ctx, tx, answer.ID)
	if err != nil {
		return fmt.Errorf("count approvals: %w", err)
	}
	if count < int64(question.MinimumApprovalsRequired) {
		return nil
	}
	if err := svc.answerRepo.MarkApproved(ctx, tx, answer.ID, false, nil, time.Now()); err != nil {
		return fmt.Errorf("mark answer approved: %w", err)
	}
	if err := svc.questionRepo.UpdateStatus(ctx, tx, question.ID, types.QuestionApproved); err != nil {
		return fmt.Errorf("mark question approved: %w", err)
	}
	if _, err := svc.revisionRepo.Append(ctx, tx, &types.Revision{
		ID:            uuid.New(),
		EntityType:    "answer",
		EntityID:      answer.ID.String(),
		ChangeSummary: "Answer approved",
		ChangedBy:     "community-threshold",
	}); err != nil {
		return fmt.Errorf("append revision: %w", err)
	}
	return nil
}

// Rate upserts the caller's helpful/not-helpful vote and rebuilds the
// question's stats from the stored ratings, so a changed vote retracts
// the previous contribution instead of double counting.
func (svc *answerService) Rate(ctx context.Context, answerID uuid.UUID, helpful bool) error {
	rd := requestdata.GetRequestData(ctx)
	raterKey := rd.ActorKey()
	if raterKey == "anonymous" {
		return fmt.Errorf("rating requires an identity or session id: %w", apperr.ErrInvalidArgument)
	}

	if err := svc.limiter.CheckAndIncrement(ctx, "rate:"+raterKey, RateLimitMutate); err != nil {
		return err
	}

	return svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		answer, err := svc.answerRepo.GetByID(ctx, tx, answerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("answer %s: %w", answerID, apperr.ErrNotFound)
			}
			return err
		}
		if _, err := svc.ratingRepo.Upsert(ctx, tx, &types.AnswerRating{
			ID:         uuid.New(),
			AnswerID:   answerID,
			QuestionID: answer.QuestionID,
			RaterKey:   raterKey,
			Helpful:    helpful,
		}); err != nil {
			return fmt.Errorf("upsert rating: %w", err)
		}
		return svc.syncQuestionRatingStats(ctx, tx, answer.QuestionID)
	})
}

func (svc *answerService) WithdrawRating(ctx context.Context, answerID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	raterKey := rd.ActorKey()
	if raterKey == "anonymous" {
		return fmt.Errorf("rating requires an identity or session id: %w", apperr.ErrInvalidArgument)
	}
	return svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		answer, err := svc.answerRepo.GetByID(ctx, tx, answerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("answer %s: %w", answerID, apperr.ErrNotFound)
			}
			return err
		}
		if err := svc.ratingRepo.DeleteByAnswerAndRater(ctx, tx, answerID, raterKey); err != nil {
			return fmt.Errorf("delete rating: %w", err)
		}
		return svc.syncQuestionRatingStats(ctx, tx, answer.QuestionID)
	})
}

func (svc *answerService) syncQuestionRatingStats(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) error {
	if err := svc.questionRepo.RecomputeRatingStats(ctx, tx, questionID); err != nil {
		return fmt.Errorf("recompute question stats: %w", err)
	}
	return nil
}

// Edit rewrites an approved answer's text without reverting its state;
// the prior text is preserved in the edit history.
func (svc *answerService) Edit(ctx context.Context, answerID uuid.UUID, newText, reason string) error {
	rd := requestdata.GetRequestData(ctx)
	if !rd.IsAuthenticated() {
		return fmt.Errorf("editing requires authentication: %w", apperr.ErrUnauthenticated)
	}
	if !rd.Role.In(types.RoleEditor, types.RoleSuperAdmin) {
		return fmt.Errorf("role %q may not edit answers: %w", rd.Role, apperr.ErrPermissionDenied)
	}
	newText = strings.TrimSpace(newText)
	if len([]rune(newText)) < minAnswerLength {
		return fmt.Errorf("answer text must be at least %d characters: %w", minAnswerLength, apperr.ErrInvalidArgument)
	}

	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		answer, gErr := svc.answerRepo.GetByID(ctx, tx, answerID)
		if gErr != nil {
			if errors.Is(gErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("answer %s: %w", answerID, apperr.ErrNotFound)
			}
			return gErr
		}
		history := append(answer.EditHistory.Data(), types.AnswerEdit{
			EditedBy:     rd.UserID,
			EditedByRole: rd.Role,
			EditedAt:     time.Now(),
			PreviousText: answer.Text,
			Reason:       strings.TrimSpace(reason),
		})
		if uErr := svc.answerRepo.UpdateText(ctx, tx, answerID, newText, history); uErr != nil {
			return fmt.Errorf("update answer text: %w", uErr)
		}
		if _, rErr := svc.revisionRepo.Append(ctx, tx, &types.Revision{
			ID:            uuid.New(),
			EntityType:    "answer",
			EntityID:      answerID.String(),
			ChangeSummary: "Answer edited",
			ChangedBy:     rd.UserID.String(),
		}); rErr != nil {
			return fmt.Errorf("append revision: %w", rErr)
		}
		return nil
	})
	if err != nil {
		return err
	}
	svc.events.Emit(Event{
		Action:     "answer.edit",
		EntityType: "answer",
		EntityID:   answerID.String(),
		ActorKey:   rd.UserID.String(),
	})
	return nil
}

func (svc *answerService) GetTrustScore(ctx context.Context, answerID uuid.UUID) (int, error) {
	answer, err := svc.answerRepo.GetByID(ctx, nil, answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("answer %s: %w", answerID, apperr.ErrNotFound)
		}
		return 0, err
	}
	question, err := svc.questionRepo.GetByID(ctx, nil, answer.QuestionID)
	if err != nil {
		return 0, fmt.Errorf("load parent question: %w", err)
	}
	return TrustScore(answer.IsVerified, answer.TotalApprovalWeight, question.Helpful, question.NotHelpful), nil
}

func (svc *answerService) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*types.Answer, error) {
	return svc.answerRepo.ListByQuestion(ctx, nil, questionID)
}
