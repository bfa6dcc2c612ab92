package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kitzurapp/qa-backend/internal/apperr"
	"github.com/kitzurapp/qa-backend/internal/logger"
	"github.com/kitzurapp/qa-backend/internal/repos"
	"github.com/kitzurapp/qa-backend/internal/requestdata"
	"github.com/kitzurapp/qa-backend/internal/types"
)

const (
	RateLimitFlagCreate  = 60
	RateLimitFlagResolve = 30
)

var flaggableEntityTypes = map[string]bool{
	"question":   true,
	"answer":     true,
	"discussion": true,
}

type FlagService interface {
	Create(ctx context.Context, entityType, entityID, reason, anonSessionID string) (*types.ModerationFlag, error)
	Resolve(ctx context.Context, flagID uuid.UUID, note string) error
	ListPending(ctx context.Context, limit int) ([]*types.ModerationFlag, error)
}

type flagService struct {
	db       *gorm.DB
	log      *logger.Logger
	flagRepo repos.ModerationFlagRepo
	limiter  RateLimiter
	events   EventService
}

func NewFlagService(db *gorm.DB, log *logger.Logger, flagRepo repos.ModerationFlagRepo, limiter RateLimiter, events EventService) FlagService {
	return &flagService{
		db:       db,
		log:      log.With("service", "FlagService"),
		flagRepo: flagRepo,
		limiter:  limiter,
		events:   events,
	}
}

// Create accepts reports from any identity, including fully anonymous
// callers: the rate-limit key falls back to the literal "anonymous".
func (fs *flagService) Create(ctx context.Context, entityType, entityID, reason, anonSessionID string) (*types.ModerationFlag, error) {
	rd := requestdata.GetRequestData(ctx)

	if !flaggableEntityTypes[entityType] {
		return nil, fmt.Errorf("unknown entity type %q: %w", entityType, apperr.ErrInvalidArgument)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("flag reason required: %w", apperr.ErrInvalidArgument)
	}
	if strings.TrimSpace(entityID) == "" {
		return nil, fmt.Errorf("entity id required: %w", apperr.ErrInvalidArgument)
	}

	anonSessionID = strings.TrimSpace(anonSessionID)
	if anonSessionID == "" && rd != nil {
		anonSessionID = rd.AnonSessionID
	}
	key := "anonymous"
	if rd.IsAuthenticated() {
		key = rd.UserID.String()
	} else if anonSessionID != "" {
		key = anonSessionID
	}

	if err := fs.limiter.CheckAndIncrement(ctx, "flag:"+key, RateLimitFlagCreate); err != nil {
		return nil, err
	}

	flag := &types.ModerationFlag{
		ID:            uuid.New(),
		EntityType:    entityType,
		EntityID:      entityID,
		Reason:        reason,
		Status:        types.FlagPending,
		AnonSessionID: anonSessionID,
	}
	if rd.IsAuthenticated() {
		userID := rd.UserID
		flag.ReporterUserID = &userID
	}

	if _, err := fs.flagRepo.Create(ctx, nil, flag); err != nil {
		return nil, fmt.Errorf("create flag: %w", err)
	}

	fs.events.Emit(Event{
		Action:     "flag.create",
		EntityType: "moderation_flag",
		EntityID:   flag.ID.String(),
		ActorKey:   key,
	})
	return flag, nil
}

func (fs *flagService) Resolve(ctx context.Context, flagID uuid.UUID, note string) error {
	rd := requestdata.GetRequestData(ctx)
	if !rd.IsAuthenticated() {
		return fmt.Errorf("flag resolution requires authentication: %w", apperr.ErrUnauthenticated)
	}
	if !rd.Role.In(types.RoleEditor, types.RoleSuperAdmin) {
		return fmt.Errorf("role %q may not resolve flags: %w", rd.Role, apperr.ErrPermissionDenied)
	}

	if err := fs.limiter.CheckAndIncrement(ctx, "flag-resolve:"+rd.UserID.String(), RateLimitFlagResolve); err != nil {
		return err
	}

	if _, err := fs.flagRepo.GetByID(ctx, nil, flagID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("flag %s: %w", flagID, apperr.ErrNotFound)
		}
		return err
	}

	if err := fs.flagRepo.Resolve(ctx, nil, flagID, rd.UserID, time.Now(), strings.TrimSpace(note)); err != nil {
		return fmt.Errorf("resolve flag: %w", err)
	}

	fs.events.Emit(Event{
		Action:     "flag.resolve",
		EntityType: "moderation_flag",
		EntityID:   flagID.String(),
		ActorKey:   rd.UserID.String(),
	})
	return nil
}

func (fs *flagService) ListPending(ctx context.Context, limit int) ([]*types.ModerationFlag, error) {
	rd := requestdata.GetRequestData(ctx)
	if !rd.IsAuthenticated() {
		return nil, fmt.Errorf("listing flags requires authentication: %w", apperr.ErrUnauthenticated)
	}
	if !rd.Role.In(types.RoleEditor, types.RoleSuperAdmin) {
		return nil, fmt.Errorf("role %q may not list flags: %w", rd.Role, apperr.ErrPermissionDenied)
	}
	return fs.flagRepo.ListPending(ctx, nil, normalizeLimit(limit))
}
