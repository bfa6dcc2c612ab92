package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/kitzurapp/qa-backend/internal/logger"
	"github.com/kitzurapp/qa-backend/internal/repos"
	"github.com/kitzurapp/qa-backend/internal/types"
	"github.com/google/uuid"
)

// Event is one best-effort side effect emitted after a primary commit:
// an audit entry plus, optionally, a notification record. Handler failure
// is logged and never visible to the original caller. Writes that must be
// atomic with the primary operation go through the repos inside that
// operation's transaction instead.
type Event struct {
	Action           string
	EntityType       string
	EntityID         string
	ActorKey         string
	NotificationType string
	Payload          map[string]interface{}
}

type EventService interface {
	Emit(event Event)
	Start(ctx context.Context)
	Drain() error
}

type eventService struct {
	db        *gorm.DB
	log       *logger.Logger
	auditRepo repos.AuditLogRepo
	notifRepo repos.NotificationRepo

	ch        chan Event
	group     *errgroup.Group
	startOnce sync.Once
	drainOnce sync.Once
}

func NewEventService(db *gorm.DB, log *logger.Logger, auditRepo repos.AuditLogRepo, notifRepo repos.NotificationRepo) EventService {
	return &eventService{
		db:        db,
		log:       log.With("service", "EventService"),
		auditRepo: auditRepo,
		notifRepo: notifRepo,
		ch:        make(chan Event, 256),
	}
}

func (es *eventService) Start(ctx context.Context) {
	es.startOnce.Do(func() {
		group, gctx := errgroup.WithContext(ctx)
		es.group = group
		group.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					es.flushRemaining()
					return nil
				case ev, ok := <-es.ch:
					if !ok {
						return nil
					}
					es.handle(ev)
				}
			}
		})
	})
}

func (es *eventService) Emit(event Event) {
	select {
	case es.ch <- event:
	default:
		es.log.Warn("Event buffer full, dropping event", "action", event.Action, "entity_id", event.EntityID)
	}
}

// Drain closes the buffer and waits for in-flight handlers.
func (es *eventService) Drain() error {
	es.drainOnce.Do(func() {
		close(es.ch)
	})
	if es.group == nil {
		return nil
	}
	return es.group.Wait()
}

func (es *eventService) flushRemaining() {
	for {
		select {
		case ev, ok := <-es.ch:
			if !ok {
				return
			}
			es.handle(ev)
		default:
			return
		}
	}
}

func (es *eventService) handle(event Event) {
	// Detached context: the request that emitted this may be gone.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := es.auditRepo.Append(ctx, nil, &types.AuditLogEntry{
		ID:         uuid.New(),
		Action:     event.Action,
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
		ActorKey:   event.ActorKey,
	}); err != nil {
		es.log.Warn("Audit append failed", "action", event.Action, "entity_id", event.EntityID, "error", err)
	}

	if event.NotificationType == "" {
		return
	}
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		es.log.Warn("Notification payload marshal failed", "type", event.NotificationType, "error", err)
		return
	}
	if _, err := es.notifRepo.Append(ctx, nil, &types.Notification{
		ID:      uuid.New(),
		Type:    event.NotificationType,
		Payload: payload,
	}); err != nil {
		es.log.Warn("Notification append failed", "type", event.NotificationType, "error", err)
	}
}
