package services

import (
	"context"
	"testing"

	"github.com/kitzurapp/qa-backend/internal/repos"
	"github.com/kitzurapp/qa-backend/internal/types"
)

func TestEventServiceWritesAuditAndNotification(t *testing.T) {
	gdb := newTestDB(t)
	log := newTestLogger(t)
	auditRepo := repos.NewAuditLogRepo(gdb, log)
	notifRepo := repos.NewNotificationRepo(gdb, log)

	events := NewEventService(gdb, log, auditRepo, notifRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events.Start(ctx)

	events.Emit(Event{
		Action:     "question.create",
		EntityType: "question",
		EntityID:   "q-1",
		ActorKey:   "sess-ev",
	})
	events.Emit(Event{
		Action:           "question.create",
		EntityType:       "question",
		EntityID:         "q-2",
		ActorKey:         "sess-ev",
		NotificationType: "question.created",
		Payload:          map[string]interface{}{"questionId": "q-2"},
	})

	if err := events.Drain(); err != nil {
		t.Fatalf("drain: %v", err)
	}

	for _, id := range []string{"q-1", "q-2"} {
		entries, err := auditRepo.ListByEntity(context.Background(), nil, "question", id)
		if err != nil {
			t.Fatalf("list audits for %s: %v", id, err)
		}
		if len(entries) != 1 {
			t.Fatalf("audits for %s = %d, want 1", id, len(entries))
		}
		if entries[0].ActorKey != "sess-ev" {
			t.Fatalf("actor = %q", entries[0].ActorKey)
		}
	}

	var notifications []types.Notification
	if err := gdb.Find(&notifications).Error; err != nil {
		t.Fatalf("load notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifications))
	}
	if notifications[0].Type != "question.created" {
		t.Fatalf("notification type = %q", notifications[0].Type)
	}
}

func TestEventServiceDrainWithoutStart(t *testing.T) {
	gdb := newTestDB(t)
	log := newTestLogger(t)
	events := NewEventService(gdb, log, repos.NewAuditLogRepo(gdb, log), repos.NewNotificationRepo(gdb, log))

	// Draining a dispatcher that never started must not hang or panic.
	if err := events.Drain(); err != nil {
		t.Fatalf("drain: %v", err)
	}
}
