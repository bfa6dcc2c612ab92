package types

import (
	"time"

	"github.com/google/uuid"
)

// AuditLogEntry is append-only. Nothing updates or deletes these rows.
type AuditLogEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Action     string    `gorm:"not null;index;column:action" json:"action"`
	EntityType string    `gorm:"not null;column:entity_type" json:"entity_type"`
	EntityID   string    `gorm:"not null;index;column:entity_id" json:"entity_id"`
	ActorKey   string    `gorm:"not null;column:actor_key" json:"actor_key"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (AuditLogEntry) TableName() string {
	return "audit_logs"
}
