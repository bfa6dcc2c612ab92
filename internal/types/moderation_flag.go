package types

import (
	"time"

	"github.com/google/uuid"
)

type FlagStatus string

const (
	FlagPending  FlagStatus = "pending"
	FlagActioned FlagStatus = "actioned"
)

type ModerationFlag struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EntityType string    `gorm:"not null;index;column:entity_type" json:"entity_type"`
	EntityID   string    `gorm:"not null;index;column:entity_id" json:"entity_id"`
	Reason     string    `gorm:"not null;column:reason" json:"reason"`

	Status FlagStatus `gorm:"not null;default:pending;column:status" json:"status"`

	ReporterUserID *uuid.UUID `gorm:"type:uuid;column:reporter_user_id" json:"reporter_user_id,omitempty"`
	AnonSessionID  string     `gorm:"column:anon_session_id" json:"anon_session_id,omitempty"`

	ResolvedBy     *uuid.UUID `gorm:"type:uuid;column:resolved_by" json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	ResolutionNote string     `gorm:"column:resolution_note" json:"resolution_note,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ModerationFlag) TableName() string {
	return "moderation_flags"
}
