package types

import (
	"time"

	"github.com/google/uuid"
)

type Revision struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EntityType    string    `gorm:"not null;column:entity_type" json:"entity_type"`
	EntityID      string    `gorm:"not null;index;column:entity_id" json:"entity_id"`
	ChangeSummary string    `gorm:"not null;column:change_summary" json:"change_summary"`
	ChangedBy     string    `gorm:"not null;column:changed_by" json:"changed_by"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}

func (Revision) TableName() string {
	return "revisions"
}
