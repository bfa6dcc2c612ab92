package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Notification struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Type      string         `gorm:"not null;index;column:type" json:"type"`
	Payload   datatypes.JSON `gorm:"column:payload_json" json:"payload_json"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
