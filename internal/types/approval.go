package types

import (
	"time"

	"github.com/google/uuid"
)

// Approval is one weighted endorsement of an answer. The unique key on
// (answer_id, approver_key) makes "one active approval per approver"
// structural: a repeated approval replaces the stored row.
type Approval struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AnswerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uidx_answer_approver;column:answer_id" json:"answer_id"`
	Answer   *Answer   `gorm:"constraint:OnDelete:CASCADE;foreignKey:AnswerID;references:ID" json:"-"`

	ApproverKey    string    `gorm:"not null;uniqueIndex:uidx_answer_approver;column:approver_key" json:"approver_key"`
	ApproverUserID uuid.UUID `gorm:"type:uuid;column:approver_user_id" json:"approver_user_id"`
	ApproverName   string    `gorm:"column:approver_name" json:"approver_name,omitempty"`

	Level   ApprovalLevel `gorm:"not null;column:level" json:"level"`
	Role    Role          `gorm:"column:role" json:"role"`
	Weight  int           `gorm:"not null;column:weight" json:"weight"`
	Comment string        `gorm:"column:comment" json:"comment,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Approval) TableName() string {
	return "approvals"
}
