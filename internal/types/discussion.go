package types

import (
	"time"

	"github.com/google/uuid"
)

type DiscussionType string

const (
	DiscussionQuestion DiscussionType = "question"
	DiscussionRemark   DiscussionType = "remark"
)

func ParseDiscussionType(s string) (DiscussionType, bool) {
	switch DiscussionType(s) {
	case DiscussionQuestion, DiscussionRemark:
		return DiscussionType(s), true
	}
	return "", false
}

type DiscussionStatus string

const (
	DiscussionPending        DiscussionStatus = "pending"
	DiscussionStatusApproved DiscussionStatus = "approved"
)

// DiscussionEntry is a follow-up remark on a question. Entries are always
// created pending; they reach approved only through moderation.
type DiscussionEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;index;not null;column:question_id" json:"question_id"`
	Question   *Question `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"-"`

	Type   DiscussionType   `gorm:"not null;column:type" json:"type"`
	Body   string           `gorm:"not null;column:body" json:"body"`
	Status DiscussionStatus `gorm:"not null;default:pending;column:status" json:"status"`

	AskedByUserID *uuid.UUID `gorm:"type:uuid;column:asked_by_user_id" json:"asked_by_user_id,omitempty"`
	AnonSessionID string     `gorm:"column:anon_session_id" json:"anon_session_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (DiscussionEntry) TableName() string {
	return "discussions"
}
