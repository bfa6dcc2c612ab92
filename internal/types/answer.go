package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AnswerStatus string

const (
	AnswerDraft    AnswerStatus = "draft"
	AnswerApproved AnswerStatus = "approved"
	// AnswerLocked is declared but no operation currently enters it.
	AnswerLocked AnswerStatus = "locked"
)

type AnswerSource string

const (
	SourceRabbi     AnswerSource = "rabbi"
	SourceBook      AnswerSource = "book"
	SourceCommunity AnswerSource = "community"
	SourceSystem    AnswerSource = "system"
)

func ParseAnswerSource(s string) (AnswerSource, bool) {
	switch AnswerSource(s) {
	case SourceRabbi, SourceBook, SourceCommunity, SourceSystem:
		return AnswerSource(s), true
	}
	return "", false
}

// HalachicSource cites the legal text an answer rests on. Book and Siman
// are mandatory for every answer.
type HalachicSource struct {
	Book      string `json:"book"`
	Siman     string `json:"siman"`
	Seif      string `json:"seif,omitempty"`
	Page      int    `json:"page,omitempty"`
	Edition   string `json:"edition,omitempty"`
	Quote     string `json:"quote,omitempty"`
	InAppLink string `json:"in_app_link,omitempty"`
}

// AnswerEdit is one entry of the post-approval edit history. Edits append
// here rather than reverting the answer's state.
type AnswerEdit struct {
	EditedBy     uuid.UUID `json:"edited_by"`
	EditedByRole Role      `json:"edited_by_role"`
	EditedAt     time.Time `json:"edited_at"`
	PreviousText string    `json:"previous_text"`
	Reason       string    `json:"reason,omitempty"`
}

type Answer struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID uuid.UUID  `gorm:"type:uuid;index;not null;column:question_id" json:"question_id"`
	Question   *Question  `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"-"`

	Text   string       `gorm:"not null;column:text" json:"text"`
	Source AnswerSource `gorm:"not null;column:source" json:"source"`

	AuthorUserID *uuid.UUID `gorm:"type:uuid;column:author_user_id" json:"author_user_id,omitempty"`
	AuthorName   string     `gorm:"column:author_name" json:"author_name,omitempty"`
	RabbiTitle   string     `gorm:"column:rabbi_title" json:"rabbi_title,omitempty"`

	Sources datatypes.JSONType[[]HalachicSource] `gorm:"column:sources" json:"sources"`

	Status     AnswerStatus `gorm:"not null;default:draft;column:status" json:"status"`
	IsVerified bool         `gorm:"not null;default:false;column:is_verified" json:"is_verified"`

	TotalApprovalWeight int `gorm:"not null;default:0;column:total_approval_weight" json:"total_approval_weight"`

	ApprovedByUserID *uuid.UUID `gorm:"type:uuid;column:approved_by_user_id" json:"approved_by_user_id,omitempty"`
	ApprovedAt       *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`

	EditHistory datatypes.JSONType[[]AnswerEdit] `gorm:"column:edit_history" json:"edit_history"`

	AnsweredAt time.Time `gorm:"not null;column:answered_at" json:"answered_at"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Answer) TableName() string {
	return "answers"
}
