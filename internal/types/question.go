package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuestionStatus string

const (
	QuestionPendingReview QuestionStatus = "pending_review"
	QuestionApproved      QuestionStatus = "approved"
	QuestionLocked        QuestionStatus = "locked"
	QuestionRejected      QuestionStatus = "rejected"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

const DefaultMinimumApprovals = 5

type Question struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Slug          string    `gorm:"uniqueIndex;not null;column:slug" json:"slug"`
	ContentHash   string    `gorm:"index;not null;column:content_hash" json:"content_hash"`
	Title         string    `gorm:"not null;column:title" json:"title"`
	Body          string    `gorm:"not null;column:body" json:"body"`
	Category      QuestionCategory `gorm:"not null;column:category" json:"category"`
	AskedByUserID *uuid.UUID `gorm:"type:uuid;index;column:asked_by_user_id" json:"asked_by_user_id,omitempty"`
	AskedByName   string     `gorm:"column:asked_by_name" json:"asked_by_name,omitempty"`
	AnonSessionID string     `gorm:"column:anon_session_id" json:"anon_session_id,omitempty"`

	Status     QuestionStatus `gorm:"not null;default:pending_review;column:status" json:"status"`
	Visibility Visibility     `gorm:"not null;default:public;column:visibility" json:"visibility"`

	MinimumApprovalsRequired int `gorm:"not null;default:5;column:minimum_approvals_required" json:"minimum_approvals_required"`

	Views      int `gorm:"not null;default:0;column:views" json:"views"`
	Helpful    int `gorm:"not null;default:0;column:helpful" json:"helpful"`
	NotHelpful int `gorm:"not null;default:0;column:not_helpful" json:"not_helpful"`
	Shares     int `gorm:"not null;default:0;column:shares" json:"shares"`

	Tags               datatypes.JSONType[[]string]    `gorm:"column:tags" json:"tags"`
	RelatedQuestionIDs datatypes.JSONType[[]uuid.UUID] `gorm:"column:related_question_ids" json:"related_question_ids"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}
