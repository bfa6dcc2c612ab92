package types

import (
	"time"

	"github.com/google/uuid"
)

// AnswerRating tracks a single identity's helpful/not-helpful vote so a
// changed or withdrawn rating retracts the previous contribution instead
// of double counting.
type AnswerRating struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AnswerID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uidx_answer_rater;column:answer_id" json:"answer_id"`
	Answer     *Answer   `gorm:"constraint:OnDelete:CASCADE;foreignKey:AnswerID;references:ID" json:"-"`
	QuestionID uuid.UUID `gorm:"type:uuid;index;not null;column:question_id" json:"question_id"`

	RaterKey string `gorm:"not null;uniqueIndex:uidx_answer_rater;column:rater_key" json:"rater_key"`
	Helpful  bool   `gorm:"not null;column:helpful" json:"helpful"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (AnswerRating) TableName() string {
	return "answer_ratings"
}
