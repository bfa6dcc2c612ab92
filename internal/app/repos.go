package app

import (
	"gorm.io/gorm"

	"github.com/kitzurapp/qa-backend/internal/logger"
	"github.com/kitzurapp/qa-backend/internal/repos"
)

type Repos struct {
	User           repos.UserRepo
	UserToken      repos.UserTokenRepo
	Question       repos.QuestionRepo
	Answer         repos.AnswerRepo
	Approval       repos.ApprovalRepo
	AnswerRating   repos.AnswerRatingRepo
	Discussion     repos.DiscussionRepo
	ModerationFlag repos.ModerationFlagRepo
	RateLimit      repos.RateLimitRepo
	AuditLog       repos.AuditLogRepo
	Revision       repos.RevisionRepo
	Notification   repos.NotificationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:           repos.NewUserRepo(db, log),
		UserToken:      repos.NewUserTokenRepo(db, log),
		Question:       repos.NewQuestionRepo(db, log),
		Answer:         repos.NewAnswerRepo(db, log),
		Approval:       repos.NewApprovalRepo(db, log),
		AnswerRating:   repos.NewAnswerRatingRepo(db, log),
		Discussion:     repos.NewDiscussionRepo(db, log),
		ModerationFlag: repos.NewModerationFlagRepo(db, log),
		RateLimit:      repos.NewRateLimitRepo(db, log),
		AuditLog:       repos.NewAuditLogRepo(db, log),
		Revision:       repos.NewRevisionRepo(db, log),
		Notification:   repos.NewNotificationRepo(db, log),
	}
}
