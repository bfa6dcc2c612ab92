package app

import (
	"gorm.io/gorm"

	redisclient "github.com/kitzurapp/qa-backend/internal/clients/redis"
	"github.com/kitzurapp/qa-backend/internal/logger"
	"github.com/kitzurapp/qa-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Question   services.QuestionService
	Answer     services.AnswerService
	Discussion services.DiscussionService
	Flag       services.FlagService
	Events     services.EventService
	Limiter    services.RateLimiter
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	events := services.NewEventService(db, log, reposet.AuditLog, reposet.Notification)

	// Counters live in Redis when REDIS_ADDR is set, in the database
	// otherwise. Both backends share the same bucket semantics.
	var limiter services.RateLimiter
	if cfg.RedisAddr != "" {
		redisLimiter, err := redisclient.NewRateLimiter(log)
		if err != nil {
			return Services{}, err
		}
		limiter = redisLimiter
	} else {
		limiter = services.NewDBRateLimiter(db, log, reposet.RateLimit)
	}

	authService := services.NewAuthService(
		db, log,
		reposet.User, reposet.UserToken,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
	)
	questionService := services.NewQuestionService(db, log, reposet.Question, events)
	answerService := services.NewAnswerService(
		db, log,
		reposet.Answer, reposet.Question, reposet.Approval, reposet.AnswerRating,
		reposet.Revision, reposet.AuditLog,
		limiter, events,
	)
	discussionService := services.NewDiscussionService(db, log, reposet.Discussion, reposet.Question, limiter, events)
	flagService := services.NewFlagService(db, log, reposet.ModerationFlag, limiter, events)

	return Services{
		Auth:       authService,
		Question:   questionService,
		Answer:     answerService,
		Discussion: discussionService,
		Flag:       flagService,
		Events:     events,
		Limiter:    limiter,
	}, nil
}
