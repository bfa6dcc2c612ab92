package app

import (
	httpH "github.com/kitzurapp/qa-backend/internal/http/handlers"
	"github.com/kitzurapp/qa-backend/internal/logger"
)

type Handlers struct {
	Auth       *httpH.AuthHandler
	Question   *httpH.QuestionHandler
	Answer     *httpH.AnswerHandler
	Discussion *httpH.DiscussionHandler
	Flag       *httpH.FlagHandler
	Health     *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:       httpH.NewAuthHandler(serviceset.Auth),
		Question:   httpH.NewQuestionHandler(serviceset.Question),
		Answer:     httpH.NewAnswerHandler(serviceset.Answer),
		Discussion: httpH.NewDiscussionHandler(serviceset.Discussion),
		Flag:       httpH.NewFlagHandler(serviceset.Flag),
		Health:     httpH.NewHealthHandler(),
	}
}
