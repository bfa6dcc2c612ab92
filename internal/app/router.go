package app

import (
	qahttp "github.com/kitzurapp/qa-backend/internal/http"
)

func wireServer(handlers Handlers, middleware Middleware, tracingEnabled bool) *qahttp.Server {
	return qahttp.NewServer(qahttp.RouterConfig{
		AuthHandler:       handlers.Auth,
		AuthMiddleware:    middleware.Auth,
		QuestionHandler:   handlers.Question,
		AnswerHandler:     handlers.Answer,
		DiscussionHandler: handlers.Discussion,
		FlagHandler:       handlers.Flag,
		HealthHandler:     handlers.Health,
		TracingEnabled:    tracingEnabled,
	})
}
