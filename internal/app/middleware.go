package app

import (
	httpMW "github.com/kitzurapp/qa-backend/internal/http/middleware"
	"github.com/kitzurapp/qa-backend/internal/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, serviceset Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, serviceset.Auth),
	}
}
