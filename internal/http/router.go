package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/kitzurapp/qa-backend/internal/http/handlers"
	httpMW "github.com/kitzurapp/qa-backend/internal/http/middleware"
)

type RouterConfig struct {
	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	QuestionHandler   *httpH.QuestionHandler
	AnswerHandler     *httpH.AnswerHandler
	DiscussionHandler *httpH.DiscussionHandler
	FlagHandler       *httpH.FlagHandler

	HealthHandler *httpH.HealthHandler

	TracingEnabled bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware("qa-backend"))
	}
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}
	}

	// Public Q&A surface. Identity is resolved when present (token or
	// anonymous session header) but never required at the router; the
	// services enforce identity per operation.
	public := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			public.Use(cfg.AuthMiddleware.ResolveIdentity())
		}

		if cfg.QuestionHandler != nil {
			public.POST("/questions", cfg.QuestionHandler.Submit)
			public.GET("/questions", cfg.QuestionHandler.List)
			public.GET("/questions/popular", cfg.QuestionHandler.ListPopular)
			public.GET("/questions/recent", cfg.QuestionHandler.ListRecent)
			public.GET("/questions/unanswered", cfg.QuestionHandler.ListUnanswered)
			public.GET("/questions/:id", cfg.QuestionHandler.Get)
			public.GET("/questions/:id/duplicates", cfg.QuestionHandler.FindDuplicates)
			public.POST("/questions/:id/share", cfg.QuestionHandler.Share)
		}

		if cfg.AnswerHandler != nil {
			public.POST("/questions/:id/answers", cfg.AnswerHandler.Propose)
			public.GET("/questions/:id/answers", cfg.AnswerHandler.ListByQuestion)
			public.POST("/answers/:id/rating", cfg.AnswerHandler.Rate)
			public.DELETE("/answers/:id/rating", cfg.AnswerHandler.WithdrawRating)
			public.GET("/answers/:id/trust-score", cfg.AnswerHandler.GetTrustScore)
		}

		if cfg.DiscussionHandler != nil {
			public.POST("/questions/:id/discussions", cfg.DiscussionHandler.AddRemark)
			public.GET("/questions/:id/discussions", cfg.DiscussionHandler.ListByQuestion)
		}

		if cfg.FlagHandler != nil {
			public.POST("/flags", cfg.FlagHandler.Create)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Rabbinic review & community approvals
		if cfg.AnswerHandler != nil {
			protected.POST("/questions/:id/answers/:answerId/approve", cfg.AnswerHandler.Approve)
			protected.POST("/answers/:id/approvals", cfg.AnswerHandler.AddApproval)
			protected.DELETE("/answers/:id/approvals", cfg.AnswerHandler.RemoveApproval)
			protected.POST("/answers/:id/edit", cfg.AnswerHandler.Edit)
		}

		// Moderation
		if cfg.DiscussionHandler != nil {
			protected.POST("/discussions/:id/moderate", cfg.DiscussionHandler.Moderate)
		}
		if cfg.FlagHandler != nil {
			protected.GET("/flags/pending", cfg.FlagHandler.ListPending)
			protected.POST("/flags/:id/resolve", cfg.FlagHandler.Resolve)
		}
	}

	return r
}
