package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kitzurapp/qa-backend/internal/apperr"
	"github.com/kitzurapp/qa-backend/internal/http/response"
	"github.com/kitzurapp/qa-backend/internal/services"
)

type QuestionHandler struct {
	questionService services.QuestionService
}

func NewQuestionHandler(questionService services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

func (qh *QuestionHandler) Submit(c *gin.Context) {
	var req struct {
		Title         string `json:"title"`
		Body          string `json:"body"`
		Category      string `json:"category"`
		Visibility    string `json:"visibility"`
		AnonSessionID string `json:"anon_session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, fmt.Errorf("invalid request body: %w", apperr.ErrInvalidArgument))
		return
	}
	question, err := qh.questionService.Submit(c.Request.Context(), services.SubmitQuestionInput{
		Title:         req.Title,
		Body:          req.Body,
		Category:      req.Category,
		Visibility:    req.Visibility,
		AnonSessionID: req.AnonSessionID,
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, question)
}

func (qh *QuestionHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	question, err := qh.questionService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, question)
}

// List serves the browse surface: ?q= searches, ?category= filters,
// neither falls back to most recent.
func (qh *QuestionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	limit := parseLimit(c)

	if query := c.Query("q"); query != "" {
		questions, err := qh.questionService.Search(ctx, query, limit)
		if err != nil {
			response.RespondError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"questions": questions})
		return
	}
	if category := c.Query("category"); category != "" {
		questions, err := qh.questionService.ListByCategory(ctx, category, limit)
		if err != nil {
			response.RespondError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"questions": questions})
		return
	}
	questions, err := qh.questionService.ListRecent(ctx, limit)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": questions})
}

func (qh *QuestionHandler) ListPopular(c *gin.Context) {
	questions, err := qh.questionService.ListPopular(c.Request.Context(), parseLimit(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": questions})
}

func (qh *QuestionHandler) ListRecent(c *gin.Context) {
	questions, err := qh.questionService.ListRecent(c.Request.Context(), parseLimit(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": questions})
}

func (qh *QuestionHandler) ListUnanswered(c *gin.Context) {
	questions, err := qh.questionService.ListUnanswered(c.Request.Context(), parseLimit(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": questions})
}

func (qh *QuestionHandler) FindDuplicates(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	questions, err := qh.questionService.FindDuplicates(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": questions})
}

func (qh *QuestionHandler) Share(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if err := qh.questionService.IncrementShares(c.Request.Context(), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, apperr.ErrInvalidArgument)
	}
	return id, nil
}

func parseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		return 0
	}
	return limit
}
