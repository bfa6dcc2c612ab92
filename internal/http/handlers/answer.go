package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/kitzurapp/qa-backend/internal/apperr"
	"github.com/kitzurapp/qa-backend/internal/http/response"
	"github.com/kitzurapp/qa-backend/internal/services"
	"github.com/kitzurapp/qa-backend/internal/types"
)

type AnswerHandler struct {
	answerService services.AnswerService
}

func NewAnswerHandler(answerService services.AnswerService) *AnswerHandler {
	return &AnswerHandler{answerService: answerService}
}

func (ah *AnswerHandler) Propose(c *gin.Context) {
	questionID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req struct {
		Text       string                 `json:"text"`
		Source     string                 `json:"source"`
		RabbiTitle string                 `json:"rabbi_title"`
		Sources    []types.HalachicSource `json:"sources"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, fmt.Errorf("invalid request body: %w", apperr.ErrInvalidArgument))
		return
	}
	answer, err := ah.answerService.Propose(c.Request.Context(), questionID, services.ProposeAnswerInput{
		Text:       req.Text,
		Source:     req.Source,
		RabbiTitle: req.RabbiTitle,
		Sources:    req.Sources,
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, answer)
}

func (ah *AnswerHandler) ListByQuestion(c *gin.Context) {
	questionID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	answers, err := ah.answerService.ListByQuestion(c.Request.Context(), questionID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"answers": answers})
}

func (ah *AnswerHandler) Approve(c *gin.Context) {
	questionID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	answerID, err := parseIDParam(c, "answerId")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if err := ah.answerService.Approve(c.Request.Context(), questionID, answerID); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ah *AnswerHandler) AddApproval(c *gin.Context) {
	answerID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req struct {
		Level   string `json:"level"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, fmt.Errorf("invalid request body: %w", apperr.ErrInvalidArgument))
		return
	}
	approval, err := ah.answerService.AddApproval(c.Request.Context(), answerID, req.Level, req.Comment)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, approval)
}

func (ah *AnswerHandler) RemoveApproval(c *gin.Context) {
	answerID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if err := ah.answerService.RemoveApproval(c.Request.Context(), answerID); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ah *AnswerHandler) Rate(c *gin.Context) {
	answerID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req struct {
		Helpful *bool `json:"helpful"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Helpful == nil {
		response.RespondError(c, fmt.Errorf("helpful (bool) required: %w", apperr.ErrInvalidArgument))
		return
	}
	if err := ah.answerService.Rate(c.Request.Context(), answerID, *req.Helpful); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ah *AnswerHandler) WithdrawRating(c *gin.Context) {
	answerID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if err := ah.answerService.WithdrawRating(c.Request.Context(), answerID); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ah *AnswerHandler) Edit(c *gin.Context) {
	answerID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req struct {
		Text   string `json:"text"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, fmt.Errorf("invalid request body: %w", apperr.ErrInvalidArgument))
		return
	}
	if err := ah.answerService.Edit(c.Request.Context(), answerID, req.Text, req.Reason); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ah *AnswerHandler) GetTrustScore(c *gin.Context) {
	answerID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	score, err := ah.answerService.GetTrustScore(c.Request.Context(), answerID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"trust_score": score})
}
