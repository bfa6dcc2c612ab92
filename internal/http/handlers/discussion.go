package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/kitzurapp/qa-backend/internal/apperr"
	"github.com/kitzurapp/qa-backend/internal/http/response"
	"github.com/kitzurapp/qa-backend/internal/services"
)

type DiscussionHandler struct {
	discussionService services.DiscussionService
}

func NewDiscussionHandler(discussionService services.DiscussionService) *DiscussionHandler {
	return &DiscussionHandler{discussionService: discussionService}
}

func (dh *DiscussionHandler) AddRemark(c *gin.Context) {
	questionID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req struct {
		Type          string `json:"type"`
		Body          string `json:"body"`
		AnonSessionID string `json:"anon_session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, fmt.Errorf("invalid request body: %w", apperr.ErrInvalidArgument))
		return
	}
	entry, err := dh.discussionService.AddRemark(c.Request.Context(), questionID, req.Type, req.Body, req.AnonSessionID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, entry)
}

func (dh *DiscussionHandler) ListByQuestion(c *gin.Context) {
	questionID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	entries, err := dh.discussionService.ListByQuestion(c.Request.Context(), questionID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"discussions": entries})
}

func (dh *DiscussionHandler) Moderate(c *gin.Context) {
	entryID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req struct {
		Approve *bool `json:"approve"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Approve == nil {
		response.RespondError(c, fmt.Errorf("approve (bool) required: %w", apperr.ErrInvalidArgument))
		return
	}
	if err := dh.discussionService.Moderate(c.Request.Context(), entryID, *req.Approve); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
