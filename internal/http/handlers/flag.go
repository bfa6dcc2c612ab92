package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/kitzurapp/qa-backend/internal/apperr"
	"github.com/kitzurapp/qa-backend/internal/http/response"
	"github.com/kitzurapp/qa-backend/internal/services"
)

type FlagHandler struct {
	flagService services.FlagService
}

func NewFlagHandler(flagService services.FlagService) *FlagHandler {
	return &FlagHandler{flagService: flagService}
}

func (fh *FlagHandler) Create(c *gin.Context) {
	var req struct {
		EntityType    string `json:"entity_type"`
		EntityID      string `json:"entity_id"`
		Reason        string `json:"reason"`
		AnonSessionID string `json:"anon_session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, fmt.Errorf("invalid request body: %w", apperr.ErrInvalidArgument))
		return
	}
	flag, err := fh.flagService.Create(c.Request.Context(), req.EntityType, req.EntityID, req.Reason, req.AnonSessionID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, flag)
}

func (fh *FlagHandler) Resolve(c *gin.Context) {
	flagID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req struct {
		Note string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, fmt.Errorf("invalid request body: %w", apperr.ErrInvalidArgument))
		return
	}
	if err := fh.flagService.Resolve(c.Request.Context(), flagID, req.Note); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (fh *FlagHandler) ListPending(c *gin.Context) {
	flags, err := fh.flagService.ListPending(c.Request.Context(), parseLimit(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"flags": flags})
}
