package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/grootboek-reconciliation-engine/internal/api_gateway/service"
)

// RuleHandler handles HTTP requests for keyword rule operations
type RuleHandler struct {
	logger *slog.Logger
	rules  service.RuleService
}

// NewRuleHandler creates a new rule handler
func NewRuleHandler(logger *slog.Logger, rules service.RuleService) *RuleHandler {
	return &RuleHandler{
		logger: logger,
		rules:  rules,
	}
}

// List retrieves all keyword rules in creation order
func (h *RuleHandler) List(c *gin.Context) {
	rules, err := h.rules.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list rules", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]RuleResponse, 0, len(rules))
	for _, r := range rules {
		responses = append(responses, mapRuleToResponse(r))
	}
	RespondOK(c, responses)
}

// Create stores a new keyword rule
func (h *RuleHandler) Create(c *gin.Context) {
	var req CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	r, err := h.rules.Create(c.Request.Context(), req.Keyword, accountID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, mapRuleToResponse(r))
}
