package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/grootboek-reconciliation-engine/internal/api_gateway/middleware"
	"github.com/grootboek-reconciliation-engine/internal/api_gateway/service"
)

// RunHandler handles HTTP requests for bulk reconciliation runs
type RunHandler struct {
	logger *slog.Logger
	runs   service.RunService
}

// NewRunHandler creates a new run handler
func NewRunHandler(logger *slog.Logger, runs service.RunService) *RunHandler {
	return &RunHandler{
		logger: logger,
		runs:   runs,
	}
}

// Start accepts a bulk reconciliation run and enqueues it for the worker.
// The run executes asynchronously; the response carries the run ID to poll.
func (h *RunHandler) Start(c *gin.Context) {
	var req StartRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	transactionIDs, err := parseUUIDs(req.TransactionIDs)
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID in selection")
		return
	}
	privateIDs, err := parseUUIDs(req.PrivateIDs)
	if err != nil {
		RespondBadRequest(c, "Invalid private transaction ID")
		return
	}

	selection := make(map[uuid.UUID]bool, len(transactionIDs))
	for _, id := range transactionIDs {
		selection[id] = true
	}
	for _, id := range privateIDs {
		if !selection[id] {
			RespondBadRequest(c, "Private transaction IDs must be part of the selection")
			return
		}
	}

	run, err := h.runs.StartRun(c.Request.Context(), transactionIDs, privateIDs, middleware.GetCorrelationID(c))
	if err != nil {
		h.logger.Error("Failed to start bulk reconciliation run", "error", err)
		RespondDomainError(c, err)
		return
	}
	RespondAccepted(c, mapRunToResponse(run))
}

// GetByID retrieves the state of one run, returns 404 if unknown
func (h *RunHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid run ID")
		return
	}

	run, err := h.runs.GetRun(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, mapRunToResponse(run))
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
