package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/grootboek-reconciliation-engine/internal/domain/account"
)

// AccountHandler handles HTTP requests for the chart of accounts. Accounts
// are read-only here; the directory itself is maintained elsewhere.
type AccountHandler struct {
	logger   *slog.Logger
	accounts account.Repository
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accounts account.Repository) *AccountHandler {
	return &AccountHandler{
		logger:   logger,
		accounts: accounts,
	}
}

// List retrieves all active ledger accounts
func (h *AccountHandler) List(c *gin.Context) {
	accounts, err := h.accounts.ListActive(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list accounts", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		responses = append(responses, mapAccountToResponse(a))
	}
	RespondOK(c, responses)
}

// GetByID retrieves one ledger account, returns 404 if not found
func (h *AccountHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	a, err := h.accounts.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, mapAccountToResponse(a))
}
