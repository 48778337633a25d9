package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/grootboek-reconciliation-engine/internal/api_gateway/middleware"
	"github.com/grootboek-reconciliation-engine/internal/api_gateway/service"
	"github.com/grootboek-reconciliation-engine/internal/domain/banktransaction"
	"github.com/grootboek-reconciliation-engine/internal/domain/shared"
	"github.com/grootboek-reconciliation-engine/internal/observability"
)

// TransactionHandler handles HTTP requests for bank transaction operations
type TransactionHandler struct {
	logger       *slog.Logger
	transactions banktransaction.Repository
	booking      service.BookingService
	suggestions  service.SuggestionService
	metrics      *observability.Metrics
}

// NewTransactionHandler creates a new bank transaction handler
func NewTransactionHandler(
	logger *slog.Logger,
	transactions banktransaction.Repository,
	booking service.BookingService,
	suggestions service.SuggestionService,
	metrics *observability.Metrics,
) *TransactionHandler {
	return &TransactionHandler{
		logger:       logger,
		transactions: transactions,
		booking:      booking,
		suggestions:  suggestions,
		metrics:      metrics,
	}
}

// List retrieves paginated transactions filtered by status
func (h *TransactionHandler) List(c *gin.Context) {
	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	status := banktransaction.Status(c.DefaultQuery("status", string(banktransaction.StatusUnmatched)))
	switch status {
	case banktransaction.StatusUnmatched, banktransaction.StatusMatched, banktransaction.StatusBooked:
	default:
		RespondBadRequest(c, "Invalid status filter")
		return
	}

	offset := (pagination.Page - 1) * pagination.PerPage
	transactions, err := h.transactions.ListByStatus(c.Request.Context(), status, pagination.PerPage, offset)
	if err != nil {
		h.logger.Error("Failed to list transactions", "status", string(status), "error", err)
		RespondInternalError(c)
		return
	}
	total, err := h.transactions.CountByStatus(c.Request.Context(), status)
	if err != nil {
		h.logger.Error("Failed to count transactions", "status", string(status), "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]TransactionResponse, 0, len(transactions))
	for _, txn := range transactions {
		responses = append(responses, mapTransactionToResponse(txn))
	}
	RespondWithPaginatedData(c, responses, pagination.Page, pagination.PerPage, int(total))
}

// GetByID retrieves one bank transaction, returns 404 if not found
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	txn, err := h.transactions.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, mapTransactionToResponse(txn))
}

// Book posts a pending transaction to the ledger
func (h *TransactionHandler) Book(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	var req BookTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	bookingReq := shared.BookingRequest{
		TransactionID:     id,
		AccountID:         accountID,
		Description:       req.Description,
		Mode:              shared.Mode(req.Mode),
		SetContactDefault: req.SetContactDefault,
		RuleKeyword:       req.RuleKeyword,
		CorrelationID:     middleware.GetCorrelationID(c),
	}
	if req.ContactID != "" {
		contactID, err := uuid.Parse(req.ContactID)
		if err != nil {
			RespondBadRequest(c, "Invalid contact ID")
			return
		}
		bookingReq.ContactID = &contactID
	}

	entry, err := h.booking.Book(c.Request.Context(), bookingReq)
	if err != nil {
		h.logger.Warn("Booking rejected", "transaction_id", id.String(), "error", err)
		RespondDomainError(c, err)
		return
	}

	h.metrics.RecordBooking(string(bookingReq.Mode), observability.SourceInteractive)
	RespondCreated(c, mapEntryToResponse(entry))
}

// Reclassify repoints the non-cash line of a booked transaction
func (h *TransactionHandler) Reclassify(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	var req ReclassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	entry, err := h.booking.Reclassify(c.Request.Context(), id, accountID)
	if err != nil {
		h.logger.Warn("Reclassification rejected", "transaction_id", id.String(), "error", err)
		RespondDomainError(c, err)
		return
	}

	h.metrics.RecordReclassification()
	RespondOK(c, mapEntryToResponse(entry))
}

// Classify produces a posting suggestion for a pending transaction
func (h *TransactionHandler) Classify(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	outcome, err := h.suggestions.Suggest(c.Request.Context(), id)
	if err != nil {
		h.logger.Warn("Classification failed", "transaction_id", id.String(), "error", err)
		RespondDomainError(c, err)
		return
	}

	response := SuggestionResponse{
		Source:      outcome.Source,
		Score:       outcome.Result.Score,
		Mode:        outcome.Result.Suggestion.Mode,
		Description: outcome.Result.Suggestion.Description,
	}
	if outcome.Result.Suggestion.AccountID != nil {
		response.AccountID = outcome.Result.Suggestion.AccountID.String()
	}
	if outcome.Result.Suggestion.ContactID != nil {
		response.ContactID = outcome.Result.Suggestion.ContactID.String()
	}
	RespondOK(c, response)
}
