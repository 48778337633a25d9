package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/grootboek-reconciliation-engine/internal/domain/contact"
)

// ContactHandler handles HTTP requests for contact operations
type ContactHandler struct {
	logger   *slog.Logger
	contacts contact.Repository
}

// NewContactHandler creates a new contact handler
func NewContactHandler(logger *slog.Logger, contacts contact.Repository) *ContactHandler {
	return &ContactHandler{
		logger:   logger,
		contacts: contacts,
	}
}

// List retrieves all active contacts
func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.contacts.ListActive(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list contacts", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]ContactResponse, 0, len(contacts))
	for _, cnt := range contacts {
		responses = append(responses, mapContactToResponse(cnt))
	}
	RespondOK(c, responses)
}

// Create stores a new contact
func (h *ContactHandler) Create(c *gin.Context) {
	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cnt, err := contact.NewContact(req.Name, contact.Relation(req.Relation))
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	if err := h.contacts.Create(c.Request.Context(), cnt); err != nil {
		h.logger.Error("Failed to create contact", "name", req.Name, "error", err)
		RespondInternalError(c)
		return
	}
	RespondCreated(c, mapContactToResponse(cnt))
}

// SetDefaultAccount updates a contact's default ledger account
func (h *ContactHandler) SetDefaultAccount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid contact ID")
		return
	}

	var req SetDefaultAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	if err := h.contacts.UpdateDefaultAccount(c.Request.Context(), id, accountID); err != nil {
		RespondDomainError(c, err)
		return
	}

	cnt, err := h.contacts.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, mapContactToResponse(cnt))
}
