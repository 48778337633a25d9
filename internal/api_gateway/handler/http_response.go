package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grootboek-reconciliation-engine/internal/api_gateway/middleware"
	"github.com/grootboek-reconciliation-engine/internal/domain/account"
	"github.com/grootboek-reconciliation-engine/internal/domain/banktransaction"
	"github.com/grootboek-reconciliation-engine/internal/domain/contact"
	"github.com/grootboek-reconciliation-engine/internal/domain/journal"
	"github.com/grootboek-reconciliation-engine/internal/domain/shared"
)

// Response represents a standard API response
type Response struct {
	Data          interface{} `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	CorrelationID string      `json:"correlation_id,omitempty"`
	Meta          *MetaInfo   `json:"meta,omitempty"`
}

// ErrorInfo represents error information in a response
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MetaInfo represents pagination metadata in a response
type MetaInfo struct {
	Page       int `json:"page,omitempty"`
	PerPage    int `json:"per_page,omitempty"`
	TotalPages int `json:"total_pages,omitempty"`
	TotalItems int `json:"total_items,omitempty"`
}

// RespondWithData sends a JSON response with data
func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, &Response{
		Data:          data,
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

// RespondWithError sends a JSON response with an error
func RespondWithError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, &Response{
		Error:         &ErrorInfo{Code: code, Message: message},
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

// RespondWithPaginatedData sends a JSON response with paginated data
func RespondWithPaginatedData(c *gin.Context, data interface{}, page, perPage, totalItems int) {
	totalPages := totalItems / perPage
	if totalItems%perPage > 0 {
		totalPages++
	}
	c.JSON(http.StatusOK, &Response{
		Data:          data,
		CorrelationID: middleware.GetCorrelationID(c),
		Meta: &MetaInfo{
			Page:       page,
			PerPage:    perPage,
			TotalPages: totalPages,
			TotalItems: totalItems,
		},
	})
}

// RespondOK sends a 200 OK response with data
func RespondOK(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusOK, data)
}

// RespondCreated sends a 201 Created response with data
func RespondCreated(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusCreated, data)
}

// RespondAccepted sends a 202 Accepted response with data
func RespondAccepted(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusAccepted, data)
}

// RespondBadRequest sends a 400 Bad Request response with an error
func RespondBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// RespondNotFound sends a 404 Not Found response with an error
func RespondNotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, "NOT_FOUND", message)
}

// RespondConflict sends a 409 Conflict response with an error
func RespondConflict(c *gin.Context, message string) {
	RespondWithError(c, http.StatusConflict, "CONFLICT", message)
}

// RespondBadGateway sends a 502 Bad Gateway response with an error
func RespondBadGateway(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadGateway, "UPSTREAM_FAILURE", message)
}

// RespondInternalError sends a 500 Internal Server Error response
func RespondInternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An internal server error occurred")
}

// RespondDomainError maps a domain error onto the HTTP status it deserves:
// bad input 400, missing resources 404, state conflicts 409, classifier
// failures 502 and everything else 500.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, shared.ValidationError{}):
		RespondBadRequest(c, err.Error())
	case errors.Is(err, banktransaction.ErrTransactionNotFound{}),
		errors.Is(err, account.ErrAccountNotFound{}),
		errors.Is(err, contact.ErrContactNotFound{}),
		errors.Is(err, journal.ErrEntryNotFound{}),
		errors.Is(err, shared.ErrRunNotFound{}):
		RespondNotFound(c, err.Error())
	case errors.Is(err, banktransaction.ErrAlreadyBooked),
		errors.Is(err, banktransaction.ErrNotBooked),
		errors.Is(err, shared.AmbiguousPostingError{}):
		RespondConflict(c, err.Error())
	case errors.Is(err, shared.ExternalServiceError{}):
		RespondBadGateway(c, err.Error())
	default:
		RespondInternalError(c)
	}
}
