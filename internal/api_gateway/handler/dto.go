package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/grootboek-reconciliation-engine/internal/domain/account"
	"github.com/grootboek-reconciliation-engine/internal/domain/banktransaction"
	"github.com/grootboek-reconciliation-engine/internal/domain/contact"
	"github.com/grootboek-reconciliation-engine/internal/domain/journal"
	"github.com/grootboek-reconciliation-engine/internal/domain/rule"
	"github.com/grootboek-reconciliation-engine/internal/domain/shared"
)

// Amounts are stored as integer minor units; the API speaks decimal strings
// ("125.00") so clients never do float arithmetic on money.
func centsToDecimal(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// BookTransactionRequest represents a request to book a pending transaction
type BookTransactionRequest struct {
	AccountID         string `json:"account_id" binding:"required,uuid"`
	Description       string `json:"description,omitempty"`
	Mode              string `json:"mode" binding:"required,oneof=DIRECT VIA_RELATIE"`
	ContactID         string `json:"contact_id,omitempty" binding:"omitempty,uuid"`
	SetContactDefault bool   `json:"set_contact_default,omitempty"`
	RuleKeyword       string `json:"rule_keyword,omitempty"`
}

// ReclassifyRequest represents a request to repoint a booked transaction
type ReclassifyRequest struct {
	AccountID string `json:"account_id" binding:"required,uuid"`
}

// CreateContactRequest represents a request to create a contact
type CreateContactRequest struct {
	Name     string `json:"name" binding:"required"`
	Relation string `json:"relation" binding:"required,oneof=CUSTOMER SUPPLIER BOTH"`
}

// SetDefaultAccountRequest represents a request to set a contact's default account
type SetDefaultAccountRequest struct {
	AccountID string `json:"account_id" binding:"required,uuid"`
}

// CreateRuleRequest represents a request to create a keyword rule
type CreateRuleRequest struct {
	Keyword   string `json:"keyword" binding:"required"`
	AccountID string `json:"account_id" binding:"required,uuid"`
}

// StartRunRequest represents a request to start a bulk reconciliation run
type StartRunRequest struct {
	TransactionIDs []string `json:"transaction_ids" binding:"required,min=1,dive,uuid"`
	PrivateIDs     []string `json:"private_ids,omitempty" binding:"omitempty,dive,uuid"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=20" binding:"min=1,max=100"`
}

// TransactionResponse represents a bank transaction in API responses
type TransactionResponse struct {
	ID               string `json:"id"`
	Date             string `json:"date"`
	Amount           string `json:"amount"`
	Description      string `json:"description"`
	CounterpartyName string `json:"counterparty_name,omitempty"`
	CounterpartyIBAN string `json:"counterparty_iban,omitempty"`
	Status           string `json:"status"`
	Booked           bool   `json:"booked"`
	JournalEntryID   string `json:"journal_entry_id,omitempty"`
	CreatedAt        string `json:"created_at"`
}

func mapTransactionToResponse(txn *banktransaction.Transaction) TransactionResponse {
	response := TransactionResponse{
		ID:               txn.ID.String(),
		Date:             txn.Date.Format("2006-01-02"),
		Amount:           centsToDecimal(txn.Amount),
		Description:      txn.Description,
		CounterpartyName: txn.CounterpartyName,
		CounterpartyIBAN: txn.CounterpartyIBAN,
		Status:           string(txn.Status),
		Booked:           txn.IsBooked(),
		CreatedAt:        txn.CreatedAt.Format(time.RFC3339),
	}
	if txn.JournalEntryID != nil {
		response.JournalEntryID = txn.JournalEntryID.String()
	}
	return response
}

// LineResponse represents a journal line in API responses
type LineResponse struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	Debit     string `json:"debit"`
	Credit    string `json:"credit"`
}

// EntryResponse represents a journal entry in API responses
type EntryResponse struct {
	ID        string         `json:"id"`
	Memo      string         `json:"memo"`
	Lines     []LineResponse `json:"lines"`
	CreatedAt string         `json:"created_at"`
}

func mapEntryToResponse(entry *journal.Entry) EntryResponse {
	lines := make([]LineResponse, 0, len(entry.Lines))
	for _, line := range entry.Lines {
		lines = append(lines, LineResponse{
			ID:        line.ID.String(),
			AccountID: line.AccountID.String(),
			Debit:     centsToDecimal(line.Debit),
			Credit:    centsToDecimal(line.Credit),
		})
	}
	return EntryResponse{
		ID:        entry.ID.String(),
		Memo:      entry.Memo,
		Lines:     lines,
		CreatedAt: entry.CreatedAt.Format(time.RFC3339),
	}
}

// AccountResponse represents a ledger account in API responses
type AccountResponse struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Active bool   `json:"active"`
}

func mapAccountToResponse(a *account.Account) AccountResponse {
	return AccountResponse{
		ID:     a.ID.String(),
		Code:   a.Code,
		Name:   a.Name,
		Type:   string(a.Type),
		Active: a.Active,
	}
}

// ContactResponse represents a contact in API responses
type ContactResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Relation         string `json:"relation"`
	Active           bool   `json:"active"`
	DefaultAccountID string `json:"default_account_id,omitempty"`
}

func mapContactToResponse(c *contact.Contact) ContactResponse {
	response := ContactResponse{
		ID:       c.ID.String(),
		Name:     c.Name,
		Relation: string(c.Relation),
		Active:   c.Active,
	}
	if c.DefaultAccountID != nil {
		response.DefaultAccountID = c.DefaultAccountID.String()
	}
	return response
}

// RuleResponse represents a keyword rule in API responses
type RuleResponse struct {
	ID        string `json:"id"`
	Keyword   string `json:"keyword"`
	AccountID string `json:"account_id"`
	CreatedAt string `json:"created_at"`
}

func mapRuleToResponse(r *rule.Rule) RuleResponse {
	return RuleResponse{
		ID:        r.ID.String(),
		Keyword:   r.Keyword,
		AccountID: r.AccountID.String(),
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

// SuggestionResponse represents a classification suggestion in API responses
type SuggestionResponse struct {
	Source      string `json:"source"` // rule, contact or classifier
	Score       int    `json:"score"`
	Mode        string `json:"mode,omitempty"`
	AccountID   string `json:"account_id,omitempty"`
	ContactID   string `json:"contact_id,omitempty"`
	Description string `json:"description,omitempty"`
}

// RunResponse represents a bulk reconciliation run in API responses
type RunResponse struct {
	ID            string           `json:"id"`
	Status        string           `json:"status"`
	Total         int              `json:"total"`
	Processed     int              `json:"processed"`
	Phase         string           `json:"phase,omitempty"`
	Summary       *SummaryResponse `json:"summary,omitempty"`
	FailureReason string           `json:"failure_reason,omitempty"`
	CreatedAt     string           `json:"created_at"`
	StartedAt     string           `json:"started_at,omitempty"`
	FinishedAt    string           `json:"finished_at,omitempty"`
}

// SummaryResponse represents a run summary in API responses
type SummaryResponse struct {
	BookedPrivate    int `json:"booked_private"`
	BookedClassified int `json:"booked_classified"`
	Skipped          int `json:"skipped"`
}

func mapRunToResponse(run *shared.Run) RunResponse {
	response := RunResponse{
		ID:            run.ID.String(),
		Status:        string(run.Status),
		Total:         run.Total,
		Processed:     run.Processed,
		Phase:         run.Phase,
		FailureReason: run.FailureReason,
		CreatedAt:     run.CreatedAt.Format(time.RFC3339),
	}
	if run.Summary != nil {
		response.Summary = &SummaryResponse{
			BookedPrivate:    run.Summary.BookedPrivate,
			BookedClassified: run.Summary.BookedClassified,
			Skipped:          run.Summary.Skipped,
		}
	}
	if run.StartedAt != nil {
		response.StartedAt = run.StartedAt.Format(time.RFC3339)
	}
	if run.FinishedAt != nil {
		response.FinishedAt = run.FinishedAt.Format(time.RFC3339)
	}
	return response
}
