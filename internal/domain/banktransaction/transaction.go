package banktransaction

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrAlreadyBooked = errors.New("transaction is already booked")
	ErrNotBooked     = errors.New("transaction is not booked")
	ErrZeroAmount    = errors.New("transaction amount cannot be zero")
)

// Status tracks the pre-booking lifecycle of an imported bank transaction.
// Whether a transaction is fully posted is derived from the journal-entry
// link alone (IsBooked); Status carries the richer Unmatched/Matched
// distinction that exists before booking.
type Status string

const (
	StatusUnmatched Status = "UNMATCHED"
	StatusMatched   Status = "MATCHED"
	StatusBooked    Status = "BOOKED"
)

// Transaction represents an imported bank transaction awaiting
// reconciliation. Transactions are created by an external import process in
// status Unmatched and transition to Booked exactly once.
type Transaction struct {
	ID               uuid.UUID       `json:"id"`
	Date             time.Time       `json:"date"`
	Amount           int64           `json:"amount"` // Minor units; positive = inflow, negative = outflow
	Description      string          `json:"description"`
	CounterpartyName string          `json:"counterparty_name,omitempty"`
	CounterpartyIBAN string          `json:"counterparty_iban,omitempty"`
	Status           Status          `json:"status"`
	JournalEntryID   *uuid.UUID      `json:"journal_entry_id,omitempty"`
	Suggestion       json.RawMessage `json:"suggestion,omitempty"` // Stored classifier payload, opaque here
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// IsInflow reports whether money came in on this transaction
func (t *Transaction) IsInflow() bool {
	return t.Amount > 0
}

// AbsAmount returns the unsigned amount in minor units
func (t *Transaction) AbsAmount() int64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}

// IsBooked reports whether the transaction has been fully posted. The
// journal-entry link is the single source of truth; the status field is not
// consulted so the two signals can never diverge in completeness reports.
func (t *Transaction) IsBooked() bool {
	return t.JournalEntryID != nil
}

// MarkBooked links the transaction to the journal entry that posted it and
// moves it to Booked. Booking is irreversible; a second call fails.
func (t *Transaction) MarkBooked(entryID uuid.UUID) error {
	if t.IsBooked() {
		return ErrAlreadyBooked
	}
	t.JournalEntryID = &entryID
	t.Status = StatusBooked
	t.UpdatedAt = time.Now()
	return nil
}
