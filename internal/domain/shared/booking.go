package shared

import "github.com/google/uuid"

// Mode selects how a transaction is posted
type Mode string

const (
	// ModeDirect posts cash directly against the target account in one entry
	ModeDirect Mode = "DIRECT"
	// ModeViaRelatie routes the posting through a debtor/creditor clearing
	// account in two entries, preserving the receivable/payable trail
	ModeViaRelatie Mode = "VIA_RELATIE"
)

// BookingRequest carries everything the booking engine needs to post one
// pending transaction.
type BookingRequest struct {
	TransactionID uuid.UUID
	AccountID     uuid.UUID
	Description   string
	Mode          Mode
	ContactID     *uuid.UUID // Required for ModeViaRelatie

	// SetContactDefault records the chosen account as the contact's default
	SetContactDefault bool
	// RuleKeyword, when non-empty, creates a bank rule mapping the keyword
	// to the chosen account. Rule creation failure aborts the booking.
	RuleKeyword string

	CorrelationID string
}
