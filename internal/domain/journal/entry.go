package journal

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrTooFewLines   = errors.New("journal entry needs at least two lines")
	ErrUnbalanced    = errors.New("journal entry debits and credits do not balance")
	ErrBadLineAmount = errors.New("journal line must carry exactly one of debit or credit, positive")
)

// Entry is an atomic, balanced group of postings recording one economic
// event. Entries and their lines are created as a unit and never partially
// exist.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	Memo      string    `json:"memo"`
	Lines     []Line    `json:"lines"`
	CreatedAt time.Time `json:"created_at"`
}

// Line posts an amount to one ledger account within an entry. Exactly one of
// Debit and Credit is positive, the other zero; amounts are in minor units.
type Line struct {
	ID        uuid.UUID `json:"id"`
	EntryID   uuid.UUID `json:"entry_id"`
	AccountID uuid.UUID `json:"account_id"`
	Debit     int64     `json:"debit"`
	Credit    int64     `json:"credit"`
}

// NewEntry assembles and validates an entry from its lines
func NewEntry(memo string, lines []Line) (*Entry, error) {
	entry := &Entry{
		ID:        uuid.New(),
		Memo:      memo,
		Lines:     make([]Line, len(lines)),
		CreatedAt: time.Now(),
	}
	copy(entry.Lines, lines)
	for i := range entry.Lines {
		entry.Lines[i].ID = uuid.New()
		entry.Lines[i].EntryID = entry.ID
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return entry, nil
}

// DebitLine builds a line debiting the given account
func DebitLine(accountID uuid.UUID, amount int64) Line {
	return Line{AccountID: accountID, Debit: amount}
}

// CreditLine builds a line crediting the given account
func CreditLine(accountID uuid.UUID, amount int64) Line {
	return Line{AccountID: accountID, Credit: amount}
}

// Validate enforces the double-entry invariant: at least two lines, each line
// carrying exactly one positive side, and total debits equal to total
// credits. Every entry the engine persists must pass this, no exception.
func (e *Entry) Validate() error {
	if len(e.Lines) < 2 {
		return ErrTooFewLines
	}

	var debits, credits int64
	for _, line := range e.Lines {
		if line.Debit < 0 || line.Credit < 0 {
			return ErrBadLineAmount
		}
		if (line.Debit == 0) == (line.Credit == 0) {
			return ErrBadLineAmount
		}
		debits += line.Debit
		credits += line.Credit
	}

	if debits != credits {
		return ErrUnbalanced
	}
	return nil
}
