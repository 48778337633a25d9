package journal

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository manages journal entry persistence. An entry and its lines are
// always written as a single atomic unit.
type Repository interface {
	// Create persists an entry with all its lines. Callers must have
	// validated the entry; Create re-checks the balance invariant as a
	// final guard and refuses unbalanced entries.
	Create(ctx context.Context, entry *Entry) error

	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)

	// UpdateLineAccount repoints one line at a different ledger account,
	// leaving its amounts untouched. Used by reclassification only.
	UpdateLineAccount(ctx context.Context, lineID uuid.UUID, accountID uuid.UUID) error

	WithTx(tx pgx.Tx) Repository
}

// ErrEntryNotFound indicates a missing journal entry
type ErrEntryNotFound struct {
	EntryID uuid.UUID
}

func (e ErrEntryNotFound) Error() string {
	return "journal entry not found: " + e.EntryID.String()
}

// Is implements the errors.Is interface for ErrEntryNotFound
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	if t.EntryID == uuid.Nil {
		return true
	}
	return e.EntryID == t.EntryID
}
