package banktransaction

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines bank transaction persistence operations
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListByStatus(ctx context.Context, status Status, limit, offset int) ([]*Transaction, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)

	// MarkBooked sets the journal-entry link and status in one statement,
	// guarded so an already-linked transaction is never overwritten.
	MarkBooked(ctx context.Context, id uuid.UUID, entryID uuid.UUID) error

	// StoreSuggestion persists the opaque classifier payload for later reuse
	StoreSuggestion(ctx context.Context, id uuid.UUID, suggestion []byte) error

	WithTx(tx pgx.Tx) Repository
}

// ErrTransactionNotFound indicates a missing bank transaction
type ErrTransactionNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "bank transaction not found: " + e.TransactionID.String()
}

// Is implements the errors.Is interface for ErrTransactionNotFound
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}
