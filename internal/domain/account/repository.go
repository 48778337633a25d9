package account

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines read-only access to the chart of accounts. The account
// directory is owned by a collaborator; this engine only looks accounts up.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByCode(ctx context.Context, code string) (*Account, error)
	ListActive(ctx context.Context) ([]*Account, error)
}

// ErrAccountNotFound indicates a missing ledger account
type ErrAccountNotFound struct {
	AccountID uuid.UUID
	Code      string
}

func (e ErrAccountNotFound) Error() string {
	if e.Code != "" {
		return "ledger account not found for code: " + e.Code
	}
	return "ledger account not found: " + e.AccountID.String()
}

// Is implements the errors.Is interface for ErrAccountNotFound
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil && t.Code == "" {
		return true
	}
	return e.AccountID == t.AccountID && e.Code == t.Code
}
