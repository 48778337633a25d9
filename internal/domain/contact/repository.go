package contact

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines contact persistence operations
type Repository interface {
	Create(ctx context.Context, contact *Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	// FindByName performs a case-insensitive exact name lookup among active
	// contacts. Returns nil, nil when nothing matches.
	FindByName(ctx context.Context, name string) (*Contact, error)
	ListActive(ctx context.Context) ([]*Contact, error)
	UpdateDefaultAccount(ctx context.Context, id uuid.UUID, accountID uuid.UUID) error
	WithTx(tx pgx.Tx) Repository
}

// ErrContactNotFound indicates a missing contact
type ErrContactNotFound struct {
	ContactID uuid.UUID
}

func (e ErrContactNotFound) Error() string {
	return "contact not found: " + e.ContactID.String()
}

// Is implements the errors.Is interface for ErrContactNotFound
func (e ErrContactNotFound) Is(target error) bool {
	t, ok := target.(ErrContactNotFound)
	if !ok {
		return false
	}
	if t.ContactID == uuid.Nil {
		return true
	}
	return e.ContactID == t.ContactID
}
