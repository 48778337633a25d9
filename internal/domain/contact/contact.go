package contact

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyName       = errors.New("contact name cannot be empty")
	ErrInvalidRelation = errors.New("invalid relation type")
)

// Relation describes which side of trade a contact sits on
type Relation string

const (
	RelationCustomer Relation = "CUSTOMER"
	RelationSupplier Relation = "SUPPLIER"
	RelationBoth     Relation = "BOTH"
)

// Contact represents a counterparty. Its default-account pointer is the only
// contact state this engine mutates: the booking flow updates it when the
// user confirms a categorization as the contact's default.
type Contact struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Relation         Relation   `json:"relation"`
	Active           bool       `json:"active"`
	DefaultAccountID *uuid.UUID `json:"default_account_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NewContact creates a new contact with the given parameters
func NewContact(name string, relation Relation) (*Contact, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	switch relation {
	case RelationCustomer, RelationSupplier, RelationBoth:
	default:
		return nil, ErrInvalidRelation
	}

	return &Contact{
		ID:        uuid.New(),
		Name:      name,
		Relation:  relation,
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

// CompatibleWithInflow reports whether the contact may be the counterparty of
// a positive (incoming) bank transaction.
func (c *Contact) CompatibleWithInflow() bool {
	return c.Relation == RelationCustomer || c.Relation == RelationBoth
}

// CompatibleWithOutflow reports whether the contact may be the counterparty of
// a negative (outgoing) bank transaction.
func (c *Contact) CompatibleWithOutflow() bool {
	return c.Relation == RelationSupplier || c.Relation == RelationBoth
}

// SetDefaultAccount updates the default ledger account suggestion
func (c *Contact) SetDefaultAccount(accountID uuid.UUID) {
	c.DefaultAccountID = &accountID
	c.UpdatedAt = time.Now()
}
