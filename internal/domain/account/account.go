package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyCode   = errors.New("account code cannot be empty")
	ErrEmptyName   = errors.New("account name cannot be empty")
	ErrInvalidType = errors.New("invalid account type")
)

// Type classifies a ledger account within the chart of accounts
type Type string

const (
	TypeAsset     Type = "ASSET"
	TypeLiability Type = "LIABILITY"
	TypeEquity    Type = "EQUITY"
	TypeRevenue   Type = "REVENUE"
	TypeExpense   Type = "EXPENSE"
)

// ValidTypes lists every recognized account type
var ValidTypes = []Type{TypeAsset, TypeLiability, TypeEquity, TypeRevenue, TypeExpense}

// Account represents a ledger account in the chart of accounts. The booking
// engine treats accounts as read-only; only the contact directory points at
// them mutably (default-account suggestions).
type Account struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"` // Numeric string, lexicographic order equals numeric order
	Name      string    `json:"name"`
	Type      Type      `json:"type"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAccount creates a new ledger account with the given parameters
func NewAccount(code, name string, accountType Type) (*Account, error) {
	if code == "" {
		return nil, ErrEmptyCode
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	if !isValidType(accountType) {
		return nil, ErrInvalidType
	}

	return &Account{
		ID:        uuid.New(),
		Code:      code,
		Name:      name,
		Type:      accountType,
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

// IsCashLike reports whether the account represents bank cash: an Asset-typed
// account whose code falls inside the configured bank-account code range.
// Reclassification must never touch such a line.
func (a *Account) IsCashLike(rangeLow, rangeHigh string) bool {
	return a.Type == TypeAsset && a.Code >= rangeLow && a.Code <= rangeHigh
}

func isValidType(t Type) bool {
	for _, v := range ValidTypes {
		if t == v {
			return true
		}
	}
	return false
}
