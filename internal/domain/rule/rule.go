package rule

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyKeyword rejects rules without a keyword
var ErrEmptyKeyword = errors.New("rule keyword cannot be empty")

// Rule maps a description keyword to a target ledger account. Rules are
// created through the booking flow and consulted before the external
// classifier is ever called.
type Rule struct {
	ID        uuid.UUID `json:"id"`
	Keyword   string    `json:"keyword"`
	AccountID uuid.UUID `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRule creates a rule, trimming surrounding whitespace from the keyword
func NewRule(keyword string, accountID uuid.UUID) (*Rule, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}
	return &Rule{
		ID:        uuid.New(),
		Keyword:   keyword,
		AccountID: accountID,
		CreatedAt: time.Now(),
	}, nil
}

// Matches reports whether the rule's keyword occurs in the description,
// case-insensitively.
func (r *Rule) Matches(description string) bool {
	return strings.Contains(strings.ToLower(description), strings.ToLower(r.Keyword))
}
