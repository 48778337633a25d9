// Package classifier wraps the external classification service. The engine
// treats the service as a black box: it relies only on the score being a
// monotonic 0-100 confidence and on relation-mode suggestions carrying a
// contact id.
package classifier

import (
	"context"

	"github.com/google/uuid"
	"github.com/grootboek-reconciliation-engine/internal/domain/banktransaction"
)

// Suggestion modes as reported by the classification service
const (
	SuggestionModeDirect   = "direct"
	SuggestionModeRelation = "relation"
)

// Suggestion is the posting proposal attached to a classification result
type Suggestion struct {
	AccountID   *uuid.UUID `json:"account_id,omitempty"`
	ContactID   *uuid.UUID `json:"contact_id,omitempty"`
	Description string     `json:"description,omitempty"`
	Mode        string     `json:"mode,omitempty"`
}

// Result carries the confidence score and the suggested posting for one
// transaction. Higher score means more trustworthy; how the score is derived
// is the service's business.
type Result struct {
	Score      int        `json:"score"`
	Suggestion Suggestion `json:"suggestion"`
}

// Classifier is the capability interface consumed by the engine. Test code
// substitutes a stub; production uses the HTTP client in this package.
type Classifier interface {
	Analyze(ctx context.Context, txn *banktransaction.Transaction) (*Result, error)
}
