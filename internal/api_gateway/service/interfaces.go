// Package service holds the gateway-side application services: classification
// suggestions for a single transaction and the lifecycle of bulk
// reconciliation runs. Booking itself lives in the booking engine; the
// gateway consumes it through the interfaces defined here.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/grootboek-reconciliation-engine/internal/domain/journal"
	"github.com/grootboek-reconciliation-engine/internal/domain/rule"
	"github.com/grootboek-reconciliation-engine/internal/domain/shared"
)

// BookingService posts and reclassifies bank transactions; satisfied by the
// booking engine.
type BookingService interface {
	Book(ctx context.Context, req shared.BookingRequest) (*journal.Entry, error)
	Reclassify(ctx context.Context, transactionID, newAccountID uuid.UUID) (*journal.Entry, error)
}

// RuleService creates and evaluates keyword rules
type RuleService interface {
	Create(ctx context.Context, keyword string, accountID uuid.UUID) (*rule.Rule, error)
	List(ctx context.Context) ([]*rule.Rule, error)
	Match(ctx context.Context, description string) (*rule.Rule, error)
}

// SuggestionService produces a posting suggestion for one pending transaction
type SuggestionService interface {
	Suggest(ctx context.Context, transactionID uuid.UUID) (*SuggestionOutcome, error)
}

// RunService manages bulk reconciliation runs from the gateway side
type RunService interface {
	StartRun(ctx context.Context, transactionIDs, privateIDs []uuid.UUID, correlationID string) (*shared.Run, error)
	GetRun(ctx context.Context, id uuid.UUID) (*shared.Run, error)
}
