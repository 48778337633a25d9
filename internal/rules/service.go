// Package rules manages keyword rules that map bank transaction descriptions
// to ledger accounts. Rules are the cheapest classification tier and are
// consulted before the external classifier.
package rules

import (
	"context"
	"sort"

	"log/slog"

	"github.com/google/uuid"

	"github.com/grootboek-reconciliation-engine/internal/domain/rule"
	"github.com/grootboek-reconciliation-engine/internal/domain/shared"
)

// Service creates and evaluates bank rules
type Service struct {
	logger *slog.Logger
	rules  rule.Repository
}

// NewService creates a new rule service
func NewService(logger *slog.Logger, rules rule.Repository) *Service {
	return &Service{
		logger: logger,
		rules:  rules,
	}
}

// Create stores a new keyword rule
func (s *Service) Create(ctx context.Context, keyword string, accountID uuid.UUID) (*rule.Rule, error) {
	r, err := rule.NewRule(keyword, accountID)
	if err != nil {
		return nil, shared.ValidationError{Field: "keyword", Reason: err.Error()}
	}

	if err := s.rules.Create(ctx, r); err != nil {
		return nil, shared.StorageError{Op: "create bank rule", Err: err}
	}

	s.logger.Info("Created bank rule",
		"rule_id", r.ID.String(),
		"keyword", r.Keyword,
		"account_id", r.AccountID.String())

	return r, nil
}

// List returns all rules in creation order
func (s *Service) List(ctx context.Context) ([]*rule.Rule, error) {
	rules, err := s.rules.List(ctx)
	if err != nil {
		return nil, shared.StorageError{Op: "list bank rules", Err: err}
	}
	return rules, nil
}

// Match returns the rule that best matches the description, or nil when no
// rule matches. Longer keywords win over shorter ones so the most specific
// rule decides; among equally long keywords the oldest rule wins, keeping
// matches stable as new rules are added.
func (s *Service) Match(ctx context.Context, description string) (*rule.Rule, error) {
	rules, err := s.rules.List(ctx)
	if err != nil {
		return nil, shared.StorageError{Op: "list bank rules", Err: err}
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return len(rules[i].Keyword) > len(rules[j].Keyword)
	})

	for _, r := range rules {
		if r.Matches(description) {
			return r, nil
		}
	}
	return nil, nil
}
