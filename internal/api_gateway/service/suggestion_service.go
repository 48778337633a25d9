package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/grootboek-reconciliation-engine/internal/domain/banktransaction"
	"github.com/grootboek-reconciliation-engine/internal/domain/contact"
	"github.com/grootboek-reconciliation-engine/internal/observability"
	"github.com/grootboek-reconciliation-engine/internal/platform/classifier"
)

// Suggestion sources, cheapest first
const (
	SourceRule       = "rule"
	SourceContact    = "contact"
	SourceClassifier = "classifier"
)

// SuggestionOutcome is a posting suggestion together with where it came from
type SuggestionOutcome struct {
	Source string
	Result classifier.Result
}

type suggestionService struct {
	logger       *slog.Logger
	rules        RuleService
	contacts     contact.Repository
	transactions banktransaction.Repository
	classifier   classifier.Classifier
	metrics      *observability.Metrics
}

// NewSuggestionService creates the tiered suggestion service. Keyword rules
// are consulted first, then contact name matching, and only when both come up
// empty is the external classifier called.
func NewSuggestionService(
	logger *slog.Logger,
	rules RuleService,
	contacts contact.Repository,
	transactions banktransaction.Repository,
	cls classifier.Classifier,
	metrics *observability.Metrics,
) SuggestionService {
	return &suggestionService{
		logger:       logger,
		rules:        rules,
		contacts:     contacts,
		transactions: transactions,
		classifier:   cls,
		metrics:      metrics,
	}
}

// Suggest produces a posting suggestion for one pending transaction
func (s *suggestionService) Suggest(ctx context.Context, transactionID uuid.UUID) (*SuggestionOutcome, error) {
	txn, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.IsBooked() {
		return nil, banktransaction.ErrAlreadyBooked
	}

	matched, err := s.rules.Match(ctx, txn.Description)
	if err != nil {
		return nil, err
	}
	if matched != nil {
		accountID := matched.AccountID
		return &SuggestionOutcome{
			Source: SourceRule,
			Result: classifier.Result{
				Score: 100,
				Suggestion: classifier.Suggestion{
					AccountID: &accountID,
					Mode:      classifier.SuggestionModeDirect,
				},
			},
		}, nil
	}

	if outcome := s.matchContact(ctx, txn); outcome != nil {
		return outcome, nil
	}

	result, err := s.classifier.Analyze(ctx, txn)
	if err != nil {
		s.metrics.RecordClassifierCall("error")
		return nil, err
	}
	s.metrics.RecordClassifierCall("ok")

	if payload, err := json.Marshal(result); err == nil {
		if err := s.transactions.StoreSuggestion(ctx, txn.ID, payload); err != nil {
			s.logger.Warn("Failed to store classification suggestion",
				"transaction_id", txn.ID.String(),
				"error", err)
		}
	}

	return &SuggestionOutcome{Source: SourceClassifier, Result: *result}, nil
}

// matchContact suggests booking through a known counterparty: an active
// contact whose name equals the transaction's counterparty name, with a
// default account set and a relation compatible with the money's direction.
func (s *suggestionService) matchContact(ctx context.Context, txn *banktransaction.Transaction) *SuggestionOutcome {
	if txn.CounterpartyName == "" {
		return nil
	}

	cnt, err := s.contacts.FindByName(ctx, txn.CounterpartyName)
	if err != nil {
		s.logger.Warn("Contact lookup failed during suggestion",
			"transaction_id", txn.ID.String(),
			"error", err)
		return nil
	}
	if cnt == nil || cnt.DefaultAccountID == nil {
		return nil
	}
	if txn.IsInflow() && !cnt.CompatibleWithInflow() {
		return nil
	}
	if !txn.IsInflow() && !cnt.CompatibleWithOutflow() {
		return nil
	}

	contactID := cnt.ID
	accountID := *cnt.DefaultAccountID
	return &SuggestionOutcome{
		Source: SourceContact,
		Result: classifier.Result{
			Score: 100,
			Suggestion: classifier.Suggestion{
				AccountID: &accountID,
				ContactID: &contactID,
				Mode:      classifier.SuggestionModeRelation,
			},
		},
	}
}
