package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/grootboek-reconciliation-engine/internal/domain/rule"
	"github.com/grootboek-reconciliation-engine/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// RuleRepository implements the rule.Repository interface for PostgreSQL
type RuleRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewRuleRepository creates a new PostgreSQL bank rule repository
func NewRuleRepository(logger *slog.Logger, db *persistence.PostgresDB) rule.Repository {
	return &RuleRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so rule creation can fail
// the surrounding booking atomically.
func (r *RuleRepository) WithTx(tx pgx.Tx) rule.Repository {
	return &RuleRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new bank rule
func (r *RuleRepository) Create(ctx context.Context, bankRule *rule.Rule) error {
	query := `
		INSERT INTO bank_rules (id, keyword, account_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.querier.Exec(ctx, query, bankRule.ID, bankRule.Keyword, bankRule.AccountID, bankRule.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create bank rule", "keyword", bankRule.Keyword, "error", err)
		return fmt.Errorf("failed to create bank rule: %w", err)
	}

	return nil
}

// List returns all rules in creation order (oldest first)
func (r *RuleRepository) List(ctx context.Context) ([]*rule.Rule, error) {
	query := `
		SELECT id, keyword, account_id, created_at
		FROM bank_rules
		ORDER BY created_at, id
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list bank rules", "error", err)
		return nil, fmt.Errorf("failed to list bank rules: %w", err)
	}
	defer rows.Close()

	var rules []*rule.Rule
	for rows.Next() {
		var br rule.Rule
		if err := rows.Scan(&br.ID, &br.Keyword, &br.AccountID, &br.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bank rule: %w", err)
		}
		rules = append(rules, &br)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bank rules: %w", err)
	}

	return rules, nil
}
