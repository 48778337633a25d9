// Package postgres provides PostgreSQL implementations of the domain
// repositories. It handles all database operations while maintaining
// transaction safety and proper error handling for the reconciliation engine.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/grootboek-reconciliation-engine/internal/domain/account"
	"github.com/grootboek-reconciliation-engine/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

const accountColumns = `id, code, name, type, active, created_at, updated_at`

func scanAccount(row pgx.Row) (*account.Account, error) {
	var acc account.Account
	err := row.Scan(
		&acc.ID,
		&acc.Code,
		&acc.Name,
		&acc.Type,
		&acc.Active,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// GetByID retrieves a ledger account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM ledger_accounts
		WHERE id = $1
	`

	acc, err := scanAccount(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to get ledger account", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get ledger account: %w", err)
	}

	return acc, nil
}

// GetByCode retrieves a ledger account by its chart-of-accounts code
func (r *AccountRepository) GetByCode(ctx context.Context, code string) (*account.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM ledger_accounts
		WHERE code = $1
	`

	acc, err := scanAccount(r.querier.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{Code: code}
		}
		r.logger.Error("Failed to get ledger account by code", "code", code, "error", err)
		return nil, fmt.Errorf("failed to get ledger account by code: %w", err)
	}

	return acc, nil
}

// ListActive retrieves all active accounts ordered by code
func (r *AccountRepository) ListActive(ctx context.Context) ([]*account.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM ledger_accounts
		WHERE active = TRUE
		ORDER BY code
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list active ledger accounts", "error", err)
		return nil, fmt.Errorf("failed to list active ledger accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger account: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger accounts: %w", err)
	}

	return accounts, nil
}
