package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/grootboek-reconciliation-engine/internal/domain/banktransaction"
	"github.com/grootboek-reconciliation-engine/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// TransactionRepository implements the banktransaction.Repository interface
// for PostgreSQL
type TransactionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL bank transaction repository
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) banktransaction.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing the status change
// and journal write to commit or roll back together.
func (r *TransactionRepository) WithTx(tx pgx.Tx) banktransaction.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

const transactionColumns = `id, date, amount, description, counterparty_name, counterparty_iban, status, journal_entry_id, suggestion, created_at, updated_at`

func scanTransaction(row pgx.Row) (*banktransaction.Transaction, error) {
	var txn banktransaction.Transaction
	err := row.Scan(
		&txn.ID,
		&txn.Date,
		&txn.Amount,
		&txn.Description,
		&txn.CounterpartyName,
		&txn.CounterpartyIBAN,
		&txn.Status,
		&txn.JournalEntryID,
		&txn.Suggestion,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// GetByID retrieves a bank transaction by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*banktransaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM bank_transactions
		WHERE id = $1
	`

	txn, err := scanTransaction(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, banktransaction.ErrTransactionNotFound{TransactionID: id}
		}
		r.logger.Error("Failed to get bank transaction", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get bank transaction: %w", err)
	}

	return txn, nil
}

// ListByStatus retrieves paginated transactions in the given status, oldest
// first so reconciliation proceeds in import order.
func (r *TransactionRepository) ListByStatus(ctx context.Context, status banktransaction.Status, limit, offset int) ([]*banktransaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM bank_transactions
		WHERE status = $1
		ORDER BY date, created_at
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, status, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list bank transactions", "status", string(status), "error", err)
		return nil, fmt.Errorf("failed to list bank transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*banktransaction.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank transaction: %w", err)
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bank transactions: %w", err)
	}

	return transactions, nil
}

// CountByStatus counts transactions in the given status
func (r *TransactionRepository) CountByStatus(ctx context.Context, status banktransaction.Status) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM bank_transactions
		WHERE status = $1
	`

	var count int64
	if err := r.querier.QueryRow(ctx, query, status).Scan(&count); err != nil {
		r.logger.Error("Failed to count bank transactions", "status", string(status), "error", err)
		return 0, fmt.Errorf("failed to count bank transactions: %w", err)
	}

	return count, nil
}

// MarkBooked links the transaction to its journal entry and moves it to
// Booked. The guard on journal_entry_id makes booking insert-once: a
// transaction that already carries a link is never relinked.
func (r *TransactionRepository) MarkBooked(ctx context.Context, id uuid.UUID, entryID uuid.UUID) error {
	query := `
		UPDATE bank_transactions
		SET status = $1, journal_entry_id = $2, updated_at = NOW()
		WHERE id = $3 AND journal_entry_id IS NULL
	`

	result, err := r.querier.Exec(ctx, query, banktransaction.StatusBooked, entryID, id)
	if err != nil {
		r.logger.Error("Failed to mark bank transaction booked", "id", id.String(), "error", err)
		return fmt.Errorf("failed to mark bank transaction booked: %w", err)
	}

	if result.RowsAffected() == 0 {
		return banktransaction.ErrAlreadyBooked
	}

	return nil
}

// StoreSuggestion persists the opaque classifier payload for later reuse
func (r *TransactionRepository) StoreSuggestion(ctx context.Context, id uuid.UUID, suggestion []byte) error {
	query := `
		UPDATE bank_transactions
		SET suggestion = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, suggestion, id)
	if err != nil {
		r.logger.Error("Failed to store classification suggestion", "id", id.String(), "error", err)
		return fmt.Errorf("failed to store classification suggestion: %w", err)
	}

	if result.RowsAffected() == 0 {
		return banktransaction.ErrTransactionNotFound{TransactionID: id}
	}

	return nil
}
