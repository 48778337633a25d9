package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/grootboek-reconciliation-engine/internal/domain/journal"
	"github.com/grootboek-reconciliation-engine/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// JournalRepository implements the journal.Repository interface for PostgreSQL
type JournalRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewJournalRepository creates a new PostgreSQL journal repository
func NewJournalRepository(logger *slog.Logger, db *persistence.PostgresDB) journal.Repository {
	return &JournalRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction. Journal writes always run
// inside the booking transaction.
func (r *JournalRepository) WithTx(tx pgx.Tx) journal.Repository {
	return &JournalRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create persists an entry with all its lines as one unit. The balance
// invariant is re-checked as a final guard before anything is written.
func (r *JournalRepository) Create(ctx context.Context, entry *journal.Entry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("refusing to persist invalid journal entry: %w", err)
	}

	entryQuery := `
		INSERT INTO journal_entries (id, memo, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.querier.Exec(ctx, entryQuery, entry.ID, entry.Memo, entry.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create journal entry", "id", entry.ID.String(), "error", err)
		return fmt.Errorf("failed to create journal entry: %w", err)
	}

	lineQuery := `
		INSERT INTO journal_lines (id, entry_id, account_id, debit, credit)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, line := range entry.Lines {
		_, err := r.querier.Exec(ctx, lineQuery, line.ID, line.EntryID, line.AccountID, line.Debit, line.Credit)
		if err != nil {
			r.logger.Error("Failed to create journal line",
				"entry_id", entry.ID.String(),
				"line_id", line.ID.String(),
				"error", err,
			)
			return fmt.Errorf("failed to create journal line: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a journal entry with all its lines
func (r *JournalRepository) GetByID(ctx context.Context, id uuid.UUID) (*journal.Entry, error) {
	entryQuery := `
		SELECT id, memo, created_at
		FROM journal_entries
		WHERE id = $1
	`

	var entry journal.Entry
	err := r.querier.QueryRow(ctx, entryQuery, id).Scan(&entry.ID, &entry.Memo, &entry.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, journal.ErrEntryNotFound{EntryID: id}
		}
		r.logger.Error("Failed to get journal entry", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}

	lineQuery := `
		SELECT id, entry_id, account_id, debit, credit
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY id
	`

	rows, err := r.querier.Query(ctx, lineQuery, id)
	if err != nil {
		r.logger.Error("Failed to get journal lines", "entry_id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get journal lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line journal.Line
		if err := rows.Scan(&line.ID, &line.EntryID, &line.AccountID, &line.Debit, &line.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan journal line: %w", err)
		}
		entry.Lines = append(entry.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal lines: %w", err)
	}

	return &entry, nil
}

// UpdateLineAccount repoints one line at a different ledger account, leaving
// its amounts untouched. The entry stays balanced because only the account
// identity changes.
func (r *JournalRepository) UpdateLineAccount(ctx context.Context, lineID uuid.UUID, accountID uuid.UUID) error {
	query := `
		UPDATE journal_lines
		SET account_id = $1
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, accountID, lineID)
	if err != nil {
		r.logger.Error("Failed to update journal line account", "line_id", lineID.String(), "error", err)
		return fmt.Errorf("failed to update journal line account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("journal line %s not found", lineID.String())
	}

	return nil
}
