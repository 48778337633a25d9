package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grootboek-reconciliation-engine/internal/domain/journal"
)

const (
	insertEntryQuery = `
			INSERT INTO journal_entries \(id, memo, created_at\)
			VALUES \(\$1, \$2, \$3\)
		`
	insertLineQuery = `
			INSERT INTO journal_lines \(id, entry_id, account_id, debit, credit\)
			VALUES \(\$1, \$2, \$3, \$4, \$5\)
		`
)

func balancedEntry(t *testing.T) *journal.Entry {
	t.Helper()
	entry, err := journal.NewEntry("Huur kantoor", []journal.Line{
		journal.DebitLine(uuid.New(), 125000),
		journal.CreditLine(uuid.New(), 125000),
	})
	require.NoError(t, err)
	return entry
}

func TestJournalRepository_Create(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &JournalRepository{querier: mock, logger: logger}

	t.Run("success", func(t *testing.T) {
		entry := balancedEntry(t)

		mock.ExpectExec(insertEntryQuery).
			WithArgs(entry.ID, entry.Memo, entry.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		for _, line := range entry.Lines {
			mock.ExpectExec(insertLineQuery).
				WithArgs(line.ID, line.EntryID, line.AccountID, line.Debit, line.Credit).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))
		}

		err := repo.Create(ctx, entry)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unbalanced entry is refused before any write", func(t *testing.T) {
		entry := balancedEntry(t)
		entry.Lines[0].Debit = 999

		err := repo.Create(ctx, entry)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "refusing to persist invalid journal entry")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("line insert failure", func(t *testing.T) {
		entry := balancedEntry(t)
		dbErr := errors.New("constraint violation")

		mock.ExpectExec(insertEntryQuery).
			WithArgs(entry.ID, entry.Memo, entry.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(insertLineQuery).
			WithArgs(entry.Lines[0].ID, entry.Lines[0].EntryID, entry.Lines[0].AccountID, entry.Lines[0].Debit, entry.Lines[0].Credit).
			WillReturnError(dbErr)

		err := repo.Create(ctx, entry)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create journal line")
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestJournalRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &JournalRepository{querier: mock, logger: logger}
	entryID := uuid.New()
	now := time.Now()

	entryQuery := `
			SELECT id, memo, created_at
			FROM journal_entries
			WHERE id = \$1
		`
	lineQuery := `
			SELECT id, entry_id, account_id, debit, credit
			FROM journal_lines
			WHERE entry_id = \$1
			ORDER BY id
		`

	t.Run("success", func(t *testing.T) {
		debitLine := journal.Line{ID: uuid.New(), EntryID: entryID, AccountID: uuid.New(), Debit: 5000}
		creditLine := journal.Line{ID: uuid.New(), EntryID: entryID, AccountID: uuid.New(), Credit: 5000}

		mock.ExpectQuery(entryQuery).WithArgs(entryID).
			WillReturnRows(pgxmock.NewRows([]string{"id", "memo", "created_at"}).
				AddRow(entryID, "Omzet week 12", now))
		mock.ExpectQuery(lineQuery).WithArgs(entryID).
			WillReturnRows(pgxmock.NewRows([]string{"id", "entry_id", "account_id", "debit", "credit"}).
				AddRow(debitLine.ID, debitLine.EntryID, debitLine.AccountID, debitLine.Debit, debitLine.Credit).
				AddRow(creditLine.ID, creditLine.EntryID, creditLine.AccountID, creditLine.Debit, creditLine.Credit))

		entry, err := repo.GetByID(ctx, entryID)
		assert.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, "Omzet week 12", entry.Memo)
		require.Len(t, entry.Lines, 2)
		assert.Equal(t, debitLine, entry.Lines[0])
		assert.Equal(t, creditLine, entry.Lines[1])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(entryQuery).WithArgs(entryID).WillReturnError(pgx.ErrNoRows)

		entry, err := repo.GetByID(ctx, entryID)
		assert.Error(t, err)
		assert.Nil(t, entry)
		var notFoundErr journal.ErrEntryNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, entryID, notFoundErr.EntryID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestJournalRepository_UpdateLineAccount(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &JournalRepository{querier: mock, logger: logger}
	lineID := uuid.New()
	accountID := uuid.New()

	query := `
			UPDATE journal_lines
			SET account_id = \$1
			WHERE id = \$2
		`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(accountID, lineID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateLineAccount(ctx, lineID, accountID)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing line", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(accountID, lineID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateLineAccount(ctx, lineID, accountID)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
