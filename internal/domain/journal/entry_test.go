package journal

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	t.Run("SuccessfulCreation", func(t *testing.T) {
		bank := uuid.New()
		revenue := uuid.New()

		entry, err := NewEntry("Omzet pin", []Line{
			DebitLine(bank, 15000),
			CreditLine(revenue, 15000),
		})

		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.NotEqual(t, uuid.Nil, entry.ID)
		assert.Equal(t, "Omzet pin", entry.Memo)
		require.Len(t, entry.Lines, 2)
		for _, line := range entry.Lines {
			assert.NotEqual(t, uuid.Nil, line.ID)
			assert.Equal(t, entry.ID, line.EntryID)
		}
		assert.Equal(t, bank, entry.Lines[0].AccountID)
		assert.Equal(t, int64(15000), entry.Lines[0].Debit)
		assert.Equal(t, revenue, entry.Lines[1].AccountID)
		assert.Equal(t, int64(15000), entry.Lines[1].Credit)
	})

	t.Run("DoesNotMutateInputLines", func(t *testing.T) {
		lines := []Line{
			DebitLine(uuid.New(), 100),
			CreditLine(uuid.New(), 100),
		}

		_, err := NewEntry("memo", lines)

		require.NoError(t, err)
		assert.Equal(t, uuid.Nil, lines[0].ID)
		assert.Equal(t, uuid.Nil, lines[0].EntryID)
	})
}

func TestEntry_Validate(t *testing.T) {
	t.Run("TooFewLines", func(t *testing.T) {
		_, err := NewEntry("memo", []Line{DebitLine(uuid.New(), 100)})
		assert.ErrorIs(t, err, ErrTooFewLines)
	})

	t.Run("Unbalanced", func(t *testing.T) {
		_, err := NewEntry("memo", []Line{
			DebitLine(uuid.New(), 100),
			CreditLine(uuid.New(), 99),
		})
		assert.ErrorIs(t, err, ErrUnbalanced)
	})

	t.Run("LineWithBothSides", func(t *testing.T) {
		_, err := NewEntry("memo", []Line{
			{AccountID: uuid.New(), Debit: 100, Credit: 100},
			CreditLine(uuid.New(), 100),
		})
		assert.ErrorIs(t, err, ErrBadLineAmount)
	})

	t.Run("LineWithNeitherSide", func(t *testing.T) {
		_, err := NewEntry("memo", []Line{
			DebitLine(uuid.New(), 100),
			{AccountID: uuid.New()},
		})
		assert.ErrorIs(t, err, ErrBadLineAmount)
	})

	t.Run("NegativeAmount", func(t *testing.T) {
		_, err := NewEntry("memo", []Line{
			{AccountID: uuid.New(), Debit: -100},
			CreditLine(uuid.New(), 100),
		})
		assert.ErrorIs(t, err, ErrBadLineAmount)
	})

	t.Run("MultiLineBalanced", func(t *testing.T) {
		entry, err := NewEntry("memo", []Line{
			DebitLine(uuid.New(), 7000),
			CreditLine(uuid.New(), 3000),
			CreditLine(uuid.New(), 4000),
		})
		require.NoError(t, err)
		assert.NoError(t, entry.Validate())
	})
}
