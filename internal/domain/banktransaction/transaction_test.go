package banktransaction

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unmatchedTransaction(amount int64) *Transaction {
	return &Transaction{
		ID:        uuid.New(),
		Date:      time.Now().Add(-24 * time.Hour),
		Amount:    amount,
		Status:    StatusUnmatched,
		CreatedAt: time.Now().Add(-24 * time.Hour),
		UpdatedAt: time.Now().Add(-24 * time.Hour),
	}
}

func TestTransaction_Direction(t *testing.T) {
	t.Run("Inflow", func(t *testing.T) {
		txn := unmatchedTransaction(2500)
		assert.True(t, txn.IsInflow())
		assert.Equal(t, int64(2500), txn.AbsAmount())
	})

	t.Run("Outflow", func(t *testing.T) {
		txn := unmatchedTransaction(-2500)
		assert.False(t, txn.IsInflow())
		assert.Equal(t, int64(2500), txn.AbsAmount())
	})
}

func TestTransaction_MarkBooked(t *testing.T) {
	t.Run("LinksEntryAndUpdatesStatus", func(t *testing.T) {
		txn := unmatchedTransaction(2500)
		entryID := uuid.New()

		err := txn.MarkBooked(entryID)

		require.NoError(t, err)
		require.NotNil(t, txn.JournalEntryID)
		assert.Equal(t, entryID, *txn.JournalEntryID)
		assert.Equal(t, StatusBooked, txn.Status)
		assert.True(t, txn.IsBooked())
	})

	t.Run("SecondBookingFails", func(t *testing.T) {
		txn := unmatchedTransaction(2500)
		first := uuid.New()
		require.NoError(t, txn.MarkBooked(first))

		err := txn.MarkBooked(uuid.New())

		assert.ErrorIs(t, err, ErrAlreadyBooked)
		assert.Equal(t, first, *txn.JournalEntryID, "original journal link must survive")
	})
}

func TestTransaction_IsBooked(t *testing.T) {
	// Completeness is derived from the journal link alone; a stale status
	// field must not change the answer.
	t.Run("StatusFieldIsNotConsulted", func(t *testing.T) {
		txn := unmatchedTransaction(100)
		txn.Status = StatusBooked

		assert.False(t, txn.IsBooked())

		entryID := uuid.New()
		txn.Status = StatusUnmatched
		txn.JournalEntryID = &entryID

		assert.True(t, txn.IsBooked())
	})
}
