package rule

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRule(t *testing.T) {
	t.Run("TrimsKeyword", func(t *testing.T) {
		accountID := uuid.New()

		r, err := NewRule("  Albert Heijn  ", accountID)

		require.NoError(t, err)
		assert.Equal(t, "Albert Heijn", r.Keyword)
		assert.Equal(t, accountID, r.AccountID)
		assert.NotEqual(t, uuid.Nil, r.ID)
	})

	t.Run("EmptyKeyword", func(t *testing.T) {
		_, err := NewRule("   ", uuid.New())
		assert.ErrorIs(t, err, ErrEmptyKeyword)
	})
}

func TestRule_Matches(t *testing.T) {
	r := &Rule{Keyword: "Albert Heijn"}

	assert.True(t, r.Matches("ALBERT HEIJN 1402 AMSTERDAM"))
	assert.True(t, r.Matches("betaling albert heijn to go"))
	assert.False(t, r.Matches("Jumbo Supermarkten"))
	assert.False(t, r.Matches(""))
}
