package srs

import (
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tango-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckLeech(t *testing.T) {
	t.Parallel() // Enable parallel execution

	newWord := func(t *testing.T, userID uuid.UUID) *domain.Word {
		t.Helper()
		word, err := domain.NewWord(userID, "猫", "ねこ", "cat", 5, 1)
		require.NoError(t, err, "Failed to create word")
		return word
	}

	t.Run("invalid threshold", func(t *testing.T) {
		t.Parallel()
		state := newTestState(t)
		word := newWord(t, state.UserID)

		for _, threshold := range []int{0, -1} {
			flagged, err := CheckLeech(state, word, threshold)
			assert.ErrorIs(t, err, ErrInvalidLeechThreshold)
			assert.False(t, flagged)
		}
	})

	t.Run("nil inputs are not leeches", func(t *testing.T) {
		t.Parallel()
		state := newTestState(t)
		word := newWord(t, state.UserID)

		flagged, err := CheckLeech(nil, word, 8)
		require.NoError(t, err)
		assert.False(t, flagged)

		flagged, err = CheckLeech(state, nil, 8)
		require.NoError(t, err)
		assert.False(t, flagged)
	})

	t.Run("below threshold", func(t *testing.T) {
		t.Parallel()
		state := newTestState(t)
		state.Lapses = 7
		word := newWord(t, state.UserID)

		flagged, err := CheckLeech(state, word, 8)
		require.NoError(t, err)
		assert.False(t, flagged)
	})

	t.Run("fires once at the threshold", func(t *testing.T) {
		t.Parallel()
		state := newTestState(t)
		state.Lapses = 8
		word := newWord(t, state.UserID)

		flagged, err := CheckLeech(state, word, 8)
		require.NoError(t, err)
		assert.True(t, flagged)

		// Once the word is flagged, further lapses do not re-trigger.
		word.IsLeech = true
		state.Lapses = 12
		flagged, err = CheckLeech(state, word, 8)
		require.NoError(t, err)
		assert.False(t, flagged)
	})

	t.Run("custom threshold", func(t *testing.T) {
		t.Parallel()
		state := newTestState(t)
		state.Lapses = 3
		word := newWord(t, state.UserID)

		flagged, err := CheckLeech(state, word, 3)
		require.NoError(t, err)
		assert.True(t, flagged)
	})
}
