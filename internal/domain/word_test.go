package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWord(t *testing.T) {
	t.Parallel() // Enable parallel execution
	userID := uuid.New()

	word, err := NewWord(userID, "食べる", "たべる", "to eat", 5, 2)
	require.NoError(t, err, "Failed to create word")
	require.NotNil(t, word)

	assert.NotEqual(t, uuid.Nil, word.ID)
	assert.Equal(t, userID, word.UserID)
	assert.Equal(t, "食べる", word.Term)
	assert.Equal(t, "たべる", word.Reading)
	assert.Equal(t, "to eat", word.Meaning)
	assert.Equal(t, 5, word.JLPTLevel)
	assert.Equal(t, 2, word.Priority)
	assert.False(t, word.Mastered)
	assert.False(t, word.IsLeech)
	assert.True(t, word.LeechAt.IsZero())
}

func TestNewWordValidation(t *testing.T) {
	t.Parallel() // Enable parallel execution
	userID := uuid.New()

	testCases := []struct {
		name      string
		userID    uuid.UUID
		term      string
		jlptLevel int
		priority  int
		wantErr   error
	}{
		{"empty user ID", uuid.Nil, "猫", 5, 0, ErrWordUserIDEmpty},
		{"empty term", userID, "", 5, 0, ErrWordTermEmpty},
		{"JLPT level too high", userID, "猫", 6, 0, ErrWordInvalidJLPT},
		{"negative JLPT level", userID, "猫", -1, 0, ErrWordInvalidJLPT},
		{"negative priority", userID, "猫", 5, -1, ErrWordInvalidPriority},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewWord(tc.userID, tc.term, "", "meaning", tc.jlptLevel, tc.priority)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	t.Run("unclassified JLPT level allowed", func(t *testing.T) {
		t.Parallel()
		word, err := NewWord(userID, "slang", "", "unclassified term", 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, word.JLPTLevel)
	})
}
