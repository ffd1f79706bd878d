package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingIsValid(t *testing.T) {
	t.Parallel() // Enable parallel execution

	for _, rating := range []Rating{RatingAgain, RatingHard, RatingGood, RatingEasy} {
		assert.True(t, rating.IsValid(), "expected %q to be valid", rating)
	}

	for _, rating := range []Rating{"", "AGAIN", "ok", "perfect"} {
		assert.False(t, rating.IsValid(), "expected %q to be invalid", rating)
	}
}

func TestRatingGrade(t *testing.T) {
	t.Parallel() // Enable parallel execution

	assert.Equal(t, 1, RatingAgain.Grade())
	assert.Equal(t, 2, RatingHard.Grade())
	assert.Equal(t, 3, RatingGood.Grade())
	assert.Equal(t, 4, RatingEasy.Grade())
	assert.Equal(t, 0, Rating("bogus").Grade())
}

func TestRatingFromQuality(t *testing.T) {
	t.Parallel() // Enable parallel execution

	testCases := []struct {
		quality int
		want    Rating
	}{
		{0, RatingAgain},
		{1, RatingAgain},
		{2, RatingAgain},
		{3, RatingHard},
		{4, RatingGood},
		{5, RatingEasy},
	}

	for _, tc := range testCases {
		rating, err := RatingFromQuality(tc.quality)
		require.NoError(t, err, "quality %d", tc.quality)
		assert.Equal(t, tc.want, rating, "quality %d", tc.quality)
	}

	for _, quality := range []int{-1, 6, 100} {
		_, err := RatingFromQuality(quality)
		assert.ErrorIs(t, err, ErrInvalidQuality, "quality %d", quality)
	}
}
