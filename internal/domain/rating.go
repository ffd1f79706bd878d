package domain

import "fmt"

// Rating represents the user's self-assessed recall quality for a review.
// Ratings are ordinal: Again < Hard < Good < Easy.
type Rating string

// Possible rating values.
const (
	RatingAgain Rating = "again"
	RatingHard  Rating = "hard"
	RatingGood  Rating = "good"
	RatingEasy  Rating = "easy"
)

// IsValid reports whether r is one of the four recognized ratings.
func (r Rating) IsValid() bool {
	switch r {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return true
	default:
		return false
	}
}

// Grade returns the numeric grade of the rating on the 1..4 scale used by
// the scheduling formulas (Again=1, Hard=2, Good=3, Easy=4).
// Returns 0 for invalid ratings.
func (r Rating) Grade() int {
	switch r {
	case RatingAgain:
		return 1
	case RatingHard:
		return 2
	case RatingGood:
		return 3
	case RatingEasy:
		return 4
	default:
		return 0
	}
}

// RatingFromQuality maps a raw quality score on the legacy 0..5 scale onto
// the four rating buckets: 0-2 → Again, 3 → Hard, 4 → Good, 5 → Easy.
// The mapping is a fixed lookup, not configurable.
// Returns ErrInvalidQuality for scores outside 0..5.
func RatingFromQuality(quality int) (Rating, error) {
	switch {
	case quality < 0 || quality > 5:
		return "", fmt.Errorf("%w: got %d", ErrInvalidQuality, quality)
	case quality <= 2:
		return RatingAgain, nil
	case quality == 3:
		return RatingHard, nil
	case quality == 4:
		return RatingGood, nil
	default:
		return RatingEasy, nil
	}
}
