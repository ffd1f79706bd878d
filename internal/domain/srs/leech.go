package srs

import (
	"errors"

	"github.com/phrazzld/tango-api/internal/domain"
)

// ErrInvalidLeechThreshold is returned when a leech threshold is not a
// positive number. Empty data is never an error here.
var ErrInvalidLeechThreshold = errors.New("leech threshold must be greater than 0")

// CheckLeech reports whether the word has just become a leech: its lapse
// count reached the threshold and it is not already flagged. It fires true
// exactly once per threshold crossing; once the word carries the leech
// flag, further lapses do not re-trigger unless the flag is cleared
// externally. The caller persists the flag; this function only decides.
//
// Invoke it only after an Again rating that incremented the lapse counter;
// it is kept out of the scheduler's pure state transition so that function
// stays free of persistence concerns.
func CheckLeech(state *domain.CardState, word *domain.Word, leechThreshold int) (bool, error) {
	if leechThreshold <= 0 {
		return false, ErrInvalidLeechThreshold
	}

	if state == nil || word == nil {
		return false, nil
	}

	if word.IsLeech {
		return false, nil
	}

	return state.Lapses >= leechThreshold, nil
}
