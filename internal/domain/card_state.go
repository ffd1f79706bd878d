package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReviewState is the lifecycle state of a card within the scheduler.
// The numeric values are part of the persisted representation and must
// not be reordered.
type ReviewState int

// Card lifecycle states.
const (
	StateNew        ReviewState = 0 // never reviewed
	StateLearning   ReviewState = 1 // in initial sub-day learning steps
	StateReview     ReviewState = 2 // graduated, long-term review cycle
	StateRelearning ReviewState = 3 // lapsed, relearning steps
)

// IsValid reports whether s is a recognized review state.
func (s ReviewState) IsValid() bool {
	return s >= StateNew && s <= StateRelearning
}

// String returns the name of the state. For invalid values it returns
// "ReviewState(n)".
func (s ReviewState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateLearning:
		return "learning"
	case StateReview:
		return "review"
	case StateRelearning:
		return "relearning"
	default:
		return fmt.Sprintf("ReviewState(%d)", int(s))
	}
}

// Common validation errors for CardState.
var (
	ErrEmptyStateUserID   = errors.New("card state user ID cannot be empty")
	ErrEmptyStateWordID   = errors.New("card state word ID cannot be empty")
	ErrNegativeStability  = errors.New("stability must be greater than or equal to 0")
	ErrNegativeCounter    = errors.New("counters must be greater than or equal to 0")
	ErrInvalidReviewState = errors.New("invalid review state")
)

// CardState tracks a user's spaced repetition memory state for a single
// word. There is at most one CardState per user-word pair; a word with no
// persisted CardState is implicitly New. CardState transitions only through
// the srs scheduler; callers never set fields directly.
type CardState struct {
	UserID         uuid.UUID   `json:"user_id"`
	WordID         uuid.UUID   `json:"word_id"`
	State          ReviewState `json:"card_state"`
	NextReview     time.Time   `json:"next_review"`
	IntervalDays   float64     `json:"interval_days"` // last scheduled interval, informational
	EaseFactor     float64     `json:"ease_factor"`   // legacy SM-2 field, carried for old schedule data
	ReviewCount    int         `json:"review_count"`
	LastReviewedAt time.Time   `json:"last_reviewed_at"` // zero time = never reviewed
	Stability      float64     `json:"stability"`        // days until recall probability decays to the reference threshold
	Difficulty     float64     `json:"difficulty"`
	ElapsedDays    float64     `json:"elapsed_days"`   // days since last review at review time
	ScheduledDays  float64     `json:"scheduled_days"` // days scheduled for the elapsed interval
	LearningStep   int         `json:"learning_steps"` // index of the pending sub-day step
	Lapses         int         `json:"lapses"`         // Again ratings on previously graduated cards
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// NewCardState creates the default scheduling state for a user-word pair.
// This is the implicit state of any word without a persisted row: New,
// never reviewed, due immediately. Lookup misses should call this instead
// of scattering nil checks through the scheduler.
func NewCardState(userID, wordID uuid.UUID) (*CardState, error) {
	now := time.Now().UTC()
	state := &CardState{
		UserID:         userID,
		WordID:         wordID,
		State:          StateNew,
		NextReview:     now, // available for review immediately
		IntervalDays:   0,
		EaseFactor:     2.5, // legacy default
		ReviewCount:    0,
		LastReviewedAt: time.Time{},
		Stability:      0,
		Difficulty:     0,
		ElapsedDays:    0,
		ScheduledDays:  0,
		LearningStep:   0,
		Lapses:         0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the CardState has valid data.
// Returns an error if any field fails validation.
func (s *CardState) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyStateUserID
	}

	if s.WordID == uuid.Nil {
		return ErrEmptyStateWordID
	}

	if !s.State.IsValid() {
		return ErrInvalidReviewState
	}

	if s.Stability < 0 {
		return ErrNegativeStability
	}

	if s.ReviewCount < 0 || s.Lapses < 0 || s.LearningStep < 0 {
		return ErrNegativeCounter
	}

	return nil
}

// Normalize clamps malformed persisted values to safe defaults so the
// scheduler never sees out-of-range input: negative numeric fields become
// zero and a pre-epoch NextReview becomes now. Persistence adapters call
// this after scanning a row.
func (s *CardState) Normalize(now time.Time) {
	if s.Stability < 0 {
		s.Stability = 0
	}
	if s.ElapsedDays < 0 {
		s.ElapsedDays = 0
	}
	if s.ScheduledDays < 0 {
		s.ScheduledDays = 0
	}
	if s.ReviewCount < 0 {
		s.ReviewCount = 0
	}
	if s.Lapses < 0 {
		s.Lapses = 0
	}
	if s.LearningStep < 0 {
		s.LearningStep = 0
	}
	if !s.State.IsValid() {
		s.State = StateNew
	}
	if s.NextReview.Before(time.Unix(0, 0)) {
		s.NextReview = now
	}
}

// Clone returns a copy of the card state. The scheduler returns new
// instances rather than mutating its input.
func (s *CardState) Clone() *CardState {
	out := *s
	return &out
}
