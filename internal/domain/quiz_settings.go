package domain

import (
	"errors"

	"github.com/google/uuid"
)

// QuizSettings validation errors.
var (
	ErrEmptySettingsUserID   = errors.New("quiz settings user ID cannot be empty")
	ErrInvalidNewPerDay      = errors.New("new per day must be greater than or equal to 0")
	ErrInvalidMaxReviews     = errors.New("max reviews per day must be greater than 0")
	ErrInvalidSessionSize    = errors.New("session size must be greater than 0")
	ErrInvalidLeechThreshold = errors.New("leech threshold must be greater than 0")
	ErrInvalidCardDirection  = errors.New("invalid card direction")
	ErrInvalidJLPTFilter     = errors.New("JLPT filter must be between 0 and 5")
)

// CardDirection selects which side of a card is prompted.
type CardDirection string

// Possible card directions.
const (
	DirectionTermToMeaning CardDirection = "term_to_meaning"
	DirectionMeaningToTerm CardDirection = "meaning_to_term"
	DirectionMixed         CardDirection = "mixed"
)

// QuizSettings are per-user study preferences. They are read-only inputs
// to the session selector; the scheduler never reads them from global
// state, always as a parameter.
type QuizSettings struct {
	UserID           uuid.UUID     `json:"user_id"`
	NewPerDay        int           `json:"new_per_day"`
	MaxReviewsPerDay int           `json:"max_reviews_per_day"`
	JLPTFilter       int           `json:"jlpt_filter"`     // 0 = all levels
	PriorityFilter   int           `json:"priority_filter"` // 0 = all, else minimum priority for new cards
	CardDirection    CardDirection `json:"card_direction"`
	SessionSize      int           `json:"session_size"`
	LeechThreshold   int           `json:"leech_threshold"`
}

// DefaultQuizSettings returns the settings applied to a user who has never
// saved any.
func DefaultQuizSettings(userID uuid.UUID) *QuizSettings {
	return &QuizSettings{
		UserID:           userID,
		NewPerDay:        10,
		MaxReviewsPerDay: 200,
		JLPTFilter:       0,
		PriorityFilter:   0,
		CardDirection:    DirectionTermToMeaning,
		SessionSize:      20,
		LeechThreshold:   8,
	}
}

// Validate checks if the QuizSettings has valid data.
func (q *QuizSettings) Validate() error {
	if q.UserID == uuid.Nil {
		return ErrEmptySettingsUserID
	}

	if q.NewPerDay < 0 {
		return ErrInvalidNewPerDay
	}

	if q.MaxReviewsPerDay <= 0 {
		return ErrInvalidMaxReviews
	}

	if q.SessionSize <= 0 {
		return ErrInvalidSessionSize
	}

	if q.LeechThreshold <= 0 {
		return ErrInvalidLeechThreshold
	}

	if q.JLPTFilter < 0 || q.JLPTFilter > 5 {
		return ErrInvalidJLPTFilter
	}

	switch q.CardDirection {
	case DirectionTermToMeaning, DirectionMeaningToTerm, DirectionMixed:
	default:
		return ErrInvalidCardDirection
	}

	return nil
}
