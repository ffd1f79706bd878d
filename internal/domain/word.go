package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Word-specific validation errors.
var (
	// ErrWordIDEmpty is returned when a word ID is empty or nil.
	ErrWordIDEmpty = errors.New("word ID cannot be empty")

	// ErrWordUserIDEmpty is returned when a word's user ID is empty or nil.
	ErrWordUserIDEmpty = errors.New("word user ID cannot be empty")

	// ErrWordTermEmpty is returned when a word's term is empty.
	ErrWordTermEmpty = errors.New("word term cannot be empty")

	// ErrWordInvalidJLPT is returned when a JLPT level is outside 0-5.
	// Level 0 means "unclassified".
	ErrWordInvalidJLPT = errors.New("JLPT level must be between 0 and 5")

	// ErrWordInvalidPriority is returned when a priority is negative.
	ErrWordInvalidPriority = errors.New("priority must be greater than or equal to 0")
)

// Word represents a vocabulary entry owned by a user. The scheduling state
// for a word lives in CardState; the leech flag and mastered flag are
// per-user annotations on the word itself, not scheduling fields.
type Word struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Term      string    `json:"term"`
	Reading   string    `json:"reading,omitempty"`
	Meaning   string    `json:"meaning"`
	JLPTLevel int       `json:"jlpt_level"` // 0 = unclassified, 1 (N1) .. 5 (N5)
	Priority  int       `json:"priority"`   // higher surfaces sooner among new cards
	Mastered  bool      `json:"mastered"`   // manually marked complete, removed from scheduling
	IsLeech   bool      `json:"is_leech"`
	LeechAt   time.Time `json:"leech_at,omitempty"` // zero time = never flagged
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewWord creates a new Word owned by the given user.
// It generates a new UUID for the word ID and sets the timestamps.
// Returns an error if validation fails.
func NewWord(userID uuid.UUID, term, reading, meaning string, jlptLevel, priority int) (*Word, error) {
	now := time.Now().UTC()
	word := &Word{
		ID:        uuid.New(),
		UserID:    userID,
		Term:      term,
		Reading:   reading,
		Meaning:   meaning,
		JLPTLevel: jlptLevel,
		Priority:  priority,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := word.Validate(); err != nil {
		return nil, err
	}

	return word, nil
}

// Validate checks if the Word has valid data.
// Returns an error if any field fails validation.
func (w *Word) Validate() error {
	if w.ID == uuid.Nil {
		return ErrWordIDEmpty
	}

	if w.UserID == uuid.Nil {
		return ErrWordUserIDEmpty
	}

	if w.Term == "" {
		return ErrWordTermEmpty
	}

	if w.JLPTLevel < 0 || w.JLPTLevel > 5 {
		return ErrWordInvalidJLPT
	}

	if w.Priority < 0 {
		return ErrWordInvalidPriority
	}

	return nil
}
