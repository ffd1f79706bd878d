package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DailyStats validation errors.
var (
	ErrEmptyStatsUserID = errors.New("daily stats user ID cannot be empty")
	ErrInvalidStatsDate = errors.New("daily stats date must be in YYYY-MM-DD format")
)

// statsDateLayout is the format of the DailyStats date key.
const statsDateLayout = "2006-01-02"

// DailyStats holds per-calendar-date study counters for one user. The date
// key is computed in the user's local timezone by the caller and handed in
// as a string; this package never recomputes timezone logic. A row is
// created on the first review of the day and incremented atomically by the
// persistence layer thereafter. The counters enforce the daily caps.
type DailyStats struct {
	UserID        uuid.UUID `json:"user_id"`
	Date          string    `json:"date"` // YYYY-MM-DD, user-local calendar day
	NewCount      int       `json:"new_count"`
	ReviewCount   int       `json:"review_count"`
	AgainCount    int       `json:"again_count"`
	HardCount     int       `json:"hard_count"`
	GoodCount     int       `json:"good_count"`
	EasyCount     int       `json:"easy_count"`
	PracticeCount int       `json:"practice_count"`
	MasteredCount int       `json:"mastered_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewDailyStats creates an empty stats row for the given user and date key.
// Returns an error if validation fails.
func NewDailyStats(userID uuid.UUID, date string) (*DailyStats, error) {
	now := time.Now().UTC()
	stats := &DailyStats{
		UserID:    userID,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := stats.Validate(); err != nil {
		return nil, err
	}

	return stats, nil
}

// Validate checks if the DailyStats has valid data.
func (s *DailyStats) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyStatsUserID
	}

	if _, err := time.Parse(statsDateLayout, s.Date); err != nil {
		return ErrInvalidStatsDate
	}

	return nil
}

// Apply records one review into the counters. wasNew marks the first-ever
// review of a word (new card introduced today).
func (s *DailyStats) Apply(wasNew bool, rating Rating) {
	s.ReviewCount++
	if wasNew {
		s.NewCount++
	}

	switch rating {
	case RatingAgain:
		s.AgainCount++
	case RatingHard:
		s.HardCount++
	case RatingGood:
		s.GoodCount++
	case RatingEasy:
		s.EasyCount++
	}
}

// LocalDateKey formats t in the given location as a DailyStats date key.
// Callers pass the user's timezone; the stats bucket follows the user's
// local calendar day, not UTC.
func LocalDateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(statsDateLayout)
}
