package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tango-api/internal/domain"
)

// StatsStore defines the interface for daily statistics persistence.
// Increment operations are atomic upserts keyed by (user, date) so rapid
// concurrent review taps never undercount.
type StatsStore interface {
	// Get retrieves the stats row for a user and date key (YYYY-MM-DD,
	// user-local calendar day, computed by the caller).
	// Returns ErrStatsNotFound if no activity has been recorded.
	Get(ctx context.Context, userID uuid.UUID, date string) (*domain.DailyStats, error)

	// Increment records one review atomically, creating the row on the
	// first event of the day. wasNew marks the first-ever review of a
	// word; the rating bumps the matching per-rating counter.
	Increment(ctx context.Context, userID uuid.UUID, date string, wasNew bool, rating domain.Rating) error

	// IncrementPractice records ungraded practice answers.
	IncrementPractice(ctx context.Context, userID uuid.UUID, date string, count int) error

	// IncrementMastered records words marked mastered today.
	IncrementMastered(ctx context.Context, userID uuid.UUID, date string) error

	// WithTx returns a new StatsStore bound to the provided transaction.
	WithTx(tx *sql.Tx) StatsStore
}
