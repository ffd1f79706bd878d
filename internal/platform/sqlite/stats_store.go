package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tango-api/internal/domain"
	"github.com/phrazzld/tango-api/internal/store"
)

// SQLiteStatsStore implements the store.StatsStore interface using a local
// SQLite database as the storage backend. Increments are single-statement
// upserts, same as the Postgres backend.
type SQLiteStatsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteStatsStore creates a new SQLite implementation of the StatsStore
// interface.
func NewSQLiteStatsStore(db store.DBTX, logger *slog.Logger) *SQLiteStatsStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteStatsStore{
		db:     db,
		logger: logger.With(slog.String("component", "stats_store")),
	}
}

// Ensure SQLiteStatsStore implements store.StatsStore interface
var _ store.StatsStore = (*SQLiteStatsStore)(nil)

// WithTx implements store.StatsStore.WithTx
func (s *SQLiteStatsStore) WithTx(tx *sql.Tx) store.StatsStore {
	return &SQLiteStatsStore{
		db:     tx,
		logger: s.logger,
	}
}

// Get implements store.StatsStore.Get
func (s *SQLiteStatsStore) Get(ctx context.Context, userID uuid.UUID, date string) (*domain.DailyStats, error) {
	query := `
		SELECT user_id, stat_date, new_count, review_count, again_count,
			hard_count, good_count, easy_count, practice_count,
			mastered_count, created_at, updated_at
		FROM daily_stats
		WHERE user_id = ? AND stat_date = ?`

	var stats domain.DailyStats
	err := s.db.QueryRowContext(ctx, query, userID, date).Scan(
		&stats.UserID, &stats.Date, &stats.NewCount, &stats.ReviewCount,
		&stats.AgainCount, &stats.HardCount, &stats.GoodCount,
		&stats.EasyCount, &stats.PracticeCount, &stats.MasteredCount,
		&stats.CreatedAt, &stats.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrStatsNotFound
		}
		return nil, store.NewStoreError("daily_stats", "get", "failed to query daily stats", err)
	}

	return &stats, nil
}

// Increment implements store.StatsStore.Increment
func (s *SQLiteStatsStore) Increment(ctx context.Context, userID uuid.UUID, date string, wasNew bool, rating domain.Rating) error {
	newInc := 0
	if wasNew {
		newInc = 1
	}

	againInc, hardInc, goodInc, easyInc := 0, 0, 0, 0
	switch rating {
	case domain.RatingAgain:
		againInc = 1
	case domain.RatingHard:
		hardInc = 1
	case domain.RatingGood:
		goodInc = 1
	case domain.RatingEasy:
		easyInc = 1
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO daily_stats (user_id, stat_date, new_count, review_count,
			again_count, hard_count, good_count, easy_count, practice_count,
			mastered_count, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?, ?, ?, 0, 0, ?, ?)
		ON CONFLICT (user_id, stat_date) DO UPDATE SET
			new_count = new_count + excluded.new_count,
			review_count = review_count + 1,
			again_count = again_count + excluded.again_count,
			hard_count = hard_count + excluded.hard_count,
			good_count = good_count + excluded.good_count,
			easy_count = easy_count + excluded.easy_count,
			updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		userID, date, newInc, againInc, hardInc, goodInc, easyInc, now, now)
	if err != nil {
		return store.NewStoreError("daily_stats", "increment", "failed to upsert daily stats", err)
	}

	return nil
}

// IncrementPractice implements store.StatsStore.IncrementPractice
func (s *SQLiteStatsStore) IncrementPractice(ctx context.Context, userID uuid.UUID, date string, count int) error {
	if count <= 0 {
		return nil
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO daily_stats (user_id, stat_date, new_count, review_count,
			again_count, hard_count, good_count, easy_count, practice_count,
			mastered_count, created_at, updated_at)
		VALUES (?, ?, 0, 0, 0, 0, 0, 0, ?, 0, ?, ?)
		ON CONFLICT (user_id, stat_date) DO UPDATE SET
			practice_count = practice_count + excluded.practice_count,
			updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query, userID, date, count, now, now)
	if err != nil {
		return store.NewStoreError("daily_stats", "increment_practice", "failed to upsert daily stats", err)
	}

	return nil
}

// IncrementMastered implements store.StatsStore.IncrementMastered
func (s *SQLiteStatsStore) IncrementMastered(ctx context.Context, userID uuid.UUID, date string) error {
	now := time.Now().UTC()
	query := `
		INSERT INTO daily_stats (user_id, stat_date, new_count, review_count,
			again_count, hard_count, good_count, easy_count, practice_count,
			mastered_count, created_at, updated_at)
		VALUES (?, ?, 0, 0, 0, 0, 0, 0, 0, 1, ?, ?)
		ON CONFLICT (user_id, stat_date) DO UPDATE SET
			mastered_count = mastered_count + 1,
			updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query, userID, date, now, now)
	if err != nil {
		return store.NewStoreError("daily_stats", "increment_mastered", "failed to upsert daily stats", err)
	}

	return nil
}
