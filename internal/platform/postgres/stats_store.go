package postgres

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

// PostgresStatsStore implements the store.StatsStore interface using a
// PostgreSQL database as the storage backend. Increments are single-
// statement upserts, so concurrent reviews in the same user-day never
// undercount.
type PostgresStatsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStatsStore creates a new PostgreSQL implementation of the
// StatsStore interface.
func NewPostgresStatsStore(db store.DBTX, logger *slog.Logger) *PostgresStatsStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStatsStore{
		db:     db,
		logger: logger.With(slog.String("component", "stats_store")),
	}
}

// Ensure PostgresStatsStore implements store.StatsStore interface
var _ store.StatsStore = (*PostgresStatsStore)(nil)

// WithTx implements store.StatsStore.WithTx
func (s *PostgresStatsStore) WithTx(tx *sql.Tx) store.StatsStore {
	return &PostgresStatsStore{
		db:     tx,
		logger: s.logger,
	}
}

// Get implements store.StatsStore.Get
func (s *PostgresStatsStore) Get(ctx context.Context, userID uuid.UUID, date string) (*domain.DailyStats, error) {
	query := `
		SELECT user_id, stat_date, new_count, review_count, again_count,
			hard_count, good_count, easy_count, practice_count,
			mastered_count, created_at, updated_at
		FROM daily_stats
		WHERE user_id = $1 AND stat_date = $2`

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
func (s *PostgresStatsStore) Increment(ctx context.Context, userID uuid.UUID, date string, wasNew bool, rating domain.Rating) error {
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
		VALUES ($1, $2, $3, 1, $4, $5, $6, $7, 0, 0, $8, $8)
		ON CONFLICT (user_id, stat_date) DO UPDATE SET
			new_count = daily_stats.new_count + EXCLUDED.new_count,
			review_count = daily_stats.review_count + 1,
			again_count = daily_stats.again_count + EXCLUDED.again_count,
			hard_count = daily_stats.hard_count + EXCLUDED.hard_count,
			good_count = daily_stats.good_count + EXCLUDED.good_count,
			easy_count = daily_stats.easy_count + EXCLUDED.easy_count,
			updated_at = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		userID, date, newInc, againInc, hardInc, goodInc, easyInc, now)
	if err != nil {
		return store.NewStoreError("daily_stats", "increment", "failed to upsert daily stats", err)
	}

	return nil
}

// IncrementPractice implements store.StatsStore.IncrementPractice
func (s *PostgresStatsStore) IncrementPractice(ctx context.Context, userID uuid.UUID, date string, count int) error {
	if count <= 0 {
		return nil
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO daily_stats (user_id, stat_date, new_count, review_count,
			again_count, hard_count, good_count, easy_count, practice_count,
			mastered_count, created_at, updated_at)
		VALUES ($1, $2, 0, 0, 0, 0, 0, 0, $3, 0, $4, $4)
		ON CONFLICT (user_id, stat_date) DO UPDATE SET
			practice_count = daily_stats.practice_count + EXCLUDED.practice_count,
			updated_at = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(ctx, query, userID, date, count, now)
	if err != nil {
		return store.NewStoreError("daily_stats", "increment_practice", "failed to upsert daily stats", err)
	}

	return nil
}

// IncrementMastered implements store.StatsStore.IncrementMastered
func (s *PostgresStatsStore) IncrementMastered(ctx context.Context, userID uuid.UUID, date string) error {
	now := time.Now().UTC()
	query := `
		INSERT INTO daily_stats (user_id, stat_date, new_count, review_count,
			again_count, hard_count, good_count, easy_count, practice_count,
			mastered_count, created_at, updated_at)
		VALUES ($1, $2, 0, 0, 0, 0, 0, 0, 0, 1, $3, $3)
		ON CONFLICT (user_id, stat_date) DO UPDATE SET
			mastered_count = daily_stats.mastered_count + 1,
			updated_at = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(ctx, query, userID, date, now)
	if err != nil {
		return store.NewStoreError("daily_stats", "increment_mastered", "failed to upsert daily stats", err)
	}

	return nil
}
