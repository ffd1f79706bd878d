package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tango-api/internal/domain"
	"github.com/phrazzld/tango-api/internal/store"
)

// PostgresProgressStore implements the store.ProgressStore interface using
// a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the
// ProgressStore interface.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// WithTx implements store.ProgressStore.WithTx
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{
		db:     tx,
		logger: s.logger,
	}
}

const progressColumns = `user_id, word_id, state, next_review, interval_days,
	ease_factor, review_count, last_reviewed_at, stability, difficulty,
	elapsed_days, scheduled_days, learning_step, lapses, created_at, updated_at`

// Get implements store.ProgressStore.Get
func (s *PostgresProgressStore) Get(ctx context.Context, userID, wordID uuid.UUID) (*domain.CardState, error) {
	query := `SELECT ` + progressColumns + `
		FROM card_states
		WHERE user_id = $1 AND word_id = $2`

	state, err := scanCardState(s.db.QueryRowContext(ctx, query, userID, wordID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		return nil, store.NewStoreError("card_state", "get", "failed to query card state", err)
	}

	return state, nil
}

// ListByUser implements store.ProgressStore.ListByUser
func (s *PostgresProgressStore) ListByUser(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]*domain.CardState, error) {
	query := `SELECT ` + progressColumns + `
		FROM card_states
		WHERE user_id = $1`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, store.NewStoreError("card_state", "list", "failed to query card states", err)
	}
	defer func() { _ = rows.Close() }()

	states := make(map[uuid.UUID]*domain.CardState)
	for rows.Next() {
		state, err := scanCardState(rows)
		if err != nil {
			return nil, store.NewStoreError("card_state", "list", "failed to scan card state", err)
		}
		states[state.WordID] = state
	}

	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("card_state", "list", "row iteration failed", err)
	}

	return states, nil
}

// Upsert implements store.ProgressStore.Upsert
// The single-row upsert keyed by (user_id, word_id) is what serializes
// concurrent review submissions for the same card.
func (s *PostgresProgressStore) Upsert(ctx context.Context, state *domain.CardState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO card_states (` + progressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (user_id, word_id) DO UPDATE SET
			state = EXCLUDED.state,
			next_review = EXCLUDED.next_review,
			interval_days = EXCLUDED.interval_days,
			ease_factor = EXCLUDED.ease_factor,
			review_count = EXCLUDED.review_count,
			last_reviewed_at = EXCLUDED.last_reviewed_at,
			stability = EXCLUDED.stability,
			difficulty = EXCLUDED.difficulty,
			elapsed_days = EXCLUDED.elapsed_days,
			scheduled_days = EXCLUDED.scheduled_days,
			learning_step = EXCLUDED.learning_step,
			lapses = EXCLUDED.lapses,
			updated_at = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		state.UserID, state.WordID, int(state.State), state.NextReview,
		state.IntervalDays, state.EaseFactor, state.ReviewCount,
		nullTime(state.LastReviewedAt), state.Stability, state.Difficulty,
		state.ElapsedDays, state.ScheduledDays, state.LearningStep,
		state.Lapses, state.CreatedAt, state.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrWordNotFound
		}
		return store.NewStoreError("card_state", "upsert", "failed to upsert card state", err)
	}

	return nil
}

// Delete implements store.ProgressStore.Delete
func (s *PostgresProgressStore) Delete(ctx context.Context, userID, wordID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM card_states WHERE user_id = $1 AND word_id = $2`, userID, wordID)
	if err != nil {
		return store.NewStoreError("card_state", "delete", "failed to delete card state", err)
	}

	return requireRowAffected(result, store.ErrProgressNotFound)
}

func scanCardState(row rowScanner) (*domain.CardState, error) {
	var state domain.CardState
	var stateInt int
	var lastReviewed sql.NullTime

	err := row.Scan(
		&state.UserID, &state.WordID, &stateInt, &state.NextReview,
		&state.IntervalDays, &state.EaseFactor, &state.ReviewCount,
		&lastReviewed, &state.Stability, &state.Difficulty,
		&state.ElapsedDays, &state.ScheduledDays, &state.LearningStep,
		&state.Lapses, &state.CreatedAt, &state.UpdatedAt)
	if err != nil {
		return nil, err
	}

	state.State = domain.ReviewState(stateInt)
	if lastReviewed.Valid {
		state.LastReviewedAt = lastReviewed.Time
	}

	// Defensive normalization of malformed persisted values; the
	// scheduler assumes well-formed input.
	state.Normalize(time.Now().UTC())

	return &state, nil
}
