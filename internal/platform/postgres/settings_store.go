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

// PostgresSettingsStore implements the store.SettingsStore interface using
// a PostgreSQL database as the storage backend.
type PostgresSettingsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSettingsStore creates a new PostgreSQL implementation of the
// SettingsStore interface.
func NewPostgresSettingsStore(db store.DBTX, logger *slog.Logger) *PostgresSettingsStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSettingsStore{
		db:     db,
		logger: logger.With(slog.String("component", "settings_store")),
	}
}

// Ensure PostgresSettingsStore implements store.SettingsStore interface
var _ store.SettingsStore = (*PostgresSettingsStore)(nil)

// WithTx implements store.SettingsStore.WithTx
func (s *PostgresSettingsStore) WithTx(tx *sql.Tx) store.SettingsStore {
	return &PostgresSettingsStore{
		db:     tx,
		logger: s.logger,
	}
}

// Get implements store.SettingsStore.Get
func (s *PostgresSettingsStore) Get(ctx context.Context, userID uuid.UUID) (*domain.QuizSettings, error) {
	query := `
		SELECT user_id, new_per_day, max_reviews_per_day, jlpt_filter,
			priority_filter, card_direction, session_size, leech_threshold
		FROM quiz_settings
		WHERE user_id = $1`

	var settings domain.QuizSettings
	var direction string
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&settings.UserID, &settings.NewPerDay, &settings.MaxReviewsPerDay,
		&settings.JLPTFilter, &settings.PriorityFilter, &direction,
		&settings.SessionSize, &settings.LeechThreshold)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSettingsNotFound
		}
		return nil, store.NewStoreError("quiz_settings", "get", "failed to query settings", err)
	}

	settings.CardDirection = domain.CardDirection(direction)

	return &settings, nil
}

// Save implements store.SettingsStore.Save
func (s *PostgresSettingsStore) Save(ctx context.Context, settings *domain.QuizSettings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO quiz_settings (user_id, new_per_day, max_reviews_per_day,
			jlpt_filter, priority_filter, card_direction, session_size,
			leech_threshold, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			new_per_day = EXCLUDED.new_per_day,
			max_reviews_per_day = EXCLUDED.max_reviews_per_day,
			jlpt_filter = EXCLUDED.jlpt_filter,
			priority_filter = EXCLUDED.priority_filter,
			card_direction = EXCLUDED.card_direction,
			session_size = EXCLUDED.session_size,
			leech_threshold = EXCLUDED.leech_threshold,
			updated_at = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		settings.UserID, settings.NewPerDay, settings.MaxReviewsPerDay,
		settings.JLPTFilter, settings.PriorityFilter,
		string(settings.CardDirection), settings.SessionSize,
		settings.LeechThreshold, time.Now().UTC())
	if err != nil {
		return store.NewStoreError("quiz_settings", "save", "failed to upsert settings", err)
	}

	return nil
}
