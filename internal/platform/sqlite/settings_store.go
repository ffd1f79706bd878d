package sqlite

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

// SQLiteSettingsStore implements the store.SettingsStore interface using a
// local SQLite database as the storage backend.
type SQLiteSettingsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteSettingsStore creates a new SQLite implementation of the
// SettingsStore interface.
func NewSQLiteSettingsStore(db store.DBTX, logger *slog.Logger) *SQLiteSettingsStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteSettingsStore{
		db:     db,
		logger: logger.With(slog.String("component", "settings_store")),
	}
}

// Ensure SQLiteSettingsStore implements store.SettingsStore interface
var _ store.SettingsStore = (*SQLiteSettingsStore)(nil)

// WithTx implements store.SettingsStore.WithTx
func (s *SQLiteSettingsStore) WithTx(tx *sql.Tx) store.SettingsStore {
	return &SQLiteSettingsStore{
		db:     tx,
		logger: s.logger,
	}
}

// Get implements store.SettingsStore.Get
func (s *SQLiteSettingsStore) Get(ctx context.Context, userID uuid.UUID) (*domain.QuizSettings, error) {
	query := `
		SELECT user_id, new_per_day, max_reviews_per_day, jlpt_filter,
			priority_filter, card_direction, session_size, leech_threshold
		FROM quiz_settings
		WHERE user_id = ?`

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
func (s *SQLiteSettingsStore) Save(ctx context.Context, settings *domain.QuizSettings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO quiz_settings (user_id, new_per_day, max_reviews_per_day,
			jlpt_filter, priority_filter, card_direction, session_size,
			leech_threshold, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			new_per_day = excluded.new_per_day,
			max_reviews_per_day = excluded.max_reviews_per_day,
			jlpt_filter = excluded.jlpt_filter,
			priority_filter = excluded.priority_filter,
			card_direction = excluded.card_direction,
			session_size = excluded.session_size,
			leech_threshold = excluded.leech_threshold,
			updated_at = excluded.updated_at`

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
