package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tango-api/internal/domain"
)

// SettingsStore defines the interface for quiz settings persistence.
// Adapters may cache reads with a short TTL (see platform packages); the
// scheduler itself always receives settings as a parameter and never
// reads them from shared state.
type SettingsStore interface {
	// Get retrieves the user's quiz settings.
	// Returns ErrSettingsNotFound if the user has never saved any;
	// callers fall back to domain.DefaultQuizSettings.
	Get(ctx context.Context, userID uuid.UUID) (*domain.QuizSettings, error)

	// Save upserts the user's quiz settings.
	// Returns validation errors if the settings are invalid.
	Save(ctx context.Context, settings *domain.QuizSettings) error

	// WithTx returns a new SettingsStore bound to the provided transaction.
	WithTx(tx *sql.Tx) SettingsStore
}
