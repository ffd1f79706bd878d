package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tango-api/internal/domain"
)

// WordStore defines the interface for word data persistence.
type WordStore interface {
	// Create saves a new word to the store.
	// Returns validation errors if the word data is invalid.
	Create(ctx context.Context, word *domain.Word) error

	// GetByID retrieves a word by its unique ID.
	// Returns ErrWordNotFound if the word does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)

	// List retrieves all words owned by a user, including mastered and
	// leech-flagged ones. The session selector filters in memory.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Word, error)

	// Update modifies an existing word's editable fields.
	// Returns ErrWordNotFound if the word does not exist.
	Update(ctx context.Context, word *domain.Word) error

	// Delete removes a word. The associated card state row is removed by
	// the schema's ON DELETE CASCADE constraint, not application code.
	// Returns ErrWordNotFound if the word does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// SetLeech flags a word as a leech at the given time. Idempotent on
	// an already-flagged word.
	SetLeech(ctx context.Context, id uuid.UUID, at time.Time) error

	// SetMastered marks a word complete (or back in rotation). Mastered
	// words are removed from scheduling entirely.
	SetMastered(ctx context.Context, id uuid.UUID, mastered bool) error

	// WithTx returns a new WordStore bound to the provided transaction.
	WithTx(tx *sql.Tx) WordStore
}
