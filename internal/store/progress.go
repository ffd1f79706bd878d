package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tango-api/internal/domain"
)

// ProgressStore defines the interface for card scheduling state
// persistence. A missing row means the word is in the implicit New state;
// callers translate ErrProgressNotFound into domain.NewCardState rather
// than treating it as a failure.
type ProgressStore interface {
	// Get retrieves the card state for a user-word pair.
	// Returns ErrProgressNotFound if no state has been persisted.
	// Implementations normalize malformed persisted values before
	// returning (see domain.CardState.Normalize).
	Get(ctx context.Context, userID, wordID uuid.UUID) (*domain.CardState, error)

	// ListByUser retrieves all persisted card states for a user, keyed by
	// word ID. Words absent from the map are implicitly New.
	ListByUser(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]*domain.CardState, error)

	// Upsert writes the full card state keyed by (user, word). Review
	// submissions are serialized per word by running this in the same
	// transaction as the read that produced the state.
	Upsert(ctx context.Context, state *domain.CardState) error

	// Delete removes the card state for a user-word pair.
	// Returns ErrProgressNotFound if no state exists.
	Delete(ctx context.Context, userID, wordID uuid.UUID) error

	// WithTx returns a new ProgressStore bound to the provided transaction.
	WithTx(tx *sql.Tx) ProgressStore
}
