package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tango-api/internal/domain"
	"github.com/phrazzld/tango-api/internal/store"
)

// SQLiteUserStore implements the store.UserStore interface using a local
// SQLite database as the storage backend.
type SQLiteUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteUserStore creates a new SQLite implementation of the UserStore
// interface.
func NewSQLiteUserStore(db store.DBTX, logger *slog.Logger) *SQLiteUserStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure SQLiteUserStore implements store.UserStore interface
var _ store.UserStore = (*SQLiteUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *SQLiteUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &SQLiteUserStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.UserStore.Create
func (s *SQLiteUserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO users (id, email, hashed_password, timezone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Email, user.HashedPassword, user.Timezone,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isConstraintViolation(err) {
			return store.ErrEmailExists
		}
		return store.NewStoreError("user", "create", "failed to insert user", err)
	}

	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *SQLiteUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, email, hashed_password, timezone, created_at, updated_at
		FROM users
		WHERE id = ?`

	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *SQLiteUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, hashed_password, timezone, created_at, updated_at
		FROM users
		WHERE email = ?`

	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

func (s *SQLiteUserStore) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.HashedPassword,
		&user.Timezone, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, store.NewStoreError("user", "get", "failed to query user", err)
	}

	return &user, nil
}
