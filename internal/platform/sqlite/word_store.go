package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tango-api/internal/domain"
	"github.com/phrazzld/tango-api/internal/store"
)

// SQLiteWordStore implements the store.WordStore interface using a local
// SQLite database as the storage backend.
type SQLiteWordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteWordStore creates a new SQLite implementation of the WordStore
// interface.
func NewSQLiteWordStore(db store.DBTX, logger *slog.Logger) *SQLiteWordStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteWordStore{
		db:     db,
		logger: logger.With(slog.String("component", "word_store")),
	}
}

// Ensure SQLiteWordStore implements store.WordStore interface
var _ store.WordStore = (*SQLiteWordStore)(nil)

// WithTx implements store.WordStore.WithTx
func (s *SQLiteWordStore) WithTx(tx *sql.Tx) store.WordStore {
	return &SQLiteWordStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.WordStore.Create
func (s *SQLiteWordStore) Create(ctx context.Context, word *domain.Word) error {
	if err := word.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO words (id, user_id, term, reading, meaning, jlpt_level,
			priority, mastered, is_leech, leech_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		word.ID, word.UserID, word.Term, word.Reading, word.Meaning,
		word.JLPTLevel, word.Priority, word.Mastered, word.IsLeech,
		nullTime(word.LeechAt), word.CreatedAt, word.UpdatedAt)
	if err != nil {
		if isConstraintViolation(err) {
			return store.ErrDuplicate
		}
		return store.NewStoreError("word", "create", "failed to insert word", err)
	}

	return nil
}

// GetByID implements store.WordStore.GetByID
func (s *SQLiteWordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	query := `
		SELECT id, user_id, term, reading, meaning, jlpt_level, priority,
			mastered, is_leech, leech_at, created_at, updated_at
		FROM words
		WHERE id = ?`

	word, err := scanWord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrWordNotFound
		}
		return nil, store.NewStoreError("word", "get", "failed to query word", err)
	}

	return word, nil
}

// List implements store.WordStore.List
func (s *SQLiteWordStore) List(ctx context.Context, userID uuid.UUID) ([]*domain.Word, error) {
	query := `
		SELECT id, user_id, term, reading, meaning, jlpt_level, priority,
			mastered, is_leech, leech_at, created_at, updated_at
		FROM words
		WHERE user_id = ?
		ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, store.NewStoreError("word", "list", "failed to query words", err)
	}
	defer func() { _ = rows.Close() }()

	var words []*domain.Word
	for rows.Next() {
		word, err := scanWord(rows)
		if err != nil {
			return nil, store.NewStoreError("word", "list", "failed to scan word", err)
		}
		words = append(words, word)
	}

	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("word", "list", "row iteration failed", err)
	}

	return words, nil
}

// Update implements store.WordStore.Update
func (s *SQLiteWordStore) Update(ctx context.Context, word *domain.Word) error {
	if err := word.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE words
		SET term = ?, reading = ?, meaning = ?, jlpt_level = ?,
			priority = ?, mastered = ?, updated_at = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		word.Term, word.Reading, word.Meaning, word.JLPTLevel,
		word.Priority, word.Mastered, time.Now().UTC(), word.ID)
	if err != nil {
		return store.NewStoreError("word", "update", "failed to update word", err)
	}

	return requireRowAffected(result, store.ErrWordNotFound)
}

// Delete implements store.WordStore.Delete
// The card state row is removed by ON DELETE CASCADE (foreign_keys pragma
// is enabled by Open).
func (s *SQLiteWordStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM words WHERE id = ?`, id)
	if err != nil {
		return store.NewStoreError("word", "delete", "failed to delete word", err)
	}

	return requireRowAffected(result, store.ErrWordNotFound)
}

// SetLeech implements store.WordStore.SetLeech
func (s *SQLiteWordStore) SetLeech(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE words
		SET is_leech = TRUE, leech_at = ?, updated_at = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, at, time.Now().UTC(), id)
	if err != nil {
		return store.NewStoreError("word", "set_leech", "failed to flag leech", err)
	}

	return requireRowAffected(result, store.ErrWordNotFound)
}

// SetMastered implements store.WordStore.SetMastered
func (s *SQLiteWordStore) SetMastered(ctx context.Context, id uuid.UUID, mastered bool) error {
	query := `
		UPDATE words
		SET mastered = ?, updated_at = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, mastered, time.Now().UTC(), id)
	if err != nil {
		return store.NewStoreError("word", "set_mastered", "failed to update mastered flag", err)
	}

	return requireRowAffected(result, store.ErrWordNotFound)
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanWord(row rowScanner) (*domain.Word, error) {
	var word domain.Word
	var leechAt sql.NullTime

	err := row.Scan(
		&word.ID, &word.UserID, &word.Term, &word.Reading, &word.Meaning,
		&word.JLPTLevel, &word.Priority, &word.Mastered, &word.IsLeech,
		&leechAt, &word.CreatedAt, &word.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if leechAt.Valid {
		word.LeechAt = leechAt.Time
	}

	return &word, nil
}

// nullTime converts a zero time to a SQL NULL.
func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// requireRowAffected maps zero-row updates/deletes to notFound.
func requireRowAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrUpdateFailed, err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

// isConstraintViolation detects SQLite constraint failures (unique,
// foreign key). The modernc driver surfaces them as error strings with
// the SQLITE_CONSTRAINT prefix.
func isConstraintViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}
