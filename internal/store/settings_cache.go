package store

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tango-api/internal/domain"
)

// DefaultSettingsTTL bounds how stale a cached QuizSettings read may be.
// A mid-session settings change takes effect within this window at the
// latest, and immediately on the instance that served the Save.
const DefaultSettingsTTL = 30 * time.Second

// CachedSettingsStore wraps a SettingsStore with a per-user read cache.
// Settings are read on every review submission and almost never change,
// so a short TTL removes a query from the hot path without a meaningful
// staleness cost. Save writes through and invalidates, so the writing
// instance always reads its own update.
type CachedSettingsStore struct {
	inner SettingsStore
	ttl   time.Duration

	mu      sync.Mutex
	entries map[uuid.UUID]cachedSettings
}

type cachedSettings struct {
	settings domain.QuizSettings
	expires  time.Time
}

// NewCachedSettingsStore wraps inner with a TTL cache. A non-positive ttl
// falls back to DefaultSettingsTTL.
func NewCachedSettingsStore(inner SettingsStore, ttl time.Duration) *CachedSettingsStore {
	if inner == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("inner settings store cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultSettingsTTL
	}

	return &CachedSettingsStore{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[uuid.UUID]cachedSettings),
	}
}

var _ SettingsStore = (*CachedSettingsStore)(nil)

// Get implements SettingsStore.Get. Cache hits return a copy so callers
// cannot mutate the cached value.
func (c *CachedSettingsStore) Get(ctx context.Context, userID uuid.UUID) (*domain.QuizSettings, error) {
	now := time.Now()

	c.mu.Lock()
	if entry, ok := c.entries[userID]; ok && now.Before(entry.expires) {
		settings := entry.settings
		c.mu.Unlock()
		return &settings, nil
	}
	c.mu.Unlock()

	settings, err := c.inner.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[userID] = cachedSettings{settings: *settings, expires: now.Add(c.ttl)}
	c.mu.Unlock()

	return settings, nil
}

// Save implements SettingsStore.Save, writing through to the inner store
// and dropping the cached entry on success.
func (c *CachedSettingsStore) Save(ctx context.Context, settings *domain.QuizSettings) error {
	if err := c.inner.Save(ctx, settings); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.entries, settings.UserID)
	c.mu.Unlock()

	return nil
}

// WithTx implements SettingsStore.WithTx. The transactional store is
// returned uncached: reads inside a transaction must see the transaction's
// own writes, not a cached snapshot.
func (c *CachedSettingsStore) WithTx(tx *sql.Tx) SettingsStore {
	return c.inner.WithTx(tx)
}
