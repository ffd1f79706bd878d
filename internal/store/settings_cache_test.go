package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tango-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSettingsStore counts calls so the tests can observe cache behavior.
type fakeSettingsStore struct {
	getCalls  int
	saveCalls int
	saved     map[uuid.UUID]domain.QuizSettings
}

func newFakeSettingsStore() *fakeSettingsStore {
	return &fakeSettingsStore{saved: make(map[uuid.UUID]domain.QuizSettings)}
}

func (f *fakeSettingsStore) Get(_ context.Context, userID uuid.UUID) (*domain.QuizSettings, error) {
	f.getCalls++
	settings, ok := f.saved[userID]
	if !ok {
		return nil, ErrSettingsNotFound
	}
	return &settings, nil
}

func (f *fakeSettingsStore) Save(_ context.Context, settings *domain.QuizSettings) error {
	f.saveCalls++
	f.saved[settings.UserID] = *settings
	return nil
}

func (f *fakeSettingsStore) WithTx(_ *sql.Tx) SettingsStore {
	return f
}

func TestNewCachedSettingsStore(t *testing.T) {
	t.Parallel() // Enable parallel execution

	assert.Panics(t, func() {
		NewCachedSettingsStore(nil, time.Second)
	}, "nil inner store must panic")

	cached := NewCachedSettingsStore(newFakeSettingsStore(), 0)
	assert.Equal(t, DefaultSettingsTTL, cached.ttl, "non-positive ttl falls back to default")
}

func TestCachedSettingsStoreGet(t *testing.T) {
	t.Parallel() // Enable parallel execution
	ctx := context.Background()
	inner := newFakeSettingsStore()
	cached := NewCachedSettingsStore(inner, time.Minute)

	userID := uuid.New()
	settings := domain.DefaultQuizSettings(userID)
	require.NoError(t, inner.Save(ctx, settings))

	first, err := cached.Get(ctx, userID)
	require.NoError(t, err)
	second, err := cached.Get(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.getCalls, "second read must come from the cache")
}

func TestCachedSettingsStoreGetMissNotCached(t *testing.T) {
	t.Parallel() // Enable parallel execution
	ctx := context.Background()
	inner := newFakeSettingsStore()
	cached := NewCachedSettingsStore(inner, time.Minute)

	userID := uuid.New()
	_, err := cached.Get(ctx, userID)
	assert.ErrorIs(t, err, ErrSettingsNotFound)

	_, err = cached.Get(ctx, userID)
	assert.ErrorIs(t, err, ErrSettingsNotFound)
	assert.Equal(t, 2, inner.getCalls, "misses are not cached")
}

func TestCachedSettingsStoreReturnsCopies(t *testing.T) {
	t.Parallel() // Enable parallel execution
	ctx := context.Background()
	inner := newFakeSettingsStore()
	cached := NewCachedSettingsStore(inner, time.Minute)

	userID := uuid.New()
	require.NoError(t, inner.Save(ctx, domain.DefaultQuizSettings(userID)))

	first, err := cached.Get(ctx, userID)
	require.NoError(t, err)
	first.NewPerDay = 999 // mutate the returned value

	second, err := cached.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 10, second.NewPerDay, "cached value must not be mutable through returns")
}

func TestCachedSettingsStoreSaveInvalidates(t *testing.T) {
	t.Parallel() // Enable parallel execution
	ctx := context.Background()
	inner := newFakeSettingsStore()
	cached := NewCachedSettingsStore(inner, time.Minute)

	userID := uuid.New()
	settings := domain.DefaultQuizSettings(userID)
	require.NoError(t, cached.Save(ctx, settings))

	_, err := cached.Get(ctx, userID)
	require.NoError(t, err)

	settings.NewPerDay = 25
	require.NoError(t, cached.Save(ctx, settings))

	updated, err := cached.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 25, updated.NewPerDay, "a save must be visible on the next read")
	assert.Equal(t, 2, inner.saveCalls)
}

func TestCachedSettingsStoreTTLExpiry(t *testing.T) {
	t.Parallel() // Enable parallel execution
	ctx := context.Background()
	inner := newFakeSettingsStore()
	cached := NewCachedSettingsStore(inner, time.Millisecond)

	userID := uuid.New()
	require.NoError(t, inner.Save(ctx, domain.DefaultQuizSettings(userID)))

	_, err := cached.Get(ctx, userID)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = cached.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.getCalls, "an expired entry must be refetched")
}

func TestCachedSettingsStoreWithTxBypassesCache(t *testing.T) {
	t.Parallel() // Enable parallel execution
	inner := newFakeSettingsStore()
	cached := NewCachedSettingsStore(inner, time.Minute)

	txStore := cached.WithTx(nil)
	assert.Same(t, SettingsStore(inner), txStore, "transactional reads must not see cached state")
}
