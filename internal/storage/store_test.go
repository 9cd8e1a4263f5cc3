package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faizmokh/servicelog/internal/maintenance"
)

type failingBackend struct {
	getErr error
	setErr error
	value  string
	found  bool
	sets   int
}

func (b *failingBackend) Get(ctx context.Context, key string) (string, bool, error) {
	return b.value, b.found, b.getErr
}

func (b *failingBackend) Set(ctx context.Context, key, value string) error {
	b.sets++
	if b.setErr != nil {
		return b.setErr
	}
	b.value, b.found = value, true
	return nil
}

func (b *failingBackend) Close() error { return nil }

func openTestStore(t *testing.T) (*Store, *SQLiteBackend, *test.Hook) {
	t.Helper()
	backend, err := OpenSQLite(filepath.Join(t.TempDir(), "servicelog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewStore(backend, logger), backend, hook
}

func TestLoadWithoutSaveReturnsDefault(t *testing.T) {
	store, _, _ := openTestStore(t)

	got := store.Load(context.Background())
	assert.Equal(t, maintenance.DefaultData(), got)
	assert.Nil(t, got.Current)
	assert.NotNil(t, got.History)
	assert.Equal(t, float64(1000), got.Settings.DefaultInterval)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _, _ := openTestStore(t)

	data, err := maintenance.NewMutator(
		func() time.Time { return time.Date(2025, 11, 2, 9, 45, 0, 0, time.UTC) },
		func() string { return "svc-1" },
	).ScheduleOrUpdateService(maintenance.DefaultData(), maintenance.ServiceInput{
		ServiceType: "Engine Oil Change",
		Odometer:    10000,
		Interval:    5000,
		Notes:       "Synthetic",
	})
	require.NoError(t, err)
	data.History = append(data.History, maintenance.ServiceEntry{
		ID: "old", ServiceType: "Air Filter", Odometer: 4000, Interval: 6000, NextDue: 10000,
		Date: "2025-01-01T00:00:00.000Z", Status: maintenance.StatusDone,
	})

	store.Save(ctx, data)
	assert.Equal(t, data, store.Load(ctx))

	// A second save replaces the record entirely.
	cleared := maintenance.DefaultData()
	store.Save(ctx, cleared)
	assert.Equal(t, cleared, store.Load(ctx))
}

func TestLoadCorruptBlobFallsBackAndLogs(t *testing.T) {
	ctx := context.Background()
	store, backend, hook := openTestStore(t)

	require.NoError(t, backend.Set(ctx, maintenance.StorageKey, "{not json"))

	assert.Equal(t, maintenance.DefaultData(), store.Load(ctx))
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "failed to parse stored data", entry.Message)
	assert.Equal(t, maintenance.StorageKey, entry.Data["key"])
}

func TestLoadBackendErrorFallsBack(t *testing.T) {
	logger, hook := test.NewNullLogger()
	store := NewStore(&failingBackend{getErr: errors.New("disk on fire")}, logger)

	assert.Equal(t, maintenance.DefaultData(), store.Load(context.Background()))
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "failed to load data", hook.LastEntry().Message)
}

func TestSaveFailuresAreLoggedNotReturned(t *testing.T) {
	logger, hook := test.NewNullLogger()
	backend := &failingBackend{setErr: errors.New("read-only filesystem")}
	store := NewStore(backend, logger)

	store.Save(context.Background(), maintenance.DefaultData())
	assert.Equal(t, 1, backend.sets)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "failed to save data", hook.LastEntry().Message)
}

func TestSaveRawValidatesAndKeepsExactBlob(t *testing.T) {
	ctx := context.Background()
	store, _, _ := openTestStore(t)

	err := store.SaveRaw(ctx, `[1,2,3]`)
	assert.ErrorIs(t, err, ErrInvalidBlob)
	_, found, err := store.LoadRaw(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	blob := `{"current":null,"history":[],"settings":{"defaultInterval":2500}}`
	require.NoError(t, store.SaveRaw(ctx, blob))

	raw, found, err := store.LoadRaw(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, blob, raw)
	assert.Equal(t, float64(2500), store.Load(ctx).Settings.DefaultInterval)
}
