package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stremita/stremita/internal/database"
)

type fakeStore struct {
	magnets []database.Magnet
	err     error
}

func (f *fakeStore) Close() error                          { return nil }
func (f *fakeStore) StoreMagnet(m *database.Magnet) error  { f.magnets = append(f.magnets, *m); return nil }
func (f *fakeStore) GetMagnets() ([]database.Magnet, error) { return f.magnets, nil }
func (f *fakeStore) DeleteMagnet(string) error             { return nil }

func (f *fakeStore) CleanupOldRecords(time.Duration) ([]database.Magnet, error) {
	if f.err != nil {
		return nil, f.err
	}
	removed := f.magnets
	f.magnets = nil
	return removed, nil
}

type fakeDeleter struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (f *fakeDeleter) DeleteTorrent(_ context.Context, torrentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, torrentID)
	return f.err
}

func TestCleanupDeletesRemotely(t *testing.T) {
	store := &fakeStore{magnets: []database.Magnet{
		{ID: "t1", Hash: "AAAA"},
		{ID: "t2", Hash: "BBBB"},
	}}
	deleter := &fakeDeleter{}

	cleanup := NewCleanupService(store, deleter)
	cleanup.CleanupNow(context.Background())

	assert.Equal(t, []string{"t1", "t2"}, deleter.deleted)
	assert.Empty(t, store.magnets)
}

func TestCleanupWithoutRemote(t *testing.T) {
	store := &fakeStore{magnets: []database.Magnet{{ID: "t1"}}}

	cleanup := NewCleanupService(store, nil)
	cleanup.CleanupNow(context.Background())

	assert.Empty(t, store.magnets)
}

func TestCleanupContinuesOnRemoteFailure(t *testing.T) {
	store := &fakeStore{magnets: []database.Magnet{{ID: "t1"}, {ID: "t2"}}}
	deleter := &fakeDeleter{err: errors.New("gone")}

	cleanup := NewCleanupService(store, deleter)
	cleanup.CleanupNow(context.Background())

	assert.Len(t, deleter.deleted, 2)
}

func TestCleanupStartIsIdempotent(t *testing.T) {
	store := &fakeStore{}
	cleanup := NewCleanupService(store, nil)
	cleanup.SetInterval(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanup.Start(ctx)
	cleanup.Start(ctx)
	cleanup.Stop()
	cleanup.Stop()

	require.NotPanics(t, func() { cleanup.CleanupNow(ctx) })
}
