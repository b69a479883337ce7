package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *BoltDB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStoreAndGetMagnets(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.RecordMagnet("t1", "AAAA", "Show.S01E05.ITA"))
	require.NoError(t, db.RecordMagnet("t2", "BBBB", "Show.S01E06.ITA"))

	magnets, err := db.GetMagnets()
	require.NoError(t, err)
	require.Len(t, magnets, 2)

	byID := make(map[string]Magnet)
	for _, m := range magnets {
		byID[m.ID] = m
	}
	assert.Equal(t, "AAAA", byID["t1"].Hash)
	assert.Equal(t, "Show.S01E05.ITA", byID["t1"].Name)
	assert.False(t, byID["t1"].AddedAt.IsZero())
}

func TestStoreMagnetOverwrites(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.RecordMagnet("t1", "AAAA", "first"))
	require.NoError(t, db.RecordMagnet("t1", "AAAA", "second"))

	magnets, err := db.GetMagnets()
	require.NoError(t, err)
	require.Len(t, magnets, 1)
	assert.Equal(t, "second", magnets[0].Name)
}

func TestDeleteMagnet(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.RecordMagnet("t1", "AAAA", "Show"))
	require.NoError(t, db.DeleteMagnet("t1"))
	require.NoError(t, db.DeleteMagnet("missing"))

	magnets, err := db.GetMagnets()
	require.NoError(t, err)
	assert.Empty(t, magnets)
}

func TestCleanupOldRecords(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.StoreMagnet(&Magnet{ID: "old", Hash: "AAAA", Name: "old", AddedAt: time.Now().Add(-48 * time.Hour)}))
	require.NoError(t, db.StoreMagnet(&Magnet{ID: "fresh", Hash: "BBBB", Name: "fresh", AddedAt: time.Now()}))

	removed, err := db.CleanupOldRecords(24 * time.Hour)
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, "old", removed[0].ID)

	remaining, err := db.GetMagnets()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "fresh", remaining[0].ID)
}
