package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rwstats/internal/models"
)

func testRecord() *models.VisitorStats {
	return &models.VisitorStats{
		ID:            models.VisitorStatsID,
		TotalVisitors: 10,
		PageViews:     40,
		DailyVisits:   map[string]int64{"2025-09-01": 3},
		LastUpdated:   time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC),
	}
}

func mustCompressor(t *testing.T) CompressorInterface {
	t.Helper()
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	t.Cleanup(compressor.Close)
	return compressor
}

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "visitors.dat"), mustCompressor(t))
}

func TestFileStore_GetMissing(t *testing.T) {
	fs := newTestFileStore(t)
	_, err := fs.Get(context.Background(), models.VisitorStatsID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_InsertGet(t *testing.T) {
	fs := newTestFileStore(t)
	require.NoError(t, fs.Insert(context.Background(), testRecord()))

	got, err := fs.Get(context.Background(), models.VisitorStatsID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.TotalVisitors)

	// The store hands out clones; mutating one must not leak back.
	got.DailyVisits["2025-09-01"] = 99
	again, err := fs.Get(context.Background(), models.VisitorStatsID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), again.DailyVisits["2025-09-01"])
}

func TestFileStore_UpdateMissing(t *testing.T) {
	fs := newTestFileStore(t)
	err := fs.Update(context.Background(), testRecord())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_Update(t *testing.T) {
	fs := newTestFileStore(t)
	require.NoError(t, fs.Insert(context.Background(), testRecord()))

	rec := testRecord()
	rec.TotalVisitors = 11
	require.NoError(t, fs.Update(context.Background(), rec))

	got, err := fs.Get(context.Background(), models.VisitorStatsID)
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.TotalVisitors)
}

func TestFileStore_PersistRestoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visitors.dat")
	compressor := mustCompressor(t)

	fs := NewFileStore(path, compressor)
	require.NoError(t, fs.Insert(context.Background(), testRecord()))
	require.NoError(t, fs.Persist())

	// A fresh store restores the snapshot.
	reopened := NewFileStore(path, compressor)
	require.NoError(t, reopened.Restore())

	got, err := reopened.Get(context.Background(), models.VisitorStatsID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.TotalVisitors)
	assert.Equal(t, int64(3), got.DailyVisits["2025-09-01"])
}

func TestFileStore_PersistLeavesNoTmpFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visitors.dat")
	fs := NewFileStore(path, mustCompressor(t))
	require.NoError(t, fs.Insert(context.Background(), testRecord()))
	require.NoError(t, fs.Persist())

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_RestoreMissingFile(t *testing.T) {
	fs := newTestFileStore(t)
	require.NoError(t, fs.Restore())

	_, err := fs.Get(context.Background(), models.VisitorStatsID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_RestoreLegacyPlainJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visitors.dat")

	legacy := map[string]*models.VisitorStats{models.VisitorStatsID: testRecord()}
	data, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	fs := NewFileStore(path, mustCompressor(t))
	require.NoError(t, fs.Restore())

	got, err := fs.Get(context.Background(), models.VisitorStatsID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), got.PageViews)
}

func TestFileStore_RestoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visitors.dat")
	require.NoError(t, os.WriteFile(path, []byte("not a snapshot"), 0644))

	fs := NewFileStore(path, mustCompressor(t))
	assert.Error(t, fs.Restore())
}
