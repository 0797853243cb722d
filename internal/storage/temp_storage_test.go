package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTempStorageStoreBytesAndGet(t *testing.T) {
	ts, err := NewTempStorage(t.TempDir(), time.Minute)
	require.NoError(t, err)
	defer ts.Stop()

	id, err := ts.StoreBytes([]byte(`{"process":"Unknown"}`), "combined_review_report.json", KindReport)
	require.NoError(t, err)

	sf, err := ts.Get(id)
	require.NoError(t, err)
	assert.Equal(t, KindReport, sf.Kind)
	assert.Equal(t, "combined_review_report.json", sf.Name)
	assert.Equal(t, ".json", filepath.Ext(sf.Path))

	data, err := os.ReadFile(sf.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Unknown")
}

func TestTempStorageStoreFileMoves(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "reviewed_contract.docx")
	require.NoError(t, os.WriteFile(src, []byte("annotated"), 0o644))

	ts, err := NewTempStorage(filepath.Join(dir, "artifacts"), time.Minute)
	require.NoError(t, err)
	defer ts.Stop()

	id, err := ts.StoreFile(src, "reviewed_contract.docx", KindReviewed)
	require.NoError(t, err)

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err), "source must be moved out of the upload scope")

	sf, err := ts.Get(id)
	require.NoError(t, err)
	assert.Equal(t, int64(len("annotated")), sf.Size)
}

func TestTempStorageUnknownID(t *testing.T) {
	ts, err := NewTempStorage(t.TempDir(), time.Minute)
	require.NoError(t, err)
	defer ts.Stop()

	_, err = ts.Get("no-such-id")
	assert.Error(t, err)
}

func TestTempStorageExpiryDeletesFile(t *testing.T) {
	ts, err := NewTempStorage(t.TempDir(), 30*time.Millisecond)
	require.NoError(t, err)
	defer ts.Stop()

	id, err := ts.StoreBytes([]byte("short-lived"), "report.json", KindReport)
	require.NoError(t, err)

	sf, err := ts.Get(id)
	require.NoError(t, err)

	// TTL plus one janitor cycle.
	time.Sleep(150 * time.Millisecond)

	_, err = ts.Get(id)
	assert.Error(t, err, "expired artifact must not be served")

	_, err = os.Stat(sf.Path)
	assert.True(t, os.IsNotExist(err), "expired artifact must be deleted from disk")
}

func TestTempStorageStats(t *testing.T) {
	ts, err := NewTempStorage(t.TempDir(), time.Minute)
	require.NoError(t, err)
	defer ts.Stop()

	_, err = ts.StoreBytes([]byte("1234"), "a.json", KindReport)
	require.NoError(t, err)

	stats := ts.Stats()
	assert.Equal(t, 1, stats["total_files"])
}
