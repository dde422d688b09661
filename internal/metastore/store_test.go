package metastore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(name string, size int64) *FileRecord {
	return &FileRecord{
		Name:       name,
		Size:       size,
		MimeType:   "video/mp4",
		StorageKey: "files/abc123def456/" + name,
		CreatedAt:  time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestStore_PutGet(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "files.json"), nil)

	rec := testRecord("clip.mp4", 1024)
	require.NoError(t, s.Put("abc123def456", rec))

	got, ok := s.Get("abc123def456")
	require.True(t, ok)
	assert.Equal(t, "abc123def456", got.ID)
	assert.Equal(t, "clip.mp4", got.Name)
	assert.Equal(t, int64(1024), got.Size)
	assert.Equal(t, rec.StorageKey, got.StorageKey)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
}

func TestStore_GetMissing(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "files.json"), nil)

	_, ok := s.Get("nope")
	assert.False(t, ok)
}

func TestStore_PutIsUpsert(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "files.json"), nil)

	require.NoError(t, s.Put("id1", testRecord("a.mp4", 1)))
	require.NoError(t, s.Put("id1", testRecord("b.mp4", 2)))

	got, ok := s.Get("id1")
	require.True(t, ok)
	assert.Equal(t, "b.mp4", got.Name)
	assert.Equal(t, 1, s.Len())
}

func TestStore_List(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "files.json"), nil)

	ids := []string{"id1", "id2", "id3"}
	for i, id := range ids {
		require.NoError(t, s.Put(id, testRecord("f.bin", int64(i))))
	}

	recs := s.List()
	assert.Len(t, recs, len(ids))

	seen := map[string]bool{}
	for _, r := range recs {
		seen[r.ID] = true
	}
	for _, id := range ids {
		assert.True(t, seen[id])
	}
}

func TestStore_Remove(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "files.json"), nil)

	require.NoError(t, s.Put("id1", testRecord("a.mp4", 1)))

	removed, err := s.Remove("id1")
	require.NoError(t, err)
	assert.True(t, removed)

	_, ok := s.Get("id1")
	assert.False(t, ok)

	removed, err = s.Remove("id1")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestStore_Exists(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "files.json"), nil)
	require.NoError(t, s.Put("id1", testRecord("a.mp4", 1)))

	assert.True(t, s.Exists("id1"))
	assert.False(t, s.Exists("id2"))
}

func TestStore_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "files.json")

	s := Open(path, nil)
	require.NoError(t, s.Put("keep", testRecord("keep.mp4", 10)))
	require.NoError(t, s.Put("drop", testRecord("drop.mp4", 20)))
	_, err := s.Remove("drop")
	require.NoError(t, err)

	reopened := Open(path, nil)
	assert.Equal(t, 1, reopened.Len())

	got, ok := reopened.Get("keep")
	require.True(t, ok)
	assert.Equal(t, "keep", got.ID)
	assert.Equal(t, "keep.mp4", got.Name)

	_, ok = reopened.Get("drop")
	assert.False(t, ok)
}

func TestStore_MissingFileStartsEmpty(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "does-not-exist.json"), nil)
	assert.Zero(t, s.Len())
}

func TestStore_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "files.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := Open(path, nil)
	assert.Zero(t, s.Len())

	// The store is still usable and persists over the corrupt file.
	require.NoError(t, s.Put("id1", testRecord("a.mp4", 1)))
	assert.Equal(t, 1, Open(path, nil).Len())
}

func TestStore_PersistenceFailureKeepsMemory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "files.json")
	// Parent directory missing: every persist fails.
	s := Open(path, nil)

	err := s.Put("id1", testRecord("a.mp4", 1))
	require.Error(t, err)

	// In-memory state runs ahead of disk by design.
	_, ok := s.Get("id1")
	assert.True(t, ok)
}
