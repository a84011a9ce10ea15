package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "names.json")
	s, err := NewStore(path, 0)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)
	assert.Empty(t, s.Names("anon"))
	assert.False(t, s.Snapshot().CreatedAt.IsZero())
}

func TestNewStoreRejectsEmptyPath(t *testing.T) {
	_, err := NewStore("", 10)
	assert.Error(t, err)
}

func TestAppendNamesDedupesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.json")
	s, err := NewStore(path, 10)
	require.NoError(t, err)

	require.NoError(t, s.AppendNames("u1", "Ocean Breeze", "Midnight Garden", " "))
	require.NoError(t, s.AppendNames("u1", "ocean breeze"))
	require.NoError(t, s.AppendNames("u2", "Tidal Echo"))

	assert.Equal(t, []string{"Midnight Garden", "ocean breeze"}, s.Names("u1"))
	assert.Equal(t, []string{"Tidal Echo"}, s.Names("u2"))

	reopened, err := NewStore(path, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Midnight Garden", "ocean breeze"}, reopened.Names("u1"))
}

func TestAppendNamesKeepsNewest(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "names.json"), 3)
	require.NoError(t, err)

	require.NoError(t, s.AppendNames("u", "A One", "B Two", "C Three", "D Four"))
	assert.Equal(t, []string{"B Two", "C Three", "D Four"}, s.Names("u"))
}

func TestNamesReturnsCopy(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "names.json"), 5)
	require.NoError(t, err)
	require.NoError(t, s.AppendNames("u", "Velvet Thunder"))

	names := s.Names("u")
	names[0] = "changed"
	assert.Equal(t, []string{"Velvet Thunder"}, s.Names("u"))

	snap := s.Snapshot()
	snap.NamesByUser["u"].Names[0] = "changed"
	assert.Equal(t, []string{"Velvet Thunder"}, s.Names("u"))
}

func TestClearNames(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "names.json"), 5)
	require.NoError(t, err)
	require.NoError(t, s.AppendNames("u", "Velvet Thunder"))
	require.NoError(t, s.ClearNames("u"))
	require.NoError(t, s.ClearNames("missing"))
	assert.Empty(t, s.Names("u"))
}

func TestLoadEmptyAndCorruptFiles(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	s, err := NewStore(empty, 5)
	require.NoError(t, err)
	assert.NotNil(t, s.Snapshot().NamesByUser)

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o600))
	_, err = NewStore(corrupt, 5)
	assert.Error(t, err)
}
