package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNested(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "a", "b")

	got, err := EnsureDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := t.TempDir()
	_, err := EnsureDir(dir)
	require.NoError(t, err)
	_, err = EnsureDir(dir)
	require.NoError(t, err)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()

	assert.False(t, Exists(filepath.Join(dir, "missing.m4a")))

	path := filepath.Join(dir, "present.m4a")
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o600))
	assert.True(t, Exists(path))

	// a directory is not a file
	assert.False(t, Exists(dir))
}
