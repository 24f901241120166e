package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManager_EphemeralCreateAndCleanup(t *testing.T) {
	base := t.TempDir()
	m := NewManager(base)

	require.NoError(t, m.Create())
	dir := m.Path()
	require.True(t, strings.HasPrefix(filepath.Base(dir), "blogbuilder-"))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())

	require.NoError(t, m.Cleanup())
	_, err = os.Stat(dir)
	require.True(t, os.IsNotExist(err))
	require.Empty(t, m.Path())
}

func TestManager_PersistentSurvivesCleanup(t *testing.T) {
	base := t.TempDir()
	m := NewPersistentManager(base, "content")

	require.NoError(t, m.Create())
	dir := m.Path()
	require.Equal(t, filepath.Join(base, "content"), dir)

	marker := filepath.Join(dir, "clone-marker")
	require.NoError(t, os.WriteFile(marker, []byte("x"), 0o644))

	require.NoError(t, m.Cleanup())

	// Still there for the next incremental fetch.
	_, err := os.Stat(marker)
	require.NoError(t, err)
	require.Equal(t, dir, m.Path())
}

func TestManager_CleanupWithoutCreateIsNoop(t *testing.T) {
	m := NewManager(t.TempDir())
	require.NoError(t, m.Cleanup())
}
