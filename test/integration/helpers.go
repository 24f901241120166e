package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeContentTree creates a temporary content root from a map of relative
// path to file content and returns its path.
func writeContentTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		dest := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o750))
		require.NoError(t, os.WriteFile(dest, []byte(content), 0o644))
	}
	return root
}

// readOutput reads one file from the emitted site.
func readOutput(t *testing.T, outputDir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(outputDir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

// snapshotTree maps every file in the output tree (relative slash path) to its
// contents, for whole-tree equality assertions.
func snapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

// indexOf aliases strings.Index so ordering assertions read cleanly.
func indexOf(haystack, needle string) int {
	return strings.Index(haystack, needle)
}
