package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunBuilds_HistoryDisabled(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("config.yaml", []byte("site:\n  title: Blog\n"), 0o644))
	CLI.Config = "config.yaml"

	err := runBuilds()
	require.Error(t, err)
	require.Contains(t, err.Error(), "history is disabled")

	// Listing builds must not create the database as a side effect.
	_, statErr := os.Stat(".blogbuilder")
	require.True(t, os.IsNotExist(statErr))
}
