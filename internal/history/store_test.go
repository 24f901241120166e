package history

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_AppendAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()

	started := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	rec := Record{
		BuildID:    "b-1",
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Second),
		Outcome:    OutcomeSuccess,
		Posts:      7,
	}
	require.NoError(t, store.Append(ctx, rec))

	got, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "b-1", got[0].BuildID)
	require.Equal(t, OutcomeSuccess, got[0].Outcome)
	require.Equal(t, 7, got[0].Posts)
	require.True(t, got[0].StartedAt.Equal(started))
	require.Empty(t, got[0].Error)
}

func TestStore_RecentNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := Record{
			BuildID:    fmt.Sprintf("b-%d", i),
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + time.Second),
			Outcome:    OutcomeSuccess,
		}
		require.NoError(t, store.Append(ctx, rec))
	}

	got, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "b-4", got[0].BuildID)
	require.Equal(t, "b-3", got[1].BuildID)
	require.Equal(t, "b-2", got[2].BuildID)
}

func TestStore_FailedBuildKeepsError(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()

	now := time.Now()
	rec := Record{
		BuildID:    "b-fail",
		StartedAt:  now,
		FinishedAt: now,
		Outcome:    OutcomeFailed,
		Error:      `duplicate slug "hello-world"`,
	}
	require.NoError(t, store.Append(ctx, rec))

	got, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, OutcomeFailed, got[0].Outcome)
	require.Contains(t, got[0].Error, "duplicate slug")
}

func TestStore_DuplicateBuildIDRejected(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()

	now := time.Now()
	rec := Record{BuildID: "b-dup", StartedAt: now, FinishedAt: now, Outcome: OutcomeSuccess}
	require.NoError(t, store.Append(ctx, rec))
	require.Error(t, store.Append(ctx, rec))
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "builds.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}
