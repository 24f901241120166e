package server

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	deb := newDebouncer()

	// A save burst: several events inside one window.
	for i := 0; i < 10; i++ {
		deb.trigger()
	}

	select {
	case <-deb.out:
	case <-time.After(2 * debounceWindow):
		t.Fatal("debouncer never fired")
	}

	// Exactly one pending request for the whole burst.
	select {
	case <-deb.out:
		t.Fatal("debouncer fired more than once for a single burst")
	case <-time.After(2 * debounceWindow):
	}
}

func TestDebouncer_FiresAgainAfterQuietPeriod(t *testing.T) {
	deb := newDebouncer()

	deb.trigger()
	select {
	case <-deb.out:
	case <-time.After(2 * debounceWindow):
		t.Fatal("first trigger never fired")
	}

	deb.trigger()
	select {
	case <-deb.out:
	case <-time.After(2 * debounceWindow):
		t.Fatal("second trigger never fired")
	}
}

func TestWatchSet_PicksUpRootCreatedAfterStart(t *testing.T) {
	content := t.TempDir()
	postsDir := filepath.Join(content, "_posts")

	// _posts does not exist yet; the content root itself is watched.
	ws, err := newWatcher(content, postsDir)
	require.NoError(t, err)
	defer func() { _ = ws.Close() }()

	deb := newDebouncer()
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	go runWatchLoop(ctx, ws, deb)

	require.NoError(t, os.MkdirAll(postsDir, 0o750))

	select {
	case <-deb.out:
	case <-time.After(5 * time.Second):
		t.Fatal("creating the posts directory never triggered a rebuild")
	}

	// The new root is now watched recursively: a post written inside it
	// triggers too.
	require.NoError(t, os.WriteFile(filepath.Join(postsDir, "2026-01-01-first.md"), []byte("---\ntitle: First\n---\nHi.\n"), 0o644))

	select {
	case <-deb.out:
	case <-time.After(5 * time.Second):
		t.Fatal("writing into the new posts directory never triggered a rebuild")
	}
}

func TestWatchSet_IgnoresOutputTreeChurn(t *testing.T) {
	content := t.TempDir()
	postsDir := filepath.Join(content, "_posts")
	require.NoError(t, os.MkdirAll(postsDir, 0o750))

	ws, err := newWatcher(content, postsDir)
	require.NoError(t, err)
	defer func() { _ = ws.Close() }()

	deb := newDebouncer()
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	go runWatchLoop(ctx, ws, deb)

	// The emitted site lives inside the content root; its churn must not feed
	// back into rebuilds.
	publicDir := filepath.Join(content, "public")
	require.NoError(t, os.MkdirAll(publicDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(content, "public", "index.html"), []byte("<html></html>"), 0o644))

	select {
	case <-deb.out:
		t.Fatal("output tree changes triggered a rebuild")
	case <-time.After(2 * debounceWindow):
	}
}

func TestBuildStatus_Snapshot(t *testing.T) {
	var bs buildStatus

	snap := bs.snapshot()
	require.False(t, snap.Healthy)
	require.Zero(t, snap.Posts)

	bs.setSuccess("build-1", 4)
	snap = bs.snapshot()
	require.True(t, snap.Healthy)
	require.Equal(t, "build-1", snap.LastBuildID)
	require.Equal(t, 4, snap.Posts)
	require.Empty(t, snap.LastError)

	// A failed rebuild marks the daemon unhealthy but keeps the last build id.
	bs.setError(errors.New("boom"))
	snap = bs.snapshot()
	require.False(t, snap.Healthy)
	require.Equal(t, "build-1", snap.LastBuildID)
	require.Equal(t, "boom", snap.LastError)

	bs.setSuccess("build-2", 5)
	snap = bs.snapshot()
	require.True(t, snap.Healthy)
	require.Equal(t, "build-2", snap.LastBuildID)
}

func TestLiveReloadHub_BroadcastReachesClient(t *testing.T) {
	hub := NewLiveReloadHub()
	defer hub.Close()

	srv := httptest.NewServer(hub)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readLine := func() string {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		return strings.TrimRight(line, "\n")
	}

	require.Equal(t, ": connected", readLine())
	require.Equal(t, "", readLine())

	// Give the hub a moment to register the client before broadcasting.
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Broadcast("abc123")
	require.Equal(t, `data: {"hash":"abc123"}`, readLine())
}

func TestLiveReloadHub_LateClientGetsLastHash(t *testing.T) {
	hub := NewLiveReloadHub()
	defer hub.Close()

	hub.Broadcast("deadbeef")

	srv := httptest.NewServer(hub)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	var sawReplay bool
	for i := 0; i < 4; i++ {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.Contains(line, "deadbeef") {
			sawReplay = true
			break
		}
	}
	require.True(t, sawReplay, "new client never received the last hash")
}

func TestLiveReloadHub_ClosedHubRejectsClients(t *testing.T) {
	hub := NewLiveReloadHub()
	hub.Close()

	srv := httptest.NewServer(hub)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
