package server

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

const debounceWindow = 300 * time.Millisecond

// watchSet is a recursive fsnotify watcher scoped to the content roots
// (posts, layouts, static). The content root itself is watched non-recursively
// so a root created after startup (a fresh _posts directory) is picked up the
// moment it appears; events outside the roots — the output tree lives in the
// content root too — are ignored.
type watchSet struct {
	watcher *fsnotify.Watcher
	roots   []string
}

func newWatcher(contentRoot string, roots ...string) (*watchSet, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ws := &watchSet{watcher: watcher}

	if contentRoot != "" {
		if err := watcher.Add(contentRoot); err != nil {
			_ = watcher.Close()
			return nil, err
		}
	}
	for _, root := range roots {
		if root == "" {
			continue
		}
		ws.roots = append(ws.roots, root)
		if err := addDirsRecursive(watcher, root); err != nil {
			_ = watcher.Close()
			return nil, err
		}
	}
	return ws, nil
}

func (ws *watchSet) Close() error { return ws.watcher.Close() }

// relevant reports whether a path lies at or under one of the watched roots.
func (ws *watchSet) relevant(name string) bool {
	for _, root := range ws.roots {
		if name == root || strings.HasPrefix(name, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func addDirsRecursive(watcher *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// debouncer coalesces bursts of filesystem events into single rebuild
// requests. Editors fire several events per save; one rebuild is enough.
type debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	out   chan struct{}
}

func newDebouncer() *debouncer {
	return &debouncer{out: make(chan struct{}, 1)}
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(debounceWindow, func() {
		select {
		case d.out <- struct{}{}:
		default:
		}
	})
}

// runWatchLoop forwards relevant filesystem events into the debouncer until
// the context is canceled. New directories are added to the watch set as they
// appear.
func runWatchLoop(ctx context.Context, ws *watchSet, deb *debouncer) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ws.watcher.Events:
			if !ok {
				return
			}
			ws.handleFileEvent(ev, deb)
		case err, ok := <-ws.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

func (ws *watchSet) handleFileEvent(ev fsnotify.Event, deb *debouncer) {
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return
	}
	if !ws.relevant(ev.Name) {
		return
	}

	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = addDirsRecursive(ws.watcher, ev.Name)
		}
	}

	if ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
		slog.Debug("Change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
		deb.trigger()
	}
}
