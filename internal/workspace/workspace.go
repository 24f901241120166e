// Package workspace manages the scratch directories a build clones remote
// content into.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// Manager handles workspace operations (both temporary and persistent)
type Manager struct {
	baseDir    string
	dir        string
	persistent bool // If true, use the fixed directory without timestamps
}

// NewManager creates a workspace manager with ephemeral timestamped directories.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// NewPersistentManager creates a workspace manager that uses a fixed directory
// (baseDir/subdirName) which survives Cleanup, allowing incremental fetches.
func NewPersistentManager(baseDir, subdirName string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if subdirName == "" {
		subdirName = "content"
	}
	return &Manager{
		baseDir:    baseDir,
		dir:        filepath.Join(baseDir, subdirName),
		persistent: true,
	}
}

// Create creates the workspace directory: a timestamped one in ephemeral
// mode, the fixed one in persistent mode.
func (m *Manager) Create() error {
	if m.persistent {
		if err := os.MkdirAll(m.dir, 0o750); err != nil {
			return fmt.Errorf("failed to create persistent workspace directory: %w", err)
		}
		slog.Debug("Using persistent workspace", logfields.Path(m.dir))
		return nil
	}

	timestamp := time.Now().Format("20060102-150405")
	dir := filepath.Join(m.baseDir, fmt.Sprintf("blogbuilder-%s", timestamp))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}

	m.dir = dir
	slog.Debug("Created workspace", logfields.Path(dir))
	return nil
}

// Path returns the workspace directory path.
func (m *Manager) Path() string { return m.dir }

// Cleanup removes ephemeral workspaces. Persistent workspaces are kept for
// the next incremental fetch.
func (m *Manager) Cleanup() error {
	if m.dir == "" || m.persistent {
		return nil
	}

	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("failed to cleanup workspace: %w", err)
	}

	slog.Debug("Cleaned up workspace", logfields.Path(m.dir))
	m.dir = ""
	return nil
}
