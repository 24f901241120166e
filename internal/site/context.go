package site

import (
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

// BuildContext is the immutable per-build state handed to every stage. It is
// constructed once per build invocation; nothing in the pipeline reaches for
// globals.
type BuildContext struct {
	BuildID   string
	StartedAt time.Time

	// Config is a snapshot taken at build start; a config reload during a
	// serve session only affects subsequent builds.
	Config *config.Config

	// ContentDir is the resolved content root (local dir or git checkout).
	ContentDir string

	// LiveReload is injected into layouts so served pages subscribe to the
	// reload stream; the build command leaves it off.
	LiveReload bool
}

// NewBuildContext snapshots the configuration for one build.
func NewBuildContext(cfg *config.Config, contentDir string, liveReload bool) *BuildContext {
	return &BuildContext{
		BuildID:    uuid.NewString(),
		StartedAt:  time.Now(),
		Config:     cfg,
		ContentDir: contentDir,
		LiveReload: liveReload,
	}
}
