package site

import (
	"path/filepath"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	apperrors "git.home.luguber.info/inful/blogbuilder/internal/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/git"
	"git.home.luguber.info/inful/blogbuilder/internal/workspace"
)

// ResolveContentDir returns the directory the build reads content from.
//
// For a plain local site this is just content.dir. For git-backed content the
// repository is synced into a persistent workspace (so subsequent builds
// fetch incrementally) and the checkout becomes the content root.
func ResolveContentDir(cfg *config.Config) (string, error) {
	if cfg.Content.Repository == nil {
		return cfg.Content.Dir, nil
	}

	ws := workspace.NewPersistentManager(".blogbuilder", "workspace")
	if err := ws.Create(); err != nil {
		return "", apperrors.WorkspaceError("create", err)
	}

	client := git.NewClient(ws.Path())
	checkout, err := client.Sync(cfg.Content.Repository)
	if err != nil {
		return "", err
	}

	// content.dir is interpreted relative to the checkout for git sources.
	if cfg.Content.Dir != "" && cfg.Content.Dir != "." {
		return filepath.Join(checkout, cfg.Content.Dir), nil
	}
	return checkout, nil
}
