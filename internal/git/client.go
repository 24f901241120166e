// Package git fetches git-backed content repositories for builds.
package git

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	appcfg "git.home.luguber.info/inful/blogbuilder/internal/config"
	apperrors "git.home.luguber.info/inful/blogbuilder/internal/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// Client handles git operations against a workspace directory.
type Client struct {
	workspaceDir string
}

// NewClient creates a git client rooted at the given workspace directory.
func NewClient(workspaceDir string) *Client { return &Client{workspaceDir: workspaceDir} }

// Sync makes the content repository available under the workspace and
// returns its checkout path. An existing checkout is pulled; anything else is
// cloned fresh.
func (c *Client) Sync(repo *appcfg.RepositoryConfig) (string, error) {
	repoPath := filepath.Join(c.workspaceDir, "content")

	if _, err := os.Stat(filepath.Join(repoPath, ".git")); err == nil {
		return c.update(repoPath, repo)
	}
	return c.clone(repoPath, repo)
}

func (c *Client) clone(repoPath string, repo *appcfg.RepositoryConfig) (string, error) {
	slog.Debug("Cloning content repository", logfields.URL(repo.URL), logfields.Path(repoPath))
	if err := os.RemoveAll(repoPath); err != nil {
		return "", fmt.Errorf("failed to remove existing directory: %w", err)
	}

	opts := &gogit.CloneOptions{URL: repo.URL}
	if repo.Branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + repo.Branch)
		opts.SingleBranch = true
	}
	auth, err := authMethod(repo.Auth)
	if err != nil {
		return "", err
	}
	opts.Auth = auth

	repository, err := gogit.PlainClone(repoPath, false, opts)
	if err != nil {
		return "", apperrors.GitFetchError(repo.URL, err)
	}

	if ref, herr := repository.Head(); herr == nil {
		slog.Info("Content repository cloned", logfields.URL(repo.URL), slog.String("commit", ref.Hash().String()[:8]))
	} else {
		slog.Info("Content repository cloned", logfields.URL(repo.URL))
	}
	return repoPath, nil
}

func (c *Client) update(repoPath string, repo *appcfg.RepositoryConfig) (string, error) {
	slog.Debug("Updating content repository", logfields.Path(repoPath))

	repository, err := gogit.PlainOpen(repoPath)
	if err != nil {
		// Corrupt checkout; fall back to a fresh clone.
		slog.Warn("Existing checkout unreadable, recloning", logfields.Path(repoPath), logfields.Error(err))
		return c.clone(repoPath, repo)
	}

	worktree, err := repository.Worktree()
	if err != nil {
		return "", apperrors.GitFetchError(repo.URL, err)
	}

	auth, err := authMethod(repo.Auth)
	if err != nil {
		return "", err
	}

	pullOpts := &gogit.PullOptions{RemoteName: "origin", Auth: auth}
	if repo.Branch != "" {
		pullOpts.ReferenceName = plumbing.ReferenceName("refs/heads/" + repo.Branch)
		pullOpts.SingleBranch = true
	}

	if err := worktree.Pull(pullOpts); err != nil && err != gogit.NoErrAlreadyUpToDate {
		return "", apperrors.GitFetchError(repo.URL, err)
	}

	return repoPath, nil
}

// authMethod maps the config auth block to a go-git transport method. Token
// auth uses the conventional basic-auth-with-token form most forges accept.
func authMethod(auth *appcfg.AuthConfig) (transport.AuthMethod, error) {
	if auth.IsZero() {
		return nil, nil
	}
	switch auth.Type {
	case appcfg.AuthTypeToken:
		return &http.BasicAuth{Username: "token", Password: auth.Token}, nil
	case appcfg.AuthTypeBasic:
		return &http.BasicAuth{Username: auth.Username, Password: auth.Password}, nil
	default:
		return nil, fmt.Errorf("unsupported auth type: %s", auth.Type)
	}
}
