package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "git.home.luguber.info/inful/blogbuilder/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "site:\n  title: Test Blog\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "Test Blog", cfg.Site.Title)
	require.Equal(t, DefaultDateFormat, cfg.Site.DateFormat)
	require.Equal(t, DefaultContentDir, cfg.Content.Dir)
	require.Equal(t, DefaultPostsDir, cfg.Content.PostsDir)
	require.Equal(t, DefaultLayoutsDir, cfg.Content.LayoutsDir)
	require.Equal(t, DefaultStaticDir, cfg.Content.StaticDir)
	require.Equal(t, DefaultOutputDir, cfg.Output.Directory)
	require.Equal(t, DefaultServePort, cfg.Serve.Port)
	require.Equal(t, DefaultHistoryDB, cfg.History.Path)
	require.Equal(t, DefaultSubject, cfg.Events.Subject)
	require.Positive(t, cfg.Build.Workers)
	require.True(t, cfg.Serve.LiveReloadEnabled())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	var be *apperrors.BuildError
	require.ErrorAs(t, err, &be)
	require.Equal(t, apperrors.CategoryConfig, be.Category)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "site: [unbalanced\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("BLOG_REPO_TOKEN", "s3cret")
	path := writeConfig(t, `site:
  title: Env Blog
content:
  repository:
    url: https://git.example.com/blog/content.git
    auth:
      type: token
      token: ${BLOG_REPO_TOKEN}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Content.Repository)
	require.Equal(t, "s3cret", cfg.Content.Repository.Auth.Token)
}

func TestLoad_ExplicitLiveReloadFalse(t *testing.T) {
	path := writeConfig(t, "site:\n  title: Blog\nserve:\n  live_reload: false\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.False(t, cfg.Serve.LiveReloadEnabled())
}

func TestValidate_PortRange(t *testing.T) {
	cfg := Default()
	cfg.Serve.Port = 70000
	require.Error(t, cfg.Validate())
}

func TestValidate_NegativeRebuildInterval(t *testing.T) {
	cfg := Default()
	cfg.Serve.RebuildInterval = -time.Minute
	require.Error(t, cfg.Validate())
}

func TestValidate_RepositoryNeedsURL(t *testing.T) {
	cfg := Default()
	cfg.Content.Repository = &RepositoryConfig{}
	require.Error(t, cfg.Validate())
}

func TestValidate_TokenAuthNeedsToken(t *testing.T) {
	cfg := Default()
	cfg.Content.Repository = &RepositoryConfig{
		URL:  "https://git.example.com/blog.git",
		Auth: &AuthConfig{Type: AuthTypeToken},
	}
	require.Error(t, cfg.Validate())
}

func TestValidate_BasicAuthNeedsUsername(t *testing.T) {
	cfg := Default()
	cfg.Content.Repository = &RepositoryConfig{
		URL:  "https://git.example.com/blog.git",
		Auth: &AuthConfig{Type: AuthTypeBasic, Password: "pw"},
	}
	require.Error(t, cfg.Validate())
}

func TestValidate_EventsNeedURL(t *testing.T) {
	cfg := Default()
	cfg.Events.Enabled = true
	cfg.Events.NATSURL = ""
	require.Error(t, cfg.Validate())
}

func TestInit_WritesStarterFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, Init("config.yaml", false))

	cfg, err := Load("config.yaml")
	require.NoError(t, err)
	require.Equal(t, "My Blog", cfg.Site.Title)
	require.True(t, cfg.History.Enabled)

	entries, err := os.ReadDir(DefaultPostsDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Contains(t, entries[0].Name(), "hello-world.md")
}

func TestInit_RefusesOverwriteWithoutForce(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile("config.yaml", []byte("site:\n  title: Existing\n"), 0o644))
	require.Error(t, Init("config.yaml", false))
	require.NoError(t, Init("config.yaml", true))
}
