// Package config loads and validates the blogbuilder configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "git.home.luguber.info/inful/blogbuilder/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Build   BuildConfig   `yaml:"build"`
	Output  OutputConfig  `yaml:"output"`
	Serve   ServeConfig   `yaml:"serve"`
	History HistoryConfig `yaml:"history"`
	Events  EventsConfig  `yaml:"events"`
}

// SiteConfig holds site-wide presentation values.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
	// DateFormat is a Go reference-time layout used when layouts display
	// publication dates.
	DateFormat string `yaml:"date_format,omitempty"`
}

// ContentConfig locates the content sources.
type ContentConfig struct {
	// Dir is the content root. Posts live in Dir/_posts, layouts in
	// Dir/_layouts, static assets in Dir/static.
	Dir        string `yaml:"dir,omitempty"`
	PostsDir   string `yaml:"posts_dir,omitempty"`
	LayoutsDir string `yaml:"layouts_dir,omitempty"`
	StaticDir  string `yaml:"static_dir,omitempty"`

	// Repository, when set, makes the build fetch the content root from a
	// git repository instead of reading Dir directly.
	Repository *RepositoryConfig `yaml:"repository,omitempty"`
}

// RepositoryConfig describes a git-backed content source.
type RepositoryConfig struct {
	URL    string      `yaml:"url"`
	Branch string      `yaml:"branch,omitempty"`
	Auth   *AuthConfig `yaml:"auth,omitempty"`
}

// AuthType enumerates supported authentication methods (stringly for YAML compatibility)
type AuthType string

const (
	AuthTypeNone  AuthType = "none"
	AuthTypeToken AuthType = "token"
	AuthTypeBasic AuthType = "basic"
)

// AuthConfig represents git authentication configuration
type AuthConfig struct {
	Type     AuthType `yaml:"type"` // token|basic|none
	Username string   `yaml:"username,omitempty"`
	Password string   `yaml:"password,omitempty"`
	Token    string   `yaml:"token,omitempty"`
}

// IsZero reports whether no auth method is specified.
func (a *AuthConfig) IsZero() bool { return a == nil || a.Type == "" || a.Type == AuthTypeNone }

// BuildConfig holds build performance tuning knobs. Zero values trigger
// sensible defaults.
type BuildConfig struct {
	// Workers caps the number of posts parsed and rendered in parallel.
	Workers int `yaml:"workers,omitempty"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory string `yaml:"directory,omitempty"`
}

// ServeConfig configures the serve daemon.
type ServeConfig struct {
	Port int `yaml:"port,omitempty"`
	// LiveReload is a tri-state so an absent key means enabled; use
	// LiveReloadEnabled to read it.
	LiveReload *bool `yaml:"live_reload,omitempty"`
	// RebuildInterval, when positive, schedules periodic full rebuilds in
	// addition to change-triggered ones. Useful with git-backed content.
	RebuildInterval time.Duration `yaml:"rebuild_interval,omitempty"`
}

// LiveReloadEnabled reports whether the serve daemon should broadcast reload
// events (default true).
func (s ServeConfig) LiveReloadEnabled() bool {
	return s.LiveReload == nil || *s.LiveReload
}

// HistoryConfig configures the SQLite build history store.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// EventsConfig configures optional NATS build-event publishing.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// Load loads configuration from the specified file.
//
// A `.env` file next to the working directory is loaded first (if present)
// and `${VAR}` references inside the YAML are expanded from the environment,
// so secrets like repository tokens stay out of the config file.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Note: .env file couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, apperrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with all defaults applied and no file read.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}
