package config

import "runtime"

// Default values applied by ApplyDefaults. Kept as constants so Init and the
// tests reference the same strings.
const (
	DefaultTitle      = "A Blog"
	DefaultDateFormat = "January 2, 2006"
	DefaultContentDir = "."
	DefaultPostsDir   = "_posts"
	DefaultLayoutsDir = "_layouts"
	DefaultStaticDir  = "static"
	DefaultOutputDir  = "./public"
	DefaultServePort  = 4000
	DefaultHistoryDB  = ".blogbuilder/builds.db"
	DefaultSubject    = "blog.builds"
)

const maxDefaultWorkers = 8

// ApplyDefaults fills zero values with working defaults. Safe to call more
// than once.
func (c *Config) ApplyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = DefaultTitle
	}
	if c.Site.DateFormat == "" {
		c.Site.DateFormat = DefaultDateFormat
	}
	if c.Content.Dir == "" {
		c.Content.Dir = DefaultContentDir
	}
	if c.Content.PostsDir == "" {
		c.Content.PostsDir = DefaultPostsDir
	}
	if c.Content.LayoutsDir == "" {
		c.Content.LayoutsDir = DefaultLayoutsDir
	}
	if c.Content.StaticDir == "" {
		c.Content.StaticDir = DefaultStaticDir
	}
	if c.Build.Workers <= 0 {
		workers := runtime.NumCPU()
		if workers > maxDefaultWorkers {
			workers = maxDefaultWorkers
		}
		c.Build.Workers = workers
	}
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDir
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = DefaultServePort
	}
	if c.History.Path == "" {
		c.History.Path = DefaultHistoryDB
	}
	if c.Events.Subject == "" {
		c.Events.Subject = DefaultSubject
	}
}
