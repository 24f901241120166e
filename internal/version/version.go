// Package version exposes build-time version information.
package version

// Set via -ldflags "-X git.home.luguber.info/inful/blogbuilder/internal/version.Version=v1.2.3".
var Version = "dev"
