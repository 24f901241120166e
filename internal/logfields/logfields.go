package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeySlug       = "slug"
	KeyLayout     = "layout"
	KeyCategory   = "category"
	KeyOutcome    = "outcome"
	KeyURL        = "url"
	KeyName       = "name"
	KeyPosts      = "posts"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Layout(name string) slog.Attr    { return slog.String(KeyLayout, name) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Name(n string) slog.Attr         { return slog.String(KeyName, n) }
func Posts(n int) slog.Attr           { return slog.Int(KeyPosts, n) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
