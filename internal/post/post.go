// Package post defines the Post document model and builds validated posts
// from raw (filename, front matter, body) triples.
package post

import (
	"fmt"
	"sync"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/util/sets"
)

// Post represents one blog entry. A Post is build-scoped: constructed once per
// build, rendered once, then treated as read-only by every consumer.
type Post struct {
	Slug        string
	Title       string
	PublishedAt time.Time
	Categories  sets.Set[string]
	Layout      string
	SourcePath  string

	// BodySource is the raw Markdown body. BodyHTML is set exactly once by
	// the render stage; see SetBodyHTML.
	BodySource []byte

	mu       sync.Mutex
	bodyHTML []byte
	excerpt  string
}

// SetBodyHTML records the rendered body. Render-once: a second call is a
// pipeline bug and panics rather than exposing partially re-rendered state.
func (p *Post) SetBodyHTML(html []byte, excerpt string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bodyHTML != nil {
		panic(fmt.Sprintf("post %q rendered twice", p.Slug))
	}
	p.bodyHTML = html
	p.excerpt = excerpt
}

// BodyHTML returns the rendered body, or nil if the post has not been
// rendered yet.
func (p *Post) BodyHTML() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bodyHTML
}

// Excerpt returns the post excerpt (explicit separator or first paragraph of
// the rendered body). Empty until the post is rendered, unless the source
// carried an explicit separator.
func (p *Post) Excerpt() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.excerpt
}

// URLPath returns the canonical output path for the post. Paths derive from
// the slug only, never from the title, so URLs stay stable across rebuilds.
func (p *Post) URLPath() string {
	return "/" + p.Slug + "/"
}

// ValidationError reports a post that is missing a required field or carries
// an unusable value for one.
type ValidationError struct {
	Field  string
	Source string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: invalid field %q: %s", e.Source, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: missing required field %q", e.Source, e.Field)
}
