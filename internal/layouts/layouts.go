// Package layouts resolves named HTML layouts and renders pages with them.
//
// All layouts are loaded eagerly at build start: a post naming a layout that
// does not exist fails the build immediately with UnknownLayoutError instead
// of surfacing mid-render or silently falling back to a default skeleton.
package layouts

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
)

// UnknownLayoutError reports a layout name that no loaded template provides.
// Falling back silently would hide authoring mistakes, so this is fatal.
type UnknownLayoutError struct {
	Name string
}

func (e *UnknownLayoutError) Error() string {
	return fmt.Sprintf("unknown layout %q", e.Name)
}

// SiteData carries site-wide values into every layout.
type SiteData struct {
	Title       string
	Description string
	BaseURL     string
	LiveReload  bool
}

// PostData is the per-post view handed to layouts. Content is already
// rendered HTML; layouts only place it.
type PostData struct {
	Title      string
	Date       string
	Categories []string
	URL        string
	Excerpt    string
	Content    template.HTML
}

// PageData is the root template context for both post pages and listing pages.
type PageData struct {
	Site     SiteData
	Title    string
	Post     *PostData   // set on post pages
	Posts    []*PostData // set on listing pages
	Category string      // set on category listing pages
}

// Registry maps layout names to parsed templates.
type Registry struct {
	templates map[string]*template.Template
}

// Load builds a registry from the built-in layouts plus any `.html` files in
// layoutsDir (which may be empty or absent). User layouts override built-ins
// of the same name.
func Load(layoutsDir string) (*Registry, error) {
	reg := &Registry{templates: make(map[string]*template.Template)}

	for name, src := range builtinLayouts {
		tpl, err := template.New(name).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parse built-in layout %q: %w", name, err)
		}
		reg.templates[name] = tpl
	}

	if layoutsDir == "" {
		return reg, nil
	}
	entries, err := os.ReadDir(layoutsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return reg, nil
		}
		return nil, fmt.Errorf("read layouts directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".html")
		path := filepath.Join(layoutsDir, entry.Name())
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read layout %s: %w", path, err)
		}
		tpl, err := template.New(name).Parse(string(src))
		if err != nil {
			return nil, fmt.Errorf("parse layout %s: %w", path, err)
		}
		reg.templates[name] = tpl
	}

	return reg, nil
}

// Has reports whether the registry resolves the given layout name.
func (r *Registry) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Names returns the loaded layout names (unordered).
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	return names
}

// Render applies the named layout to data. Rendering is pure: identical
// (name, data) pairs produce identical bytes.
func (r *Registry) Render(name string, data PageData) ([]byte, error) {
	tpl, ok := r.templates[name]
	if !ok {
		return nil, &UnknownLayoutError{Name: name}
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render layout %q: %w", name, err)
	}
	return buf.Bytes(), nil
}
