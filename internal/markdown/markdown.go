// Package markdown renders post bodies to HTML.
//
// The renderer is a pure text-to-text transform. Fenced code blocks are opaque
// payloads: their language tag becomes a class attribute for client-side
// highlighting and their contents are HTML-escaped, never evaluated. Raw HTML
// in the source passes through unescaped — posts are author-trusted content,
// not a sanitization boundary.
package markdown

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrMalformedEncoding indicates the input is not valid UTF-8. This is the
// only input the renderer rejects; anything else renders best-effort.
var ErrMalformedEncoding = errors.New("markdown input is not valid UTF-8")

// Renderer converts Markdown to HTML. It is stateless and safe for
// concurrent use across posts.
type Renderer struct {
	engine goldmark.Markdown
}

// NewRenderer constructs a renderer with GFM extensions (tables,
// strikethrough, autolinks), auto heading IDs and raw HTML passthrough.
func NewRenderer() *Renderer {
	return &Renderer{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
	}
}

// Render converts a Markdown body (front matter already removed) into HTML.
func (r *Renderer) Render(body []byte) ([]byte, error) {
	if !utf8.Valid(body) {
		return nil, ErrMalformedEncoding
	}

	var buf bytes.Buffer
	if err := r.engine.Convert(body, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
