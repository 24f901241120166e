package markdown

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// ExcerptSeparator marks an explicit excerpt boundary in post source.
const ExcerptSeparator = "<!--more-->"

// ExplicitExcerpt returns the source text before the excerpt separator, or
// ("", false) when the post does not use one.
func ExplicitExcerpt(source []byte) (string, bool) {
	idx := bytes.Index(source, []byte(ExcerptSeparator))
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(string(source[:idx])), true
}

// FirstParagraph extracts the rendered text of the first <p> element from an
// HTML fragment. Used as the excerpt fallback when a post has no explicit
// separator. Returns "" when the fragment contains no paragraph.
func FirstParagraph(fragment []byte) string {
	doc, err := html.Parse(bytes.NewReader(fragment))
	if err != nil {
		// html.Parse is extremely lenient; an error here means a truncated
		// reader, not bad markup. No paragraph is the honest answer.
		return ""
	}

	var para *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if para != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "p" {
			para = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)

	if para == nil {
		return ""
	}

	var sb strings.Builder
	var text func(*html.Node)
	text = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			text(c)
		}
	}
	text(para)

	return strings.TrimSpace(sb.String())
}
