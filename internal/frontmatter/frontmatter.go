// Package frontmatter splits YAML front matter (`---` delimited) from Markdown
// post bodies and parses it into a key/value map.
//
// A document that does not open with a delimiter is treated as all body with
// empty metadata. This is a deliberate policy: legacy posts without front
// matter still build, and the post builder decides which fields are
// required. An opening delimiter without a closing one is an authoring error
// and fails the build.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a front
// matter delimiter but never closed it.
var ErrMissingClosingDelimiter = errors.New("front matter opening delimiter found but closing delimiter is missing")

// Style captures newline shape so rewritten documents keep their line endings.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Split separates YAML front matter from the Markdown body.
//
// had reports whether a front matter block was present. When had is false,
// body is the full input and meta is nil.
func Split(content []byte) (meta []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)

	nl := style.Newline
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, style, nil
	}

	metaStart := len(open)

	// Empty block: the closing delimiter immediately follows the opening one.
	if bytes.HasPrefix(content[metaStart:], open) {
		bodyStart := metaStart + len(open)
		return []byte{}, content[bodyStart:], true, style, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[metaStart:], closeSeq)
	if idx < 0 {
		// The document may end exactly at the closing delimiter with no
		// trailing newline.
		tail := []byte(nl + "---")
		if bytes.HasSuffix(content, tail) {
			metaEnd := len(content) - len(tail) + len(nl)
			return content[metaStart:metaEnd], []byte{}, true, style, nil
		}
		return nil, nil, false, style, ErrMissingClosingDelimiter
	}

	metaEnd := metaStart + idx + len(nl)
	bodyStart := metaStart + idx + len(closeSeq)
	return content[metaStart:metaEnd], content[bodyStart:], true, style, nil
}

// Join reassembles a document from raw front matter and body.
// If had is false, Join returns body as-is.
func Join(meta []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	delim := []byte("---" + nl)
	out := make([]byte, 0, 2*len(delim)+len(meta)+len(body))
	out = append(out, delim...)
	out = append(out, meta...)
	out = append(out, delim...)
	out = append(out, body...)
	return out
}

// ParseYAML parses raw front matter (without delimiters) into a map.
func ParseYAML(meta []byte) (map[string]any, error) {
	if len(meta) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(meta, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			newline = "\n"
			break
		}
	}

	hasTrailingNewline := len(content) > 0 && content[len(content)-1] == '\n'

	return Style{
		Newline:            newline,
		HasTrailingNewline: hasTrailingNewline,
	}
}
