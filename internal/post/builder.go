package post

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/util/sets"
)

// DefaultLayout is applied when front matter does not name one.
const DefaultLayout = "default"

// filenameDatePattern matches the conventional `YYYY-MM-DD-` post filename prefix.
var filenameDatePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)$`)

// dateFormats lists accepted front matter date layouts, most specific first.
var dateFormats = []string{
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 Z0700",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Build converts parsed front matter and a Markdown body into a validated
// Post. filename is the base name of the source file; sourcePath is kept for
// error reporting.
func Build(filename, sourcePath string, meta map[string]any, body []byte) (*Post, error) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	datePrefix := ""
	slugFragment := base
	if m := filenameDatePattern.FindStringSubmatch(base); m != nil {
		datePrefix = m[1]
		slugFragment = m[2]
	}

	title, ok := stringField(meta, "title")
	if !ok || title == "" {
		return nil, &ValidationError{Field: "title", Source: sourcePath}
	}

	publishedAt, err := resolveDate(meta, datePrefix, sourcePath)
	if err != nil {
		return nil, err
	}

	layout := DefaultLayout
	if l, ok := stringField(meta, "layout"); ok && l != "" {
		layout = l
	}

	categories, err := normalizeCategories(meta["categories"], sourcePath)
	if err != nil {
		return nil, err
	}

	slug := Slugify(slugFragment)
	if slug == "" {
		return nil, &ValidationError{Field: "slug", Source: sourcePath, Reason: "filename yields an empty slug"}
	}

	return &Post{
		Slug:        slug,
		Title:       title,
		PublishedAt: publishedAt,
		Categories:  categories,
		Layout:      layout,
		SourcePath:  sourcePath,
		BodySource:  body,
	}, nil
}

// resolveDate prefers the front matter `date`, falling back to the filename
// date prefix. A post with neither fails validation.
func resolveDate(meta map[string]any, datePrefix, sourcePath string) (time.Time, error) {
	switch v := meta["date"].(type) {
	case time.Time:
		return v, nil
	case string:
		trimmed := strings.TrimSpace(v)
		for _, layout := range dateFormats {
			if t, err := time.Parse(layout, trimmed); err == nil {
				return t, nil
			}
		}
		return time.Time{}, &ValidationError{Field: "date", Source: sourcePath, Reason: fmt.Sprintf("unparseable date %q", v)}
	case nil:
		// fall through to the filename prefix
	default:
		return time.Time{}, &ValidationError{Field: "date", Source: sourcePath, Reason: fmt.Sprintf("unsupported date value of type %T", v)}
	}

	if datePrefix != "" {
		if t, err := time.Parse("2006-01-02", datePrefix); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ValidationError{Field: "date", Source: sourcePath}
}

// normalizeCategories accepts either a space-separated string or a YAML list
// and produces a set of slugified category names. Category names become path
// segments under categories/, so they go through the same folding as post
// slugs; a name that slugs to nothing (e.g. "..") fails validation instead of
// escaping the output tree.
func normalizeCategories(v any, sourcePath string) (sets.Set[string], error) {
	out := sets.New[string]()
	switch vv := v.(type) {
	case nil:
		return out, nil
	case string:
		for _, c := range strings.Fields(vv) {
			if err := addCategory(out, c, sourcePath); err != nil {
				return nil, err
			}
		}
		return out, nil
	case []any:
		for _, item := range vv {
			s, ok := item.(string)
			if !ok {
				return nil, &ValidationError{Field: "categories", Source: sourcePath, Reason: fmt.Sprintf("list entry of type %T", item)}
			}
			if err := addCategory(out, s, sourcePath); err != nil {
				return nil, err
			}
		}
		return out, nil
	case []string:
		for _, s := range vv {
			if err := addCategory(out, s, sourcePath); err != nil {
				return nil, err
			}
		}
		return out, nil
	default:
		return nil, &ValidationError{Field: "categories", Source: sourcePath, Reason: fmt.Sprintf("unsupported value of type %T", v)}
	}
}

func addCategory(out sets.Set[string], raw, sourcePath string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	slug := Slugify(trimmed)
	if slug == "" {
		return &ValidationError{Field: "categories", Source: sourcePath, Reason: fmt.Sprintf("category %q yields an empty slug", trimmed)}
	}
	out.Add(slug)
	return nil
}

func stringField(meta map[string]any, key string) (string, bool) {
	v, ok := meta[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}
