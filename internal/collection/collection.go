// Package collection aggregates posts into the ordered views used by index
// pages: a reverse-chronological list and per-category groupings.
package collection

import (
	"fmt"
	"sort"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/post"
	"git.home.luguber.info/inful/blogbuilder/internal/util/sets"
)

// Collection is an ordered, read-only view over the posts of one build. It
// holds shared references; it never copies or mutates a Post.
type Collection struct {
	// All is sorted by PublishedAt descending, ties broken by slug ascending.
	All []*post.Post

	// ByCategory maps category name to posts in the same order as All.
	ByCategory map[string][]*post.Post
}

// DuplicateSlugError reports two source files that normalize to the same
// slug. Silently overwriting one with the other would publish the wrong post,
// so this is fatal.
type DuplicateSlugError struct {
	Slug    string
	Sources []string
}

func (e *DuplicateSlugError) Error() string {
	return fmt.Sprintf("duplicate slug %q from sources: %s", e.Slug, strings.Join(e.Sources, ", "))
}

// Index builds a Collection from the full set of posts, enforcing slug
// uniqueness. The ordering is a deterministic total order: rebuilding the
// same inputs yields an identical sequence.
func Index(posts []*post.Post) (*Collection, error) {
	bySlug := make(map[string]*post.Post, len(posts))
	for _, p := range posts {
		if prev, exists := bySlug[p.Slug]; exists {
			return nil, &DuplicateSlugError{
				Slug:    p.Slug,
				Sources: []string{prev.SourcePath, p.SourcePath},
			}
		}
		bySlug[p.Slug] = p
	}

	all := make([]*post.Post, len(posts))
	copy(all, posts)
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].PublishedAt.Equal(all[j].PublishedAt) {
			return all[i].PublishedAt.After(all[j].PublishedAt)
		}
		return all[i].Slug < all[j].Slug
	})

	byCategory := make(map[string][]*post.Post)
	for _, p := range all {
		for _, c := range sets.SortedStrings(p.Categories) {
			byCategory[c] = append(byCategory[c], p)
		}
	}

	return &Collection{All: all, ByCategory: byCategory}, nil
}

// Categories returns the category names present in the collection, sorted
// ascending, so category index pages emit in a stable order.
func (c *Collection) Categories() []string {
	names := make([]string, 0, len(c.ByCategory))
	for name := range c.ByCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
