package site

import (
	"html/template"
	"path"

	"git.home.luguber.info/inful/blogbuilder/internal/collection"
	"git.home.luguber.info/inful/blogbuilder/internal/layouts"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
	"git.home.luguber.info/inful/blogbuilder/internal/util/sets"
)

// Page is one output document: a path relative to the output root plus its
// final HTML.
type Page struct {
	OutputPath string
	Content    []byte
}

// renderPages produces every page of the site: one per post, the homepage,
// and one listing per category.
func renderPages(bctx *BuildContext, registry *layouts.Registry, coll *collection.Collection) ([]Page, error) {
	site := layouts.SiteData{
		Title:       bctx.Config.Site.Title,
		Description: bctx.Config.Site.Description,
		BaseURL:     bctx.Config.Site.BaseURL,
		LiveReload:  bctx.LiveReload,
	}
	dateFormat := bctx.Config.Site.DateFormat

	pages := make([]Page, 0, len(coll.All)+1+len(coll.ByCategory))

	for _, p := range coll.All {
		data := layouts.PageData{
			Site:  site,
			Title: p.Title,
			Post:  postData(p, dateFormat),
		}
		html, err := registry.Render(p.Layout, data)
		if err != nil {
			return nil, err
		}
		pages = append(pages, Page{OutputPath: path.Join(p.Slug, "index.html"), Content: html})
	}

	index, err := registry.Render("index", layouts.PageData{
		Site:  site,
		Title: site.Title,
		Posts: postDataList(coll.All, dateFormat),
	})
	if err != nil {
		return nil, err
	}
	pages = append(pages, Page{OutputPath: "index.html", Content: index})

	for _, category := range coll.Categories() {
		html, err := registry.Render("category", layouts.PageData{
			Site:     site,
			Title:    site.Title + " — " + category,
			Posts:    postDataList(coll.ByCategory[category], dateFormat),
			Category: category,
		})
		if err != nil {
			return nil, err
		}
		pages = append(pages, Page{OutputPath: path.Join("categories", category, "index.html"), Content: html})
	}

	return pages, nil
}

func postData(p *post.Post, dateFormat string) *layouts.PostData {
	return &layouts.PostData{
		Title:      p.Title,
		Date:       p.PublishedAt.Format(dateFormat),
		Categories: sets.SortedStrings(p.Categories),
		URL:        p.URLPath(),
		Excerpt:    p.Excerpt(),
		Content:    template.HTML(p.BodyHTML()),
	}
}

func postDataList(posts []*post.Post, dateFormat string) []*layouts.PostData {
	out := make([]*layouts.PostData, 0, len(posts))
	for _, p := range posts {
		out = append(out, postData(p, dateFormat))
	}
	return out
}
