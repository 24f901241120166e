package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
)

// TestPipeline_MinimalBlog runs the full pipeline on a minimal blog: one post
// with front matter, default layouts, no static assets. It verifies the output
// tree shape, the rendered post body, and the homepage listing.
func TestPipeline_MinimalBlog(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	content := writeContentTree(t, map[string]string{
		"_posts/2026-01-15-hello-world.md": `---
layout: default
title: "Hello World"
date: 2026-01-15 09:30:00 +0000
categories: general
---
Hi there.
`,
	})

	cfg := config.Default()
	cfg.Site.Title = "Integration Blog"
	cfg.Output.Directory = filepath.Join(content, "public")

	gen := site.NewGenerator(nil)
	result, err := gen.Build(t.Context(), site.NewBuildContext(cfg, content, false))
	require.NoError(t, err)
	require.Equal(t, 1, result.Posts)

	post := readOutput(t, cfg.Output.Directory, "hello-world/index.html")
	require.Contains(t, post, "<p>Hi there.</p>")
	require.Contains(t, post, "Hello World")

	home := readOutput(t, cfg.Output.Directory, "index.html")
	require.Contains(t, home, `href="/hello-world/"`)
	require.Contains(t, home, "Integration Blog")

	category := readOutput(t, cfg.Output.Directory, "categories/general/index.html")
	require.Contains(t, category, "Hello World")
}

// TestPipeline_Determinism rebuilds the same content twice and requires
// byte-identical output.
func TestPipeline_Determinism(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	content := writeContentTree(t, map[string]string{
		"_posts/2026-01-15-hello-world.md": "---\ntitle: Hello World\ndate: 2026-01-15\ncategories: general\n---\nHi there.\n",
		"_posts/2026-03-02-go-modules.md":  "---\ntitle: Go Modules\ndate: 2026-03-02\ncategories: engineering go\n---\nOn module proxies.\n\nMore detail.\n",
		"static/css/main.css":              "body { margin: 0; }\n",
	})

	cfg := config.Default()
	cfg.Site.Title = "Deterministic Blog"
	cfg.Output.Directory = filepath.Join(content, "public")

	gen := site.NewGenerator(nil)

	first, err := gen.Build(t.Context(), site.NewBuildContext(cfg, content, false))
	require.NoError(t, err)
	firstTree := snapshotTree(t, cfg.Output.Directory)

	second, err := gen.Build(t.Context(), site.NewBuildContext(cfg, content, false))
	require.NoError(t, err)
	secondTree := snapshotTree(t, cfg.Output.Directory)

	require.Equal(t, first.SiteHash, second.SiteHash)
	require.Equal(t, firstTree, secondTree)

	// Static assets survived both builds.
	require.Contains(t, firstTree, "css/main.css")
}

// TestPipeline_CategoryPagesGroupPosts verifies multi-category membership and
// reverse-chronological ordering on listing pages.
func TestPipeline_CategoryPagesGroupPosts(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	content := writeContentTree(t, map[string]string{
		"_posts/2026-01-01-older.md": "---\ntitle: Older Post\ndate: 2026-01-01\ncategories: go\n---\nOld.\n",
		"_posts/2026-02-01-newer.md": "---\ntitle: Newer Post\ndate: 2026-02-01\ncategories: go rust\n---\nNew.\n",
	})

	cfg := config.Default()
	cfg.Output.Directory = filepath.Join(content, "public")

	gen := site.NewGenerator(nil)
	_, err := gen.Build(t.Context(), site.NewBuildContext(cfg, content, false))
	require.NoError(t, err)

	goPage := readOutput(t, cfg.Output.Directory, "categories/go/index.html")
	require.Contains(t, goPage, "Older Post")
	require.Contains(t, goPage, "Newer Post")
	// Newest first.
	require.Less(t, indexOf(goPage, "Newer Post"), indexOf(goPage, "Older Post"))

	rustPage := readOutput(t, cfg.Output.Directory, "categories/rust/index.html")
	require.Contains(t, rustPage, "Newer Post")
	require.NotContains(t, rustPage, "Older Post")
}

// TestPipeline_DuplicateSlugAborts verifies that a slug collision fails the
// whole build and leaves no output behind.
func TestPipeline_DuplicateSlugAborts(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	content := writeContentTree(t, map[string]string{
		"_posts/2026-01-01-release-notes.md": "---\ntitle: January Notes\ndate: 2026-01-01\n---\nJan.\n",
		"_posts/2026-02-01-release-notes.md": "---\ntitle: February Notes\ndate: 2026-02-01\n---\nFeb.\n",
	})

	cfg := config.Default()
	cfg.Output.Directory = filepath.Join(content, "public")

	gen := site.NewGenerator(nil)
	_, err := gen.Build(t.Context(), site.NewBuildContext(cfg, content, false))
	require.Error(t, err)
	require.Contains(t, err.Error(), "release-notes")

	_, statErr := os.Stat(cfg.Output.Directory)
	require.True(t, os.IsNotExist(statErr))
}

// TestPipeline_FailedRebuildKeepsPreviousOutput simulates the serve daemon's
// guarantee: a build that fails after a good one leaves the good output intact.
func TestPipeline_FailedRebuildKeepsPreviousOutput(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	content := writeContentTree(t, map[string]string{
		"_posts/2026-01-15-hello-world.md": "---\ntitle: Hello World\ndate: 2026-01-15\n---\nHi there.\n",
	})

	cfg := config.Default()
	cfg.Output.Directory = filepath.Join(content, "public")

	gen := site.NewGenerator(nil)
	_, err := gen.Build(t.Context(), site.NewBuildContext(cfg, content, false))
	require.NoError(t, err)

	// Break the content: a post naming a layout nobody provides.
	broken := filepath.Join(content, "_posts", "2026-02-01-broken.md")
	require.NoError(t, os.WriteFile(broken, []byte("---\ntitle: Broken\ndate: 2026-02-01\nlayout: missing\n---\nNope.\n"), 0o644))

	_, err = gen.Build(t.Context(), site.NewBuildContext(cfg, content, false))
	require.Error(t, err)

	// The previous good site is still fully in place.
	post := readOutput(t, cfg.Output.Directory, "hello-world/index.html")
	require.Contains(t, post, "<p>Hi there.</p>")
}
