// Package site runs the build pipeline: discover post sources, parse and
// render them in parallel, index the collection, apply layouts, and emit the
// output tree with an atomic swap.
package site

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/collection"
	apperrors "git.home.luguber.info/inful/blogbuilder/internal/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
	"git.home.luguber.info/inful/blogbuilder/internal/layouts"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
)

// Stage names, used for logging and metrics labels.
const (
	StageLayouts  = "layouts"
	StageDiscover = "discover"
	StagePosts    = "posts"
	StageIndex    = "index"
	StageRender   = "render"
	StageEmit     = "emit"
)

// Result summarizes a completed build.
type Result struct {
	BuildID  string
	Posts    int
	SiteHash string
	Duration time.Duration
}

// Generator runs builds. It is safe to reuse across builds; all per-build
// state lives in the BuildContext and stage-local values.
type Generator struct {
	renderer *markdown.Renderer
	recorder metrics.Recorder
}

// NewGenerator creates a Generator. A nil recorder disables metrics.
func NewGenerator(recorder metrics.Recorder) *Generator {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Generator{
		renderer: markdown.NewRenderer(),
		recorder: recorder,
	}
}

// Build runs one full build. The first fatal error aborts remaining work; on
// success the output directory has been atomically replaced.
func (g *Generator) Build(ctx context.Context, bctx *BuildContext) (*Result, error) {
	buildStart := time.Now()
	cfg := bctx.Config

	slog.Info("Starting site build",
		logfields.BuildID(bctx.BuildID),
		logfields.Path(bctx.ContentDir),
		slog.String("output", cfg.Output.Directory))

	// Layouts load eagerly so an unresolvable layout name surfaces before
	// any rendering starts.
	registry, err := timedStage(g, StageLayouts, func() (*layouts.Registry, error) {
		return layouts.Load(filepath.Join(bctx.ContentDir, cfg.Content.LayoutsDir))
	})
	if err != nil {
		return nil, g.fail(apperrors.StageFailed(StageLayouts, err))
	}

	sources, err := timedStage(g, StageDiscover, func() ([]SourceFile, error) {
		return discoverPosts(filepath.Join(bctx.ContentDir, cfg.Content.PostsDir))
	})
	if err != nil {
		return nil, g.fail(apperrors.StageFailed(StageDiscover, err))
	}
	if len(sources) == 0 {
		slog.Warn("No posts found", logfields.Path(filepath.Join(bctx.ContentDir, cfg.Content.PostsDir)))
	}

	posts, err := timedStage(g, StagePosts, func() ([]*post.Post, error) {
		return g.buildPosts(ctx, sources, cfg.Build.Workers)
	})
	if err != nil {
		return nil, g.fail(err)
	}

	coll, err := timedStage(g, StageIndex, func() (*collection.Collection, error) {
		return collection.Index(posts)
	})
	if err != nil {
		return nil, g.fail(apperrors.StageFailed(StageIndex, err))
	}

	// Every post's layout must resolve before a single page renders.
	for _, p := range coll.All {
		if !registry.Has(p.Layout) {
			return nil, g.fail(apperrors.StageFailed(StageRender, &layouts.UnknownLayoutError{Name: p.Layout}))
		}
	}

	pages, err := timedStage(g, StageRender, func() ([]Page, error) {
		return renderPages(bctx, registry, coll)
	})
	if err != nil {
		return nil, g.fail(apperrors.StageFailed(StageRender, err))
	}

	siteHash, err := timedStage(g, StageEmit, func() (string, error) {
		staticDir := filepath.Join(bctx.ContentDir, cfg.Content.StaticDir)
		return emit(bctx.BuildID, cfg.Output.Directory, staticDir, pages)
	})
	if err != nil {
		return nil, g.fail(apperrors.EmitFailed(cfg.Output.Directory, err))
	}

	duration := time.Since(buildStart)
	g.recorder.ObserveBuildDuration(duration)
	g.recorder.IncBuildOutcome("success")
	g.recorder.SetPostsRendered(len(coll.All))

	slog.Info("Site build finished",
		logfields.BuildID(bctx.BuildID),
		logfields.Posts(len(coll.All)),
		logfields.DurationMS(float64(duration.Milliseconds())))

	return &Result{
		BuildID:  bctx.BuildID,
		Posts:    len(coll.All),
		SiteHash: siteHash,
		Duration: duration,
	}, nil
}

// buildPosts parses, validates and renders all sources with a bounded worker
// pool. Posts have no cross-dependencies until indexing, so the only
// coordination is fail-fast cancellation on the first error.
func (g *Generator) buildPosts(ctx context.Context, sources []SourceFile, workers int) ([]*post.Post, error) {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(sources) {
		workers = len(sources)
	}
	if len(sources) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	results := make([]*post.Post, len(sources))

	var wg sync.WaitGroup
	var errOnce sync.Once
	var firstErr error

	abort := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				p, err := g.buildPost(sources[i])
				if err != nil {
					abort(err)
					return
				}
				results[i] = p
			}
		}()
	}

feed:
	for i := range sources {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]*post.Post, 0, len(results))
	for _, p := range results {
		if p != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

// buildPost runs the per-document path: split front matter, build the model,
// render the body once, derive the excerpt.
func (g *Generator) buildPost(src SourceFile) (*post.Post, error) {
	raw, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, apperrors.ContentReadError(src.Path, err)
	}

	meta, body, _, _, err := frontmatter.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Path, err)
	}

	fields, err := frontmatter.ParseYAML(meta)
	if err != nil {
		return nil, fmt.Errorf("%s: parse front matter: %w", src.Path, err)
	}

	p, err := post.Build(src.Name, src.Path, fields, body)
	if err != nil {
		return nil, err
	}

	html, err := g.renderer.Render(p.BodySource)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Path, err)
	}

	excerpt, ok := markdown.ExplicitExcerpt(p.BodySource)
	if !ok {
		excerpt = markdown.FirstParagraph(html)
	}
	p.SetBodyHTML(html, excerpt)

	slog.Debug("Post built", logfields.Slug(p.Slug), logfields.Layout(p.Layout))
	return p, nil
}

func (g *Generator) fail(err error) error {
	g.recorder.IncBuildOutcome("failed")
	return err
}

// timedStage runs fn and records its duration under the stage label.
func timedStage[T any](g *Generator, stage string, fn func() (T, error)) (T, error) {
	start := time.Now()
	out, err := fn()
	d := time.Since(start)
	g.recorder.ObserveStageDuration(stage, d)
	slog.Debug("Stage finished", logfields.Stage(stage), logfields.DurationMS(float64(d.Milliseconds())), logfields.Error(err))
	return out, err
}
