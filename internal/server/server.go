// Package server implements the serve daemon: it serves the built site over
// HTTP, watches content for changes, rebuilds with debouncing, broadcasts
// livereload events, and exposes health, status and Prometheus metrics
// endpoints.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	apperrors "git.home.luguber.info/inful/blogbuilder/internal/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/events"
	"git.home.luguber.info/inful/blogbuilder/internal/history"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
)

// Server runs the serve daemon for one configuration.
type Server struct {
	cfg      *config.Config
	gen      *site.Generator
	hub      *LiveReloadHub
	status   *buildStatus
	recorder metrics.Recorder
	promReg  *prom.Registry

	hist *history.Store    // nil when history is disabled
	pub  *events.Publisher // nil when events are disabled

	contentDir string

	rebuildMu      sync.Mutex
	rebuildRunning bool
	rebuildPending bool
	rebuildCh      chan string
}

// New assembles a serve daemon from configuration. Optional subsystems
// (history, events) degrade to disabled with a warning rather than failing
// startup.
func New(cfg *config.Config) *Server {
	promReg := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(promReg)

	s := &Server{
		cfg:       cfg,
		gen:       site.NewGenerator(recorder),
		hub:       NewLiveReloadHub(),
		status:    &buildStatus{},
		recorder:  recorder,
		promReg:   promReg,
		rebuildCh: make(chan string, 1),
	}

	if cfg.History.Enabled {
		hist, err := history.Open(cfg.History.Path)
		if err != nil {
			slog.Warn("Build history disabled", logfields.Error(err))
		} else {
			s.hist = hist
		}
	}

	if cfg.Events.Enabled {
		pub, err := events.NewPublisher(&cfg.Events)
		if err != nil {
			slog.Warn("Event publishing disabled", logfields.Error(err))
		} else {
			s.pub = pub
		}
	}

	return s
}

// Run builds the site, starts the HTTP server and the change watcher, and
// blocks until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	contentDir, err := site.ResolveContentDir(s.cfg)
	if err != nil {
		return err
	}
	s.contentDir = contentDir

	// Initial build. A failing initial build does not abort serve: the
	// daemon starts, reports the error on /status, and rebuilds on change.
	s.runBuild(ctx)

	watcher, err := newWatcher(contentDir,
		filepath.Join(contentDir, s.cfg.Content.PostsDir),
		filepath.Join(contentDir, s.cfg.Content.LayoutsDir),
		filepath.Join(contentDir, s.cfg.Content.StaticDir),
	)
	if err != nil {
		return apperrors.ServerError(fmt.Errorf("filesystem watcher: %w", err))
	}
	defer func() { _ = watcher.Close() }()

	deb := newDebouncer()
	go runWatchLoop(ctx, watcher, deb)
	go s.runRebuildWorker(ctx, deb)

	var scheduler gocron.Scheduler
	if s.cfg.Serve.RebuildInterval > 0 {
		scheduler, err = s.startScheduler()
		if err != nil {
			return err
		}
	}

	httpSrv, err := s.startHTTP(ctx)
	if err != nil {
		return err
	}

	<-ctx.Done()
	slog.Info("Shutting down serve daemon")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.hub.Close()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	if scheduler != nil {
		if err := scheduler.Shutdown(); err != nil {
			slog.Warn("Scheduler shutdown error", logfields.Error(err))
		}
	}
	if s.hist != nil {
		_ = s.hist.Close()
	}
	if s.pub != nil {
		s.pub.Close()
	}
	return nil
}

// startScheduler wires periodic rebuilds, mainly useful when content comes
// from a git repository the watcher cannot see.
func (s *Server) startScheduler() (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, apperrors.ServerError(fmt.Errorf("create scheduler: %w", err))
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(s.cfg.Serve.RebuildInterval),
		gocron.NewTask(func() { s.requestRebuild("schedule") }),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		return nil, apperrors.ServerError(fmt.Errorf("schedule periodic rebuild: %w", err))
	}
	scheduler.Start()
	slog.Info("Periodic rebuilds scheduled", slog.Duration("interval", s.cfg.Serve.RebuildInterval))
	return scheduler, nil
}

func (s *Server) startHTTP(ctx context.Context) (*http.Server, error) {
	mux := http.NewServeMux()
	mux.Handle("/livereload", s.hub)
	mux.Handle("/metrics", promhttp.HandlerFor(s.promReg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/status", s.handleStatus)
	mux.Handle("/", http.FileServer(http.Dir(s.cfg.Output.Directory)))

	addr := fmt.Sprintf(":%d", s.cfg.Serve.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, apperrors.ServerError(fmt.Errorf("listen on %s: %w", addr, err))
	}

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server failed", logfields.Error(err))
		}
	}()

	slog.Info("Serving site", logfields.URL(fmt.Sprintf("http://localhost:%d", s.cfg.Serve.Port)))
	return srv, nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	snap := s.status.snapshot()
	if !snap.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_, _ = fmt.Fprintln(w, "ok")
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.status.snapshot())
}

// requestRebuild queues a rebuild without blocking the caller. Coalescing is
// handled by the rebuild worker.
func (s *Server) requestRebuild(source string) {
	select {
	case s.rebuildCh <- source:
	default:
	}
}

// runRebuildWorker serializes rebuilds: one at a time, with at most one
// pending. A change arriving mid-build triggers exactly one follow-up build.
func (s *Server) runRebuildWorker(ctx context.Context, deb *debouncer) {
	for {
		var source string
		select {
		case <-ctx.Done():
			return
		case <-deb.out:
			source = "watch"
		case source = <-s.rebuildCh:
		}

		s.rebuildMu.Lock()
		if s.rebuildRunning {
			s.rebuildPending = true
			s.rebuildMu.Unlock()
			continue
		}
		s.rebuildRunning = true
		s.rebuildMu.Unlock()

		s.recorder.IncRebuildTrigger(source)
		s.runBuild(ctx)

		s.rebuildMu.Lock()
		s.rebuildRunning = false
		if s.rebuildPending {
			s.rebuildPending = false
			s.rebuildMu.Unlock()
			s.requestRebuild(source)
		} else {
			s.rebuildMu.Unlock()
		}
	}
}

// runBuild executes one build and fans the outcome out to status, livereload,
// history and events.
func (s *Server) runBuild(ctx context.Context) {
	bctx := site.NewBuildContext(s.cfg, s.contentDir, s.cfg.Serve.LiveReloadEnabled())
	started := time.Now()

	result, err := s.gen.Build(ctx, bctx)
	if err != nil {
		slog.Warn("Rebuild failed", logfields.BuildID(bctx.BuildID), logfields.Error(err))
		s.status.setError(err)
		s.recordBuild(ctx, bctx.BuildID, started, history.OutcomeFailed, 0, err)
		s.publishBuild(events.BuildEvent{
			BuildID:    bctx.BuildID,
			Outcome:    string(history.OutcomeFailed),
			Error:      err.Error(),
			FinishedAt: time.Now(),
		})
		return
	}

	s.status.setSuccess(result.BuildID, result.Posts)
	if s.cfg.Serve.LiveReloadEnabled() {
		s.hub.Broadcast(result.SiteHash)
	}
	s.recordBuild(ctx, result.BuildID, started, history.OutcomeSuccess, result.Posts, nil)
	s.publishBuild(events.BuildEvent{
		BuildID:    result.BuildID,
		Outcome:    string(history.OutcomeSuccess),
		Posts:      result.Posts,
		SiteHash:   result.SiteHash,
		FinishedAt: time.Now(),
	})
}

func (s *Server) recordBuild(ctx context.Context, buildID string, started time.Time, outcome history.Outcome, posts int, buildErr error) {
	if s.hist == nil {
		return
	}
	rec := history.Record{
		BuildID:    buildID,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Outcome:    outcome,
		Posts:      posts,
	}
	if buildErr != nil {
		rec.Error = buildErr.Error()
	}
	if err := s.hist.Append(ctx, rec); err != nil {
		slog.Warn("Recording build history failed", logfields.Error(err))
	}
}

func (s *Server) publishBuild(event events.BuildEvent) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(event); err != nil {
		slog.Warn("Publishing build event failed", logfields.Error(err))
	}
}
