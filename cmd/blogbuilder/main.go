package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/history"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/server"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
	"git.home.luguber.info/inful/blogbuilder/internal/version"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `help:"Print version and exit"`

	Build struct {
		Output string `short:"o" help:"Output directory override"`
	} `cmd:"" help:"Build the site from configured content"`

	Serve struct {
		Port int `short:"p" help:"HTTP port override"`
	} `cmd:"" help:"Build and serve the site with change-triggered rebuilds"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file and sample post"`

	Builds struct {
		Limit int `short:"n" help:"Number of builds to list" default:"20"`
	} `cmd:"" help:"List recent builds from the history store"`
}

func main() {
	ctx := kong.Parse(&CLI, kong.Vars{"version": version.Version})

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	var err error
	switch ctx.Command() {
	case "build":
		err = runBuild()
	case "serve":
		err = runServe()
	case "init":
		err = config.Init(CLI.Config, CLI.Init.Force)
	case "builds":
		err = runBuilds()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runBuild() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	if CLI.Build.Output != "" {
		cfg.Output.Directory = CLI.Build.Output
	}

	contentDir, err := site.ResolveContentDir(cfg)
	if err != nil {
		return err
	}

	gen := site.NewGenerator(metrics.NoopRecorder{})
	bctx := site.NewBuildContext(cfg, contentDir, false)

	result, err := gen.Build(context.Background(), bctx)
	if err != nil {
		return err
	}

	recordOneOffBuild(cfg, bctx, result, nil)
	return nil
}

// recordOneOffBuild appends a CLI build to the history store when history is
// enabled. Failures here only warn; the site is already published.
func recordOneOffBuild(cfg *config.Config, bctx *site.BuildContext, result *site.Result, buildErr error) {
	if !cfg.History.Enabled {
		return
	}
	hist, err := history.Open(cfg.History.Path)
	if err != nil {
		slog.Warn("Build history unavailable", logfields.Error(err))
		return
	}
	defer func() { _ = hist.Close() }()

	rec := history.Record{
		BuildID:    bctx.BuildID,
		StartedAt:  bctx.StartedAt,
		FinishedAt: bctx.StartedAt.Add(result.Duration),
		Outcome:    history.OutcomeSuccess,
		Posts:      result.Posts,
	}
	if buildErr != nil {
		rec.Outcome = history.OutcomeFailed
		rec.Error = buildErr.Error()
	}
	if err := hist.Append(context.Background(), rec); err != nil {
		slog.Warn("Recording build history failed", logfields.Error(err))
	}
}

func runServe() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	if CLI.Serve.Port != 0 {
		cfg.Serve.Port = CLI.Serve.Port
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return server.New(cfg).Run(ctx)
}

func runBuilds() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("build history is disabled (set history.enabled in %s)", CLI.Config)
	}

	hist, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = hist.Close() }()

	records, err := hist.Recent(context.Background(), CLI.Builds.Limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BUILD\tSTARTED\tDURATION\tOUTCOME\tPOSTS\tERROR")
	for _, rec := range records {
		fmt.Fprintf(w, "%.8s\t%s\t%s\t%s\t%d\t%s\n",
			rec.BuildID,
			rec.StartedAt.Format("2006-01-02 15:04:05"),
			rec.FinishedAt.Sub(rec.StartedAt).Round(time.Millisecond).String(),
			rec.Outcome,
			rec.Posts,
			rec.Error,
		)
	}
	return w.Flush()
}
