// Package app wires the crawler, consumer and sinks into one run.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/go-scripts/topmovies/internal/config"
	"github.com/go-scripts/topmovies/internal/consumer"
	"github.com/go-scripts/topmovies/internal/crawler"
	"github.com/go-scripts/topmovies/internal/export"
	"github.com/go-scripts/topmovies/internal/fetch"
	"github.com/go-scripts/topmovies/internal/graph"
	"github.com/go-scripts/topmovies/internal/movie"
	"github.com/go-scripts/topmovies/internal/progress"
	"github.com/go-scripts/topmovies/internal/render"
	"github.com/go-scripts/topmovies/internal/robots"
	"github.com/go-scripts/topmovies/internal/types"
)

// App is one configured run
type App struct {
	Target   crawler.Target
	Fetcher  fetch.Fetcher
	Crawler  *crawler.Crawler
	Consumer *consumer.Consumer
	Printer  *render.Printer
	Sink     export.Sink
	Out      io.Writer
	Table    bool
	Logger   *log.Logger
}

// New builds an App from parsed flags. Errors here are configuration
// errors: an output directory that cannot be created or an unreachable graph.
func New(ctx context.Context, cli *config.CLI, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.Default()
	}
	out := io.Writer(os.Stdout)
	target := cli.Target()

	ua := fetch.NewUserAgents(cli.UserAgent)
	var fetcher fetch.Fetcher
	switch cli.Fetcher {
	case "static":
		fetcher = fetch.NewStatic(ua)
	default:
		fetcher = fetch.NewBrowser(fetch.BrowserOptions{
			Headless:   cli.Headless,
			UserAgents: ua,
			ExecPath:   cli.ChromePath,
			Logger:     logger,
		})
	}

	opts := []crawler.Option{
		crawler.WithConcurrency(cli.Concurrency),
		crawler.WithLogger(logger),
	}
	if cli.Rate > 0 {
		opts = append(opts, crawler.WithRateLimit(rate.NewLimiter(rate.Limit(cli.Rate), 1)))
	}
	if cli.RespectRobots {
		agent := cli.UserAgent
		if agent == "" {
			agent = "topmovies"
		}
		opts = append(opts, crawler.WithRobots(robots.New(nil, agent, logger)))
	}

	sinks, err := buildSinks(ctx, cli, logger)
	if err != nil {
		return nil, err
	}

	var trackerOut io.Writer = os.Stderr
	if cli.NoProgress {
		trackerOut = nil
	}

	printer := render.New(out)
	var sink export.Sink
	if len(sinks) > 0 {
		sink = sinks
	}

	return &App{
		Target:  target,
		Fetcher: fetcher,
		Crawler: crawler.New(fetcher, opts...),
		Consumer: consumer.New(movie.NewExtractor(movie.DefaultSelectors()),
			consumer.WithOutput(out),
			consumer.WithPrinter(printer),
			consumer.WithSink(sink),
			consumer.WithDelay(cli.Delay),
			consumer.WithTracker(progress.New(trackerOut, target.MaxPages)),
			consumer.WithLogger(logger),
		),
		Printer: printer,
		Sink:    sink,
		Out:     out,
		Table:   cli.Table,
		Logger:  logger,
	}, nil
}

func buildSinks(ctx context.Context, cli *config.CLI, logger *log.Logger) (export.Multi, error) {
	var sinks export.Multi
	if cli.OutputDir != "" {
		w, err := export.NewFileWriter(cli.OutputDir)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, w)
	}
	if cli.CSV != "" {
		sinks = append(sinks, export.NewCSVWriter(cli.CSV))
	}
	if cli.Neo4jURI != "" {
		store, err := graph.Open(ctx, cli.Neo4jURI, cli.Neo4jUser, cli.Neo4jPassword)
		if err != nil {
			return nil, err
		}
		if err := store.SetupSchema(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		logger.Debug("Connected to neo4j", "uri", cli.Neo4jURI)
		sinks = append(sinks, store)
	}
	return sinks, nil
}

// Run crawls and processes movies, printing each as it arrives, and returns
// everything kept. Failures of the crawl itself are logged and end the run
// early with whatever was collected.
func (a *App) Run(ctx context.Context) types.ResultSet {
	if a.Logger == nil {
		a.Logger = log.Default()
	}
	if err := a.Printer.Banner(a.Out); err != nil {
		a.Logger.Warn("Error printing banner", "err", err)
	}

	movies, err := a.crawl(ctx)
	if err != nil {
		a.Logger.Error("Crawler error", "err", err)
	}

	if a.Sink != nil {
		// sinks still flush after cancellation
		if err := a.Sink.Close(context.WithoutCancel(ctx)); err != nil {
			a.Logger.Error("Error closing outputs", "err", err)
		}
	}

	if err := a.Printer.Summary(a.Out, len(movies)); err != nil {
		a.Logger.Warn("Error printing summary", "err", err)
	}
	if a.Table && len(movies) > 0 {
		render.Table(a.Out, movies)
	}
	return movies
}

func (a *App) crawl(ctx context.Context) (types.ResultSet, error) {
	if l, ok := a.Fetcher.(fetch.Launcher); ok {
		if err := l.Start(ctx); err != nil {
			return types.ResultSet{}, err
		}
		defer l.Close()
	}

	results, err := a.Crawler.Stream(ctx, a.Target)
	if err != nil {
		return types.ResultSet{}, fmt.Errorf("error starting crawl: %w", err)
	}

	movies := a.Consumer.Consume(ctx, results)
	if err := ctx.Err(); err != nil {
		return movies, fmt.Errorf("crawl interrupted: %w", err)
	}
	return movies, nil
}
