// Package config defines the command line. Every default reproduces the
// IMDb Top 250 crawl, so running without flags is the standard run.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/go-scripts/topmovies/internal/crawler"
	"github.com/go-scripts/topmovies/internal/filter"
)

const (
	DefaultSeedURL = "https://www.imdb.com/chart/top/"
	DefaultInclude = "*/title/*"
)

// CLI flags structure
type CLI struct {
	URL         string        `help:"Seed URL for the crawler" default:"https://www.imdb.com/chart/top/" short:"u" env:"TOPMOVIES_URL"`
	MaxDepth    int           `help:"Maximum crawl depth" default:"1" short:"d" env:"TOPMOVIES_MAX_DEPTH"`
	MaxPages    int           `help:"Maximum number of movie pages to fetch" default:"50" short:"n" env:"TOPMOVIES_MAX_PAGES"`
	Include     []string      `help:"Glob patterns a URL must match to be crawled" default:"*/title/*" env:"TOPMOVIES_INCLUDE"`
	PageTimeout time.Duration `help:"Timeout for a single page" default:"60s" env:"TOPMOVIES_PAGE_TIMEOUT"`
	Delay       time.Duration `help:"Pause after each processed movie" default:"2s" env:"TOPMOVIES_DELAY"`
	Concurrency int           `help:"Number of pages fetched at once" default:"5" short:"c" env:"TOPMOVIES_CONCURRENCY"`
	Rate        float64       `help:"Maximum requests per second, 0 for unlimited" default:"0" env:"TOPMOVIES_RATE"`

	RespectRobots bool   `help:"Skip URLs disallowed by robots.txt" env:"TOPMOVIES_RESPECT_ROBOTS"`
	Fetcher       string `help:"How pages are loaded" enum:"browser,static" default:"browser" env:"TOPMOVIES_FETCHER"`
	Headless      bool   `help:"Run the browser without a window" default:"true" negatable:""`
	ChromePath    string `help:"Path to the Chrome binary" env:"CHROME_PATH"`
	UserAgent     string `help:"Fixed user agent, empty to rotate" env:"TOPMOVIES_USER_AGENT"`

	OutputDir string `help:"Directory for per-movie JSON files and movies.json" short:"o" env:"TOPMOVIES_OUTPUT_DIR"`
	CSV       string `help:"Write all movies to this CSV file" name:"csv" env:"TOPMOVIES_CSV"`
	Table     bool   `help:"Print a summary table at the end"`

	Neo4jURI      string `help:"Store movies and cast in Neo4j at this URI" name:"neo4j-uri" env:"NEO4J_URI"`
	Neo4jUser     string `help:"Neo4j user" name:"neo4j-user" default:"neo4j" env:"NEO4J_USER"`
	Neo4jPassword string `help:"Neo4j password" name:"neo4j-password" env:"NEO4J_PASSWORD"`

	LogLevel   string `help:"Log level" enum:"debug,info,warn,error" default:"info" env:"TOPMOVIES_LOG_LEVEL"`
	Verbose    bool   `help:"Shorthand for --log-level=debug" short:"v"`
	NoProgress bool   `help:"Disable the progress spinner"`
}

// Validate is called by kong after parsing
func (c *CLI) Validate() error {
	var errs []error
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("--max-depth must not be negative, got %d", c.MaxDepth))
	}
	if c.MaxPages < 1 {
		errs = append(errs, fmt.Errorf("--max-pages must be at least 1, got %d", c.MaxPages))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("--concurrency must be at least 1, got %d", c.Concurrency))
	}
	if c.PageTimeout < 0 || c.Delay < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if c.Rate < 0 {
		errs = append(errs, fmt.Errorf("--rate must not be negative, got %g", c.Rate))
	}
	if _, err := filter.New(c.URL, c.Include); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Target builds the crawl target from the flags
func (c *CLI) Target() crawler.Target {
	return crawler.Target{
		SeedURL:        c.URL,
		MaxDepth:       c.MaxDepth,
		MaxPages:       c.MaxPages,
		Include:        c.Include,
		PageTimeout:    c.PageTimeout,
		TrackingParams: filter.DefaultTrackingParams,
	}
}

// Level returns the log level, with --verbose winning
func (c *CLI) Level() log.Level {
	if c.Verbose {
		return log.DebugLevel
	}
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
