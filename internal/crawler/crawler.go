// Package crawler walks a site breadth-first from a seed URL and streams
// every in-filter page it fetches.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/go-scripts/topmovies/internal/extract"
	"github.com/go-scripts/topmovies/internal/fetch"
	"github.com/go-scripts/topmovies/internal/filter"
	"github.com/go-scripts/topmovies/internal/queue"
)

// Target describes one bounded crawl
type Target struct {
	SeedURL  string
	MaxDepth int
	MaxPages int
	// Include holds glob patterns a URL must match to be crawled and emitted.
	// The seed is always fetched for its links.
	Include     []string
	PageTimeout time.Duration
	// TrackingParams are query key prefixes stripped before deduplication.
	TrackingParams []string
}

// Validate checks the bounds of t
func (t Target) Validate() error {
	switch {
	case t.SeedURL == "":
		return errors.New("seed URL is required")
	case t.MaxDepth < 0:
		return fmt.Errorf("max depth must not be negative, got %d", t.MaxDepth)
	case t.MaxPages < 1:
		return fmt.Errorf("max pages must be at least 1, got %d", t.MaxPages)
	case t.PageTimeout < 0:
		return fmt.Errorf("page timeout must not be negative, got %s", t.PageTimeout)
	}
	return nil
}

// Result is one fetched page, or the reason it could not be fetched
type Result struct {
	URL   string
	Depth int
	Doc   *extract.Document
	Err   error
}

// Success reports whether the page was fetched and parsed
func (r Result) Success() bool {
	return r.Err == nil && r.Doc != nil
}

// RobotsChecker decides whether a URL may be fetched
type RobotsChecker interface {
	Allowed(ctx context.Context, url string) (bool, error)
}

// ErrRobotsDisallowed is returned by Stream when robots.txt forbids the seed
var ErrRobotsDisallowed = errors.New("seed URL disallowed by robots.txt")

// Crawler drives a Fetcher over a Target
type Crawler struct {
	fetcher     fetch.Fetcher
	concurrency int
	limiter     *rate.Limiter
	robots      RobotsChecker
	logger      *log.Logger
}

// Option configures a Crawler
type Option func(*Crawler)

// WithConcurrency bounds the number of pages fetched at once
func WithConcurrency(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithRateLimit spaces out fetches across all workers
func WithRateLimit(l *rate.Limiter) Option {
	return func(c *Crawler) { c.limiter = l }
}

// WithRobots skips URLs the checker disallows
func WithRobots(r RobotsChecker) Option {
	return func(c *Crawler) { c.robots = r }
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(c *Crawler) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Crawler
func New(f fetch.Fetcher, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:     f,
		concurrency: 5,
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stream starts the crawl and returns a channel of results. The channel is
// closed when the walk is exhausted, the page budget is spent, or ctx ends.
// Errors returned here are run-level: nothing was fetched.
func (c *Crawler) Stream(ctx context.Context, t Target) (<-chan Result, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	f, err := filter.New(t.SeedURL, t.Include)
	if err != nil {
		return nil, err
	}
	seed, err := filter.Normalize(t.SeedURL, t.SeedURL, t.TrackingParams)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL %q: %w", t.SeedURL, err)
	}

	if c.robots != nil {
		ok, err := c.robots.Allowed(ctx, seed)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrRobotsDisallowed
		}
	}

	out := make(chan Result)
	w := &walk{
		Crawler: c,
		target:  t,
		filter:  f,
		queue:   queue.New(),
		out:     out,
	}
	w.queue.Add(queue.Entry{URL: seed, Depth: 0})

	go w.run(ctx)
	return out, nil
}

// walk holds the state of a single Stream call
type walk struct {
	*Crawler
	target Target
	filter *filter.URLFilter
	queue  *queue.Queue
	out    chan<- Result

	dispatched int
}

func (w *walk) run(ctx context.Context) {
	defer close(w.out)

	for depth := 0; depth <= w.target.MaxDepth; depth++ {
		level := w.queue.Drain()
		if len(level) == 0 {
			break
		}
		w.logger.Debug("Crawling level", "depth", depth, "urls", len(level))

		if !w.dispatch(ctx, level) {
			return
		}
	}
	w.logger.Debug("Crawl finished", "dispatched", w.dispatched, "seen", w.queue.SeenCount())
}

// dispatch fetches one level with bounded concurrency and waits for it.
// It returns false once ctx is done.
func (w *walk) dispatch(ctx context.Context, level []queue.Entry) bool {
	sem := semaphore.NewWeighted(int64(w.concurrency))
	var wg sync.WaitGroup
	defer wg.Wait()

	for _, e := range level {
		emit := w.filter.Match(e.URL)
		if emit && w.dispatched >= w.target.MaxPages {
			w.logger.Debug("Page budget spent, skipping", "url", e.URL)
			continue
		}

		if e.Depth > 0 && w.robots != nil {
			ok, err := w.robots.Allowed(ctx, e.URL)
			if err != nil || !ok {
				w.logger.Debug("Disallowed by robots.txt", "url", e.URL)
				continue
			}
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			return false
		}
		if emit {
			w.dispatched++
		}

		wg.Add(1)
		go func(e queue.Entry, emit bool) {
			defer wg.Done()
			defer sem.Release(1)
			w.visit(ctx, e, emit)
		}(e, emit)
	}
	return ctx.Err() == nil
}

// visit fetches e, enqueues its eligible links and emits the result.
// Failures are always emitted for the seed so a dead seed is visible.
func (w *walk) visit(ctx context.Context, e queue.Entry, emit bool) {
	fail := func(err error) {
		w.logger.Warn("Error crawling page", "url", e.URL, "err", err)
		if emit || e.Depth == 0 {
			w.send(ctx, Result{URL: e.URL, Depth: e.Depth, Err: err})
		}
	}

	if w.limiter != nil {
		if err := w.limiter.Wait(ctx); err != nil {
			fail(err)
			return
		}
	}

	pageCtx, cancel := ctx, context.CancelFunc(func() {})
	if w.target.PageTimeout > 0 {
		pageCtx, cancel = context.WithTimeout(ctx, w.target.PageTimeout)
	}
	defer cancel()

	w.logger.Debug("Fetching", "url", e.URL, "depth", e.Depth)
	page, err := w.fetcher.Fetch(pageCtx, e.URL)
	if err != nil {
		fail(err)
		return
	}

	doc, err := extract.ParseString(page.HTML, page.URL)
	if err != nil {
		fail(fmt.Errorf("error parsing %s: %w", e.URL, err))
		return
	}

	if e.Depth < w.target.MaxDepth {
		w.enqueueLinks(page.URL, doc, e.Depth+1)
	}

	if emit {
		w.send(ctx, Result{URL: e.URL, Depth: e.Depth, Doc: doc})
	}
}

func (w *walk) enqueueLinks(base string, doc *extract.Document, depth int) {
	added := 0
	for _, href := range doc.Links() {
		link, err := filter.Normalize(base, href, w.target.TrackingParams)
		if err != nil || !w.filter.Allow(link) {
			continue
		}
		if w.queue.Add(queue.Entry{URL: link, Depth: depth}) {
			added++
		}
	}
	w.logger.Debug("Discovered links", "url", base, "new", added)
}

func (w *walk) send(ctx context.Context, r Result) {
	select {
	case w.out <- r:
	case <-ctx.Done():
	}
}
