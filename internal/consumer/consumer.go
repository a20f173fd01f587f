// Package consumer turns the crawl stream into movies, one page at a time.
package consumer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/go-scripts/topmovies/internal/crawler"
	"github.com/go-scripts/topmovies/internal/export"
	"github.com/go-scripts/topmovies/internal/extract"
	"github.com/go-scripts/topmovies/internal/progress"
	"github.com/go-scripts/topmovies/internal/render"
	"github.com/go-scripts/topmovies/internal/types"
)

// DefaultDelay is the pause after each successful page
const DefaultDelay = 2 * time.Second

// Extractor builds a movie from a parsed page
type Extractor interface {
	Extract(doc *extract.Document) (types.ExtractedMovie, error)
}

// Consumer processes results sequentially. Its ResultSet is only touched by
// the goroutine running Consume.
type Consumer struct {
	extractor Extractor
	out       io.Writer
	printer   *render.Printer
	sink      export.Sink
	delay     time.Duration
	tracker   *progress.Tracker
	logger    *log.Logger
}

// Option configures a Consumer
type Option func(*Consumer)

// WithOutput sets where movie blocks are printed
func WithOutput(w io.Writer) Option {
	return func(c *Consumer) { c.out = w }
}

func WithPrinter(p *render.Printer) Option {
	return func(c *Consumer) { c.printer = p }
}

// WithSink receives every kept movie
func WithSink(s export.Sink) Option {
	return func(c *Consumer) { c.sink = s }
}

// WithDelay overrides DefaultDelay. Zero disables the pause.
func WithDelay(d time.Duration) Option {
	return func(c *Consumer) { c.delay = d }
}

func WithTracker(t *progress.Tracker) Option {
	return func(c *Consumer) { c.tracker = t }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Consumer) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Consumer
func New(e Extractor, opts ...Option) *Consumer {
	c := &Consumer{
		extractor: e,
		out:       os.Stdout,
		delay:     DefaultDelay,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.printer == nil {
		c.printer = render.New(c.out)
	}
	if c.tracker == nil {
		c.tracker = progress.New(nil, 0)
	}
	return c
}

// Consume reads results until the stream closes or ctx is done and returns
// the movies kept, in the order they were processed.
func (c *Consumer) Consume(ctx context.Context, results <-chan crawler.Result) types.ResultSet {
	movies := types.ResultSet{}
	defer c.tracker.Pause()

	for {
		c.tracker.Wait()
		var (
			r  crawler.Result
			ok bool
		)
		select {
		case r, ok = <-results:
		case <-ctx.Done():
			return movies
		}
		c.tracker.Pause()
		if !ok {
			return movies
		}

		if !r.Success() {
			c.logger.Warn("Skipping failed page", "url", r.URL, "err", r.Err)
			continue
		}

		movie, block, err := c.process(r)
		if err != nil {
			c.logger.Error("Error extracting data", "url", r.URL, "err", err)
		} else {
			movies = append(movies, movie)
			c.tracker.Increment()
			if _, err := c.out.Write(block); err != nil {
				c.logger.Warn("Error printing movie", "url", r.URL, "err", err)
			}
			if c.sink != nil {
				if err := c.sink.Write(ctx, movie); err != nil {
					c.logger.Warn("Error saving movie", "url", r.URL, "err", err)
				}
			}
		}

		if !c.sleep(ctx) {
			return movies
		}
	}
}

// process extracts and renders one page. A panic is turned into an error so
// one bad page cannot end the run.
func (c *Consumer) process(r crawler.Result) (movie types.ExtractedMovie, block []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	movie, err = c.extractor.Extract(r.Doc)
	if err != nil {
		return movie, nil, err
	}
	if movie.URL == "" {
		movie.URL = r.URL
	}

	var buf bytes.Buffer
	if err := c.printer.Movie(&buf, movie); err != nil {
		return movie, nil, err
	}
	return movie, buf.Bytes(), nil
}

func (c *Consumer) sleep(ctx context.Context) bool {
	if c.delay <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(c.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
