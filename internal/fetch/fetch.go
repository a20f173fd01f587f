// Package fetch loads pages for the crawler, either through a headless
// browser or plain HTTP.
package fetch

import (
	"context"
	"fmt"
)

// Page is a fetched document
type Page struct {
	URL         string
	HTML        string
	StatusCode  int
	ContentType string
}

// Fetcher loads a single URL. Implementations must honor ctx cancellation
// and deadline; the crawler uses the deadline as the per-page timeout.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// Launcher is implemented by fetchers that hold a process (a browser) which
// must be started before the first Fetch and released afterwards.
type Launcher interface {
	Start(ctx context.Context) error
	Close()
}

// StatusError reports a non-2xx response
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.StatusCode, e.URL)
}
