// Package export persists processed movies as they arrive.
package export

import (
	"context"
	"errors"

	"github.com/go-scripts/topmovies/internal/types"
)

// Sink receives every movie the consumer keeps, in order
type Sink interface {
	Write(ctx context.Context, m types.ExtractedMovie) error
	// Close flushes anything buffered. It is called once, after the last Write.
	Close(ctx context.Context) error
}

// Multi fans each call out to every sink. Errors are joined; one failing
// sink does not stop the others.
type Multi []Sink

func (m Multi) Write(ctx context.Context, movie types.ExtractedMovie) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, movie); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close(ctx context.Context) error {
	var errs []error
	for _, s := range m {
		if err := s.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
