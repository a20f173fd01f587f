// Package movie turns an IMDb title page into an ExtractedMovie.
package movie

import (
	"errors"

	"github.com/go-scripts/topmovies/internal/extract"
	"github.com/go-scripts/topmovies/internal/types"
)

// Selectors used on IMDb title pages
const (
	TitleSelector  = "h1[data-testid='hero-title-block__title']"
	YearSelector   = "a[href*='releaseinfo']"
	RatingSelector = "span[data-testid='hero-rating-bar__aggregate-rating__score']"
	PlotSelector   = "span[data-testid='plot-xl']"
	ActorSelector  = "a[data-testid='title-cast-item__actor']"
)

// Selectors lets callers point the extractor at different markup
type Selectors struct {
	Title  string
	Year   string
	Rating string
	Plot   string
	Actor  string
}

// DefaultSelectors returns the IMDb selectors
func DefaultSelectors() Selectors {
	return Selectors{
		Title:  TitleSelector,
		Year:   YearSelector,
		Rating: RatingSelector,
		Plot:   PlotSelector,
		Actor:  ActorSelector,
	}
}

// Extractor builds movies from parsed pages. Missing fields fall back to the
// sentinels in package types; only a nil document is an error.
type Extractor struct {
	sel Selectors
}

// NewExtractor creates an Extractor. Zero-value fields in sel use the IMDb default.
func NewExtractor(sel Selectors) *Extractor {
	def := DefaultSelectors()
	if sel.Title == "" {
		sel.Title = def.Title
	}
	if sel.Year == "" {
		sel.Year = def.Year
	}
	if sel.Rating == "" {
		sel.Rating = def.Rating
	}
	if sel.Plot == "" {
		sel.Plot = def.Plot
	}
	if sel.Actor == "" {
		sel.Actor = def.Actor
	}
	return &Extractor{sel: sel}
}

var errNoDocument = errors.New("no document")

// Extract reads title, year, rating, plot and cast from doc
func (e *Extractor) Extract(doc *extract.Document) (types.ExtractedMovie, error) {
	if doc == nil {
		return types.ExtractedMovie{}, errNoDocument
	}

	m := types.ExtractedMovie{
		URL:    doc.URL,
		Title:  doc.Text(e.sel.Title).Or(types.UnknownTitle),
		Year:   doc.Text(e.sel.Year).Or(types.UnknownYear),
		Rating: doc.Text(e.sel.Rating).Or(types.NoRating),
		Plot:   doc.Text(e.sel.Plot).Or(types.NoPlot),
		Cast:   []types.ActorRef{},
	}

	for _, a := range doc.All(e.sel.Actor) {
		name := a.Text
		if name == "" {
			name = types.UnknownActor
		}
		m.Cast = append(m.Cast, types.ActorRef{Name: name, ProfileURL: a.Href})
	}

	return m, nil
}
