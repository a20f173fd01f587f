package export

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"

	"github.com/go-scripts/topmovies/internal/types"
)

// MovieRow is the CSV shape of a movie. Cast names are joined with "; ".
type MovieRow struct {
	Title  string `csv:"Title"`
	Year   string `csv:"Year"`
	Rating string `csv:"Rating"`
	Plot   string `csv:"Plot"`
	Cast   string `csv:"Cast"`
	URL    string `csv:"URL"`
}

// CSVWriter buffers rows and writes the file on Close
type CSVWriter struct {
	path string

	mu   sync.Mutex
	rows []MovieRow
}

// NewCSVWriter creates a CSVWriter targeting path
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

func (w *CSVWriter) Write(_ context.Context, m types.ExtractedMovie) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.rows = append(w.rows, MovieRow{
		Title:  m.Title,
		Year:   m.Year,
		Rating: m.Rating,
		Plot:   m.Plot,
		Cast:   strings.Join(m.CastNames(), "; "),
		URL:    m.URL,
	})
	return nil
}

func (w *CSVWriter) Close(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("error creating file %s: %w", w.path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&w.rows, file); err != nil {
		return fmt.Errorf("error exporting data to CSV: %w", err)
	}
	return nil
}
