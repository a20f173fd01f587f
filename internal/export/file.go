package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-scripts/topmovies/internal/types"
)

// SummaryFile holds the whole result set, written on Close
const SummaryFile = "movies.json"

// FileWriter writes one JSON file per movie as soon as it is processed, so
// an interrupted run keeps what it got.
type FileWriter struct {
	outputDir string

	mu     sync.Mutex
	movies types.ResultSet
}

// NewFileWriter creates a FileWriter with the specified output directory
func NewFileWriter(outputDir string) (*FileWriter, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &FileWriter{outputDir: outputDir}, nil
}

// Write stores m in its own file
func (w *FileWriter) Write(_ context.Context, m types.ExtractedMovie) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.movies = append(w.movies, m)
	path := filepath.Join(w.outputDir, sanitizeFilename(m.URL)+".json")
	if err := writeJSON(path, m); err != nil {
		return fmt.Errorf("failed to write %s: %w", m.URL, err)
	}
	return nil
}

// Close writes the summary file
func (w *FileWriter) Close(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	movies := w.movies
	if movies == nil {
		movies = types.ResultSet{}
	}
	if err := writeJSON(filepath.Join(w.outputDir, SummaryFile), movies); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// sanitizeFilename creates a safe filename from a URL
func sanitizeFilename(url string) string {
	url = strings.TrimPrefix(url, "http://")
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "www.")
	url = strings.Trim(url, "/")

	unsafe := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", " ", "&", "="}
	for _, char := range unsafe {
		url = strings.ReplaceAll(url, char, "_")
	}
	if url == "" {
		return "index"
	}
	return url
}
