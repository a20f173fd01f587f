// Package render prints movies to the terminal as they are processed.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/go-scripts/topmovies/internal/types"
)

const (
	// PlotLimit is the number of characters of plot shown per movie
	PlotLimit = 150

	delimiterWidth = 50
	ellipsis       = "..."
)

// Printer formats movie blocks. Colors are only emitted when the output it
// was created for is a terminal.
type Printer struct {
	delimiter lipgloss.Style
	title     lipgloss.Style
	label     lipgloss.Style
	muted     lipgloss.Style
}

// New creates a Printer whose color profile follows out
func New(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		delimiter: r.NewStyle().Foreground(lipgloss.Color("242")),
		title:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		label:     r.NewStyle().Foreground(lipgloss.Color("110")),
		muted:     r.NewStyle().Italic(true).Foreground(lipgloss.Color("246")),
	}
}

// Banner prints the start line
func (p *Printer) Banner(w io.Writer) error {
	_, err := fmt.Fprintln(w, p.title.Render("🎬 Starting IMDb Top Movies Crawler..."))
	return err
}

// Movie writes the block for m
func (p *Printer) Movie(w io.Writer, m types.ExtractedMovie) error {
	delim := p.delimiter.Render(strings.Repeat("=", delimiterWidth))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(delim + "\n")
	fmt.Fprintf(&b, "%s %s (%s)\n", p.label.Render("🎬 Movie:"), p.title.Render(m.Title), m.Year)
	fmt.Fprintf(&b, "%s %s\n", p.label.Render("⭐ Rating:"), m.Rating)

	plot, _ := Truncate(m.Plot, PlotLimit)
	fmt.Fprintf(&b, "%s %s\n", p.label.Render("📝 Plot:"), p.muted.Render(plot))

	b.WriteString(p.label.Render("👥 Cast:") + "\n")
	for _, a := range m.Cast {
		fmt.Fprintf(&b, "  - %s\n", a.Name)
	}
	b.WriteString(delim + "\n\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// Summary prints the final count
func (p *Printer) Summary(w io.Writer, n int) error {
	_, err := fmt.Fprintf(w, "\n%s Successfully processed %d movies\n", p.label.Render("📊"), n)
	return err
}

// Truncate shortens s to limit characters and appends an ellipsis when it
// had to cut. The second result reports whether s was cut.
func Truncate(s string, limit int) (string, bool) {
	runes := []rune(s)
	if len(runes) <= limit {
		return s, false
	}
	return strings.TrimRight(string(runes[:limit]), " ") + ellipsis, true
}
