package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/bubbles/progress"
)

// Tracker shows a spinner and a page bar on stderr while the consumer waits
// for the next page. It must be paused before anything is printed to stdout.
type Tracker struct {
	spinner *spinner.Spinner
	bar     progress.Model
	total   int

	processed int
	mu        sync.Mutex
}

// New creates a Tracker writing to w. total is the page budget. A nil w
// gives a silent tracker that only counts.
func New(w io.Writer, total int) *Tracker {
	t := &Tracker{
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage()),
		total: total,
	}
	if w != nil {
		t.spinner = spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(w))
	}
	return t
}

// Wait starts the spinner until Pause is called
func (t *Tracker) Wait() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.spinner == nil {
		return
	}
	t.spinner.Suffix = " " + t.status()
	t.spinner.Start()
}

// Pause stops the spinner and clears its line
func (t *Tracker) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.spinner != nil {
		t.spinner.Stop()
	}
}

// Increment records one processed movie
func (t *Tracker) Increment() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.processed++
}

// Processed returns the number of movies recorded so far
func (t *Tracker) Processed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.processed
}

// Status renders the bar and counter
func (t *Tracker) Status() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status()
}

func (t *Tracker) status() string {
	ratio := 0.0
	if t.total > 0 {
		ratio = float64(t.processed) / float64(t.total)
	}
	if ratio > 1 {
		ratio = 1
	}
	return fmt.Sprintf("%s %d/%d movies, waiting for next page", t.bar.ViewAs(ratio), t.processed, t.total)
}
