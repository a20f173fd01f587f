package queue

import (
	"sync"
)

// Entry is a URL waiting to be fetched, tagged with its hop count from the seed
type Entry struct {
	URL   string
	Depth int
}

// Queue is a thread-safe breadth-first frontier. A URL is accepted at most once
// for the lifetime of the queue, so a page discovered twice is fetched once.
type Queue struct {
	entries []Entry
	seen    map[string]bool
	mu      sync.Mutex
}

// New creates a new Queue instance
func New() *Queue {
	return &Queue{
		entries: make([]Entry, 0),
		seen:    make(map[string]bool),
	}
}

// Add enqueues e unless its URL was already accepted
func (q *Queue) Add(e Entry) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.seen[e.URL] {
		return false
	}

	q.seen[e.URL] = true
	q.entries = append(q.entries, e)
	return true
}

// Drain removes and returns everything currently queued, in insertion order.
// Entries added after Drain returns belong to the next level.
func (q *Queue) Drain() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()

	level := q.entries
	q.entries = make([]Entry, 0)
	return level
}

// IsSeen checks if a URL was ever accepted
func (q *Queue) IsSeen(url string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.seen[url]
}

// Len returns the current length of the queue
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// SeenCount returns the number of distinct URLs accepted so far
func (q *Queue) SeenCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.seen)
}
