package filter

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

// URLFilter decides which discovered links are eligible for crawling.
// A link must stay on the seed host and match at least one include pattern.
type URLFilter struct {
	host     string
	patterns []string
	globs    []glob.Glob
}

// New compiles the include patterns. '*' matches any run of characters,
// including '/', so "*/title/*" accepts every URL with a title segment.
func New(seedURL string, patterns []string) (*URLFilter, error) {
	u, err := url.Parse(seedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("seed URL %q has no host", seedURL)
	}

	f := &URLFilter{
		host:     stripWWW(u.Hostname()),
		patterns: patterns,
	}
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", p, err)
		}
		f.globs = append(f.globs, g)
	}
	return f, nil
}

// Patterns returns the include patterns as given
func (f *URLFilter) Patterns() []string {
	return f.patterns
}

// Match reports whether urlStr matches any include pattern. No patterns means
// everything matches.
func (f *URLFilter) Match(urlStr string) bool {
	if len(f.globs) == 0 {
		return true
	}
	for _, g := range f.globs {
		if g.Match(urlStr) {
			return true
		}
	}
	return false
}

// SameHost reports whether urlStr lives on the seed host. "www." is ignored.
func (f *URLFilter) SameHost(urlStr string) bool {
	u, err := url.Parse(urlStr)
	if err != nil {
		return false
	}
	return stripWWW(u.Hostname()) == f.host
}

// Allow combines SameHost and Match
func (f *URLFilter) Allow(urlStr string) bool {
	return f.SameHost(urlStr) && f.Match(urlStr)
}

func stripWWW(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}
