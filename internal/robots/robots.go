// Package robots answers whether a URL may be crawled according to the
// host's robots.txt. Each host's file is fetched once and cached.
package robots

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"
)

// Policy checks URLs against robots.txt
type Policy struct {
	client *http.Client
	agent  string
	logger *log.Logger

	mu     sync.RWMutex
	cache  map[string]*robotstxt.RobotsData
	flight singleflight.Group
}

// New creates a Policy that identifies itself as agent. A nil client gets a
// client with a short timeout.
func New(client *http.Client, agent string, logger *log.Logger) *Policy {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Policy{
		client: client,
		agent:  agent,
		logger: logger,
		cache:  make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether rawURL may be fetched. An unreachable robots.txt
// allows everything.
func (p *Policy) Allowed(ctx context.Context, rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	data, err := p.rules(ctx, u)
	if err != nil {
		p.logger.Debug("robots.txt unavailable, allowing", "host", u.Host, "err", err)
		return true, nil
	}
	return data.TestAgent(u.RequestURI(), p.agent), nil
}

func (p *Policy) rules(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	key := u.Scheme + "://" + u.Host

	p.mu.RLock()
	data, ok := p.cache[key]
	p.mu.RUnlock()
	if ok {
		return data, nil
	}

	v, err, _ := p.flight.Do(key, func() (interface{}, error) {
		p.mu.RLock()
		cached, ok := p.cache[key]
		p.mu.RUnlock()
		if ok {
			return cached, nil
		}

		data, err := p.fetch(ctx, key+"/robots.txt")
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.cache[key] = data
		p.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*robotstxt.RobotsData), nil
}

func (p *Policy) fetch(ctx context.Context, robotsURL string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.agent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	p.logger.Debug("Fetched robots.txt", "url", robotsURL, "status", resp.StatusCode)
	return robotstxt.FromResponse(resp)
}
