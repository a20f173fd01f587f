package fetch

import (
	"math/rand"
	"sync"
	"time"
)

// UserAgents picks a user agent per request. A fixed agent disables rotation.
type UserAgents struct {
	mu    sync.Mutex
	rnd   *rand.Rand
	fixed string
	pool  []string
}

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_6) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:123.0) Gecko/20100101 Firefox/123.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
}

// NewUserAgents returns a rotating pool, or a fixed agent when fixed is set
func NewUserAgents(fixed string) *UserAgents {
	return &UserAgents{
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		fixed: fixed,
		pool:  defaultUserAgents,
	}
}

// Next returns the agent for the next request
func (u *UserAgents) Next() string {
	if u.fixed != "" {
		return u.fixed
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.pool[u.rnd.Intn(len(u.pool))]
}
