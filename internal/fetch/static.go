package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxBodyBytes = 10 << 20

// Static fetches raw HTML over HTTP without running scripts
type Static struct {
	client *http.Client
}

type uaTransport struct {
	base http.RoundTripper
	ua   *UserAgents
}

func (t *uaTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	r := req.Clone(req.Context())
	if r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", t.ua.Next())
	}
	return t.base.RoundTrip(r)
}

// NewStatic creates a static fetcher. The per-page timeout comes from the
// request context; the client itself only bounds handshakes.
func NewStatic(ua *UserAgents) *Static {
	if ua == nil {
		ua = NewUserAgents("")
	}
	base := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: 10,
		TLSHandshakeTimeout: 10 * time.Second,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Static{
		client: &http.Client{Transport: &uaTransport{base: base, ua: ua}},
	}
}

// Fetch performs a GET and returns the body. Non-2xx responses are a *StatusError.
func (s *Static) Fetch(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", url, err)
	}

	return &Page{
		URL:         resp.Request.URL.String(),
		HTML:        string(body),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
