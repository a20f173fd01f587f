package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

// BrowserOptions configures the headless browser
type BrowserOptions struct {
	Headless   bool
	UserAgents *UserAgents
	// WaitTime is an extra pause after the body is ready, for late scripts.
	WaitTime time.Duration
	// ExecPath overrides Chrome discovery.
	ExecPath string
	Logger   *log.Logger
}

// Browser renders pages in a shared headless Chrome, one tab per page
type Browser struct {
	opts BrowserOptions

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewBrowser creates a Browser. Nothing is launched until Start.
func NewBrowser(opts BrowserOptions) *Browser {
	if opts.UserAgents == nil {
		opts.UserAgents = NewUserAgents("")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Browser{opts: opts}
}

var errNotStarted = errors.New("browser not started")

// Start launches Chrome. A launch failure is returned here rather than on the first Fetch.
func (b *Browser) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browserCtx != nil {
		return nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("headless", b.opts.Headless),
		chromedp.Flag("ignore-certificate-errors", true),
	)
	if b.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(b.opts.ExecPath))
	}

	// the browser outlives any single request, so it hangs off a detached context
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(b.opts.Logger.Errorf),
		chromedp.WithDebugf(b.opts.Logger.Debugf),
	)

	// running no actions starts the browser process
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("error launching browser: %w", err)
	}

	b.allocCancel = allocCancel
	b.browserCtx = browserCtx
	b.browserCancel = browserCancel
	b.opts.Logger.Debug("Browser started", "headless", b.opts.Headless)
	return nil
}

// Close cleans up browser resources
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browserCancel != nil {
		b.browserCancel()
		b.allocCancel()
		b.browserCtx = nil
		b.browserCancel = nil
		b.allocCancel = nil
	}
}

// Fetch opens url in a new tab and returns the rendered HTML
func (b *Browser) Fetch(ctx context.Context, url string) (*Page, error) {
	b.mu.Lock()
	parent := b.browserCtx
	b.mu.Unlock()
	if parent == nil {
		return nil, errNotStarted
	}

	// Create a context for this browser tab
	tabCtx, cancel := chromedp.NewContext(parent)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if deadline, ok := ctx.Deadline(); ok {
		var timeoutCancel context.CancelFunc
		tabCtx, timeoutCancel = context.WithDeadline(tabCtx, deadline)
		defer timeoutCancel()
	}

	tasks := chromedp.Tasks{
		emulation.SetUserAgentOverride(b.opts.UserAgents.Next()),
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	}
	if b.opts.WaitTime > 0 {
		tasks = append(tasks, chromedp.Sleep(b.opts.WaitTime))
	}

	var pageHTML, location string
	tasks = append(tasks,
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &pageHTML),
	)

	if err := chromedp.Run(tabCtx, tasks); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("navigation to %s aborted: %w", url, ctxErr)
		}
		return nil, fmt.Errorf("navigation to %s failed: %w", url, err)
	}

	if location == "" {
		location = url
	}
	return &Page{URL: location, HTML: pageHTML, ContentType: "text/html"}, nil
}
