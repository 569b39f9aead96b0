package phishing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"url-risk-analyzer/logger"
)

const renderTimeout = 15 * time.Second

// RenderedFetcher loads the page in headless Chrome and returns the DOM once
// the network has gone idle. Each call launches and tears down its own
// browser; nothing is shared between analyses.
type RenderedFetcher struct {
	ChromePath string
	Timeout    time.Duration
}

// NewRenderedFetcher returns a fetcher using the Chrome binary at chromePath,
// or the one found on PATH when empty.
func NewRenderedFetcher(chromePath string) *RenderedFetcher {
	return &RenderedFetcher{ChromePath: chromePath, Timeout: renderTimeout}
}

func (f *RenderedFetcher) Kind() FetchKind { return FetchRendered }

func (f *RenderedFetcher) Fetch(ctx context.Context, url string) (string, error) {
	log := logger.Component("phishing.render")

	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.UserAgent(browserUserAgent),
	)
	if f.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(f.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...interface{}) {
		log.Debug(fmt.Sprintf(format, args...))
	}))
	defer browserCancel()

	tracker := newIdleTracker()
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok {
			tracker.observe(e)
		}
	})

	var (
		html    string
		frameID cdp.FrameID
	)
	err := chromedp.Run(browserCtx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.ActionFunc(func(ctx context.Context) error {
			id, _, errText, err := page.Navigate(url).Do(ctx)
			if err != nil {
				return err
			}
			if errText != "" {
				return fmt.Errorf("navigate: %s", errText)
			}
			frameID = id
			return nil
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return tracker.wait(ctx, frameID)
		}),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}
	return html, nil
}

// idleTracker records which frames have reached networkIdle since their
// last navigation. Subframes go idle on their own schedule, so callers wait
// on a specific frame.
type idleTracker struct {
	mu      sync.Mutex
	idle    map[cdp.FrameID]bool
	changed chan struct{}
}

func newIdleTracker() *idleTracker {
	return &idleTracker{
		idle:    make(map[cdp.FrameID]bool),
		changed: make(chan struct{}, 1),
	}
}

func (t *idleTracker) observe(e *page.EventLifecycleEvent) {
	t.mu.Lock()
	switch e.Name {
	case "init":
		delete(t.idle, e.FrameID)
	case "networkIdle":
		t.idle[e.FrameID] = true
	default:
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	select {
	case t.changed <- struct{}{}:
	default:
	}
}

func (t *idleTracker) isIdle(frame cdp.FrameID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.idle[frame]
}

// wait blocks until frame reports networkIdle or ctx is done.
func (t *idleTracker) wait(ctx context.Context, frame cdp.FrameID) error {
	for !t.isIdle(frame) {
		select {
		case <-t.changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
