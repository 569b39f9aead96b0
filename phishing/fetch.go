package phishing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"url-risk-analyzer/logger"
)

const (
	staticFetchTimeout = 8 * time.Second
	maxPageBytes       = 2 << 20

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// ErrFetchFailed is logged when every strategy in a FetchChain failed. The
// caller sees that case as a FetchOutcome of kind FetchUnavailable.
var ErrFetchFailed = errors.New("all fetch strategies failed")

// Fetcher retrieves the HTML of a page.
type Fetcher interface {
	Kind() FetchKind
	Fetch(ctx context.Context, url string) (string, error)
}

// FetchChain tries fetchers in order and stops at the first success.
type FetchChain []Fetcher

func (c FetchChain) Fetch(ctx context.Context, url string) FetchOutcome {
	log := logger.Component("phishing.fetch")

	for _, f := range c {
		html, err := f.Fetch(ctx, url)
		if err == nil {
			log.DebugContext(ctx, "page fetched", "url", url, "method", f.Kind(), "bytes", len(html))
			return FetchOutcome{Kind: f.Kind(), HTML: html}
		}
		log.InfoContext(ctx, "fetch strategy failed", "url", url, "method", f.Kind(), "error", err)
		if ctx.Err() != nil {
			break
		}
	}

	log.WarnContext(ctx, "content unavailable", "url", url, "error", ErrFetchFailed)
	return FetchOutcome{Kind: FetchUnavailable}
}

// StaticFetcher does a single plain GET with a browser user agent.
type StaticFetcher struct {
	HTTPClient *http.Client
}

// NewStaticFetcher returns a fetcher with the default timeout and redirect limit.
func NewStaticFetcher() *StaticFetcher {
	return &StaticFetcher{
		HTTPClient: &http.Client{
			Timeout: staticFetchTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

func (f *StaticFetcher) Kind() FetchKind { return FetchStatic }

func (f *StaticFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}
