package phishing

import (
	"context"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"url-risk-analyzer/ai"
	"url-risk-analyzer/logger"
)

const (
	reasonContentUnavailable = "Content analysis unavailable (protected or unreachable)"
	reasonRendered           = "Used advanced rendering for dynamic content"
)

// PageFetcher returns the page content for a URL. FetchChain implements it.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) FetchOutcome
}

// AgeResolver returns the registration age for a host. DomainAgeResolver
// implements it.
type AgeResolver interface {
	Resolve(ctx context.Context, host string) DomainAge
}

// Analyzer runs the full pipeline for one URL at a time. It holds no
// per-analysis state, so one Analyzer may serve concurrent requests.
type Analyzer struct {
	fetcher    PageFetcher
	ages       AgeResolver
	classifier *ai.Adapter
	now        func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithFetcher sets the page fetcher. Without one no content is analyzed.
func WithFetcher(f PageFetcher) Option {
	return func(a *Analyzer) { a.fetcher = f }
}

// WithDomainAgeResolver sets the domain-age lookup.
func WithDomainAgeResolver(r AgeResolver) Option {
	return func(a *Analyzer) { a.ages = r }
}

// WithClassifier enables AI classification of page text.
func WithClassifier(c *ai.Adapter) Option {
	return func(a *Analyzer) { a.classifier = c }
}

// WithClock sets the clock used to time analyses.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// NewAnalyzer returns an Analyzer. Stages left unconfigured contribute no
// signals.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ValidURL reports whether rawURL is an absolute http or https URL with a host.
func ValidURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}
	return u.Hostname() != ""
}

// Analyze scores rawURL. Every stage failure degrades to an absent signal;
// the only short-circuit is an invalid URL.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) Result {
	log := logger.Component("phishing.analyzer")
	start := a.now()

	if !ValidURL(rawURL) {
		log.InfoContext(ctx, "invalid url", "url", logger.Truncate(rawURL, 200))
		return InvalidURLResult(rawURL)
	}
	host := hostOf(rawURL)

	lexical := ExtractLexicalSignals(rawURL)

	var (
		age     DomainAge
		outcome = FetchOutcome{Kind: FetchUnavailable}
	)

	g, gctx := errgroup.WithContext(ctx)
	if a.ages != nil {
		g.Go(func() error {
			age = a.ages.Resolve(gctx, host)
			return nil
		})
	}
	if a.fetcher != nil {
		g.Go(func() error {
			outcome = a.fetcher.Fetch(gctx, rawURL)
			return nil
		})
	}
	_ = g.Wait()

	metadata := DomainAgeSignals(age)

	var (
		content []Signal
		text    string
	)
	if outcome.Available() {
		content, text = ExtractContentSignals(outcome.HTML, host)
		if outcome.Kind == FetchRendered {
			content = append(content, Signal{Category: CategoryContent, Reason: reasonRendered})
		}
	} else {
		content = []Signal{{Category: CategoryContent, Reason: reasonContentUnavailable}}
	}

	verdict := a.classifier.ClassifyContent(ctx, text)

	signals := make([]Signal, 0, len(lexical)+len(metadata)+len(content)+1)
	signals = append(signals, lexical...)
	signals = append(signals, metadata...)
	signals = append(signals, content...)
	signals = append(signals, AISignals(verdict)...)

	result := Aggregate(signals, outcome.Available())
	result.URL = rawURL
	result.AIVerdict = verdict
	result.FetchMethod = outcome.Kind
	if age.Known() {
		days := age.Days
		result.DomainAgeDays = &days
	}

	log.InfoContext(ctx, "analysis complete",
		"url", rawURL,
		"score", result.RiskScore,
		"level", result.RiskLevel,
		"fetch", outcome.Kind,
		"duration_ms", a.now().Sub(start).Milliseconds())

	return result
}
