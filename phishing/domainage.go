package phishing

import (
	"context"
	"fmt"
	"net"
	"time"

	"url-risk-analyzer/logger"
)

const domainAgeTimeout = 15 * time.Second

// Domain age policy.
const (
	newDomainDays     = 30
	youngDomainDays   = 180
	weightNewDomain   = 25
	weightYoungDomain = 10
)

// RegistrationSource looks up when a registrable domain was first registered.
type RegistrationSource interface {
	Name() string
	RegisteredAt(ctx context.Context, domain string) (time.Time, error)
}

// AgeCache stores registration timestamps between analyses.
type AgeCache interface {
	Get(ctx context.Context, domain string) (time.Time, bool, error)
	Set(ctx context.Context, domain string, registered time.Time) error
}

// DomainAgeResolver tries each source in order until one returns a
// registration date. It never fails: an unresolved domain yields an empty
// DomainAge.
type DomainAgeResolver struct {
	sources []RegistrationSource
	cache   AgeCache
	now     func() time.Time
	timeout time.Duration
}

// ResolverOption configures a DomainAgeResolver.
type ResolverOption func(*DomainAgeResolver)

// WithAgeCache consults c before the sources and fills it on success.
func WithAgeCache(c AgeCache) ResolverOption {
	return func(r *DomainAgeResolver) { r.cache = c }
}

// WithResolverClock sets the clock used to compute ages.
func WithResolverClock(now func() time.Time) ResolverOption {
	return func(r *DomainAgeResolver) { r.now = now }
}

// WithResolverTimeout bounds a whole Resolve call.
func WithResolverTimeout(d time.Duration) ResolverOption {
	return func(r *DomainAgeResolver) { r.timeout = d }
}

// NewDomainAgeResolver tries sources in order until one yields a date.
func NewDomainAgeResolver(sources []RegistrationSource, opts ...ResolverOption) *DomainAgeResolver {
	r := &DomainAgeResolver{
		sources: sources,
		now:     time.Now,
		timeout: domainAgeTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the registration age of host's registrable domain.
func (r *DomainAgeResolver) Resolve(ctx context.Context, host string) DomainAge {
	log := logger.Component("phishing.domainage")

	if host == "" || net.ParseIP(host) != nil {
		return DomainAge{}
	}

	domain, err := registrableDomain(host)
	if err != nil {
		log.WarnContext(ctx, "cannot derive registrable domain", "host", host, "error", err)
		return DomainAge{}
	}

	if r.cache != nil {
		registered, ok, err := r.cache.Get(ctx, domain)
		if err != nil {
			log.WarnContext(ctx, "domain age cache read failed", "domain", domain, "error", err)
		} else if ok {
			log.DebugContext(ctx, "domain age cache hit", "domain", domain)
			return r.ageOf(registered, "cache")
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	for _, src := range r.sources {
		registered, err := src.RegisteredAt(ctx, domain)
		if err != nil {
			log.InfoContext(ctx, "registration lookup failed", "source", src.Name(), "domain", domain, "error", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		if r.cache != nil {
			if err := r.cache.Set(ctx, domain, registered); err != nil {
				log.WarnContext(ctx, "domain age cache write failed", "domain", domain, "error", err)
			}
		}
		return r.ageOf(registered, src.Name())
	}

	return DomainAge{}
}

func (r *DomainAgeResolver) ageOf(registered time.Time, source string) DomainAge {
	days := int(r.now().Sub(registered).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return DomainAge{Registered: &registered, Days: days, Source: source}
}

// DomainAgeSignals applies the age policy. Unknown ages carry no penalty.
func DomainAgeSignals(age DomainAge) []Signal {
	if !age.Known() {
		return nil
	}
	switch {
	case age.Days < newDomainDays:
		return []Signal{{
			Category: CategoryMetadata,
			Points:   weightNewDomain,
			Reason:   fmt.Sprintf("Domain registered only %d days ago", age.Days),
		}}
	case age.Days < youngDomainDays:
		return []Signal{{
			Category: CategoryMetadata,
			Points:   weightYoungDomain,
			Reason:   fmt.Sprintf("Domain is relatively new (%d days old)", age.Days),
		}}
	}
	return nil
}
