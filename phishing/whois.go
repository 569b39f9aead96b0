package phishing

import (
	"context"
	"fmt"
	"strings"
	"time"

	whois "github.com/likexian/whois"
	parser "github.com/likexian/whois-parser"
)

// Layouts seen in WHOIS "Creation Date" fields.
var whoisDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
}

// WhoisSource falls back to port-43 WHOIS when RDAP has nothing.
type WhoisSource struct {
	client *whois.Client
}

// NewWhoisSource queries WHOIS servers directly.
func NewWhoisSource() *WhoisSource {
	return &WhoisSource{client: whois.NewClient().SetTimeout(domainAgeTimeout)}
}

func (s *WhoisSource) Name() string { return "whois" }

func (s *WhoisSource) RegisteredAt(ctx context.Context, domain string) (time.Time, error) {
	type reply struct {
		raw string
		err error
	}
	// The whois client has no context support; run it aside so ctx still bounds us.
	ch := make(chan reply, 1)
	go func() {
		raw, err := s.client.Whois(domain)
		ch <- reply{raw, err}
	}()

	var raw string
	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return time.Time{}, fmt.Errorf("whois query: %w", r.err)
		}
		raw = r.raw
	}

	return parseWhoisCreated(raw)
}

func parseWhoisCreated(raw string) (time.Time, error) {
	info, err := parser.Parse(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse whois: %w", err)
	}
	if info.Domain == nil {
		return time.Time{}, errNoRegistrationEvent
	}

	created := strings.TrimSpace(info.Domain.CreatedDate)
	if created == "" {
		return time.Time{}, errNoRegistrationEvent
	}
	for _, layout := range whoisDateLayouts {
		if t, err := time.Parse(layout, created); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised creation date %q", created)
}
