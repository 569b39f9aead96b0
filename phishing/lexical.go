package phishing

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

const (
	maxURLLength    = 75
	maxHostHyphens  = 3
	maxHostDots     = 3
	minApexLabelLen = 3
)

// Lexical rule weights.
const (
	weightNoHTTPS        = 10
	weightLongURL        = 10
	weightIPHost         = 25
	weightAtSymbol       = 15
	weightHyphens        = 10
	weightShortApex      = 5
	weightDeepSubdomains = 10
	weightKeyword        = 10
)

var ipHostPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://\d+\.\d+\.\d+\.\d+`)

var suspiciousKeywords = []string{
	"login", "verify", "secure", "update", "account", "bank", "confirm", "password",
}

// ExtractLexicalSignals scores the URL string alone. Every rule is evaluated;
// none suppresses another.
func ExtractLexicalSignals(rawURL string) []Signal {
	var signals []Signal
	add := func(points int, reason string) {
		signals = append(signals, Signal{Category: CategoryLexical, Points: points, Reason: reason})
	}

	if !strings.HasPrefix(rawURL, "https://") {
		add(weightNoHTTPS, "URL does not use HTTPS")
	}

	if len(rawURL) > maxURLLength {
		add(weightLongURL, "URL is unusually long")
	}

	ipHost := ipHostPattern.MatchString(rawURL)
	if ipHost {
		add(weightIPHost, "Uses IP address instead of domain")
	}

	if strings.Contains(rawURL, "@") {
		add(weightAtSymbol, `URL contains "@" symbol`)
	}

	host := hostOf(rawURL)
	if strings.Count(host, "-") >= maxHostHyphens {
		add(weightHyphens, "Domain contains excessive hyphens")
	}

	if !ipHost && net.ParseIP(host) == nil {
		if label := apexLabel(host); label != "" && len(label) <= minApexLabelLen {
			add(weightShortApex, "Domain name is unusually short")
		}
	}

	if strings.Count(host, ".") > maxHostDots {
		add(weightDeepSubdomains, "URL has excessive subdomains")
	}

	lower := strings.ToLower(rawURL)
	for _, kw := range suspiciousKeywords {
		if strings.Contains(lower, kw) {
			add(weightKeyword, fmt.Sprintf("URL contains suspicious keyword %q", kw))
		}
	}

	return signals
}

// hostOf returns the lowercased hostname of rawURL, or "" when it has none.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// registrableDomain converts host to ASCII and reduces it to eTLD+1.
func registrableDomain(host string) (string, error) {
	ascii, err := idna.Lookup.ToASCII(strings.TrimSuffix(host, "."))
	if err != nil {
		return "", fmt.Errorf("idna %q: %w", host, err)
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(ascii)
	if err != nil {
		return "", fmt.Errorf("public suffix %q: %w", ascii, err)
	}
	return etld1, nil
}

// apexLabel returns the registrable label of host: "example" for
// "login.example.co.uk".
func apexLabel(host string) string {
	etld1, err := registrableDomain(host)
	if err != nil {
		return ""
	}
	suffix, _ := publicsuffix.PublicSuffix(etld1)
	return strings.TrimSuffix(etld1, "."+suffix)
}
