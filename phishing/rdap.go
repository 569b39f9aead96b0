package phishing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var errNoRegistrationEvent = errors.New("no registration event")

// RDAPSource reads the "registration" event of an RDAP domain object.
type RDAPSource struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewRDAPSource queries the RDAP service at baseURL.
func NewRDAPSource(baseURL string) *RDAPSource {
	return &RDAPSource{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: domainAgeTimeout},
	}
}

func (s *RDAPSource) Name() string { return "rdap" }

type rdapDomain struct {
	ErrorCode *int `json:"errorCode,omitempty"`
	Events    []struct {
		EventAction string `json:"eventAction"`
		EventDate   string `json:"eventDate"`
	} `json:"events"`
}

func (s *RDAPSource) RegisteredAt(ctx context.Context, domain string) (time.Time, error) {
	url := fmt.Sprintf("%s/domain/%s", strings.TrimRight(s.BaseURL, "/"), domain)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/rdap+json, application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return time.Time{}, fmt.Errorf("rdap request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, fmt.Errorf("rdap status %d", resp.StatusCode)
	}

	var data rdapDomain
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&data); err != nil {
		return time.Time{}, fmt.Errorf("decode rdap response: %w", err)
	}
	if data.ErrorCode != nil {
		return time.Time{}, fmt.Errorf("rdap error code %d", *data.ErrorCode)
	}

	for _, ev := range data.Events {
		if !strings.EqualFold(ev.EventAction, "registration") {
			continue
		}
		t, err := time.Parse(time.RFC3339, ev.EventDate)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse registration date %q: %w", ev.EventDate, err)
		}
		return t, nil
	}

	return time.Time{}, errNoRegistrationEvent
}
