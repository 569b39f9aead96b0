package history

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"url-risk-analyzer/phishing"
)

// DefaultSize is the capacity used when NewStore is given a non-positive size.
const DefaultSize = 50

// Entry is a summary of one finished analysis.
type Entry struct {
	ID        string             `json:"id"`
	URL       string             `json:"url"`
	Timestamp time.Time          `json:"timestamp"`
	RiskScore int                `json:"riskScore"`
	RiskLevel string             `json:"riskLevel"`
	Breakdown phishing.Breakdown `json:"breakdown"`
}

// NewEntry summarises result as of at.
func NewEntry(result phishing.Result, at time.Time) Entry {
	return Entry{
		ID:        uuid.NewString(),
		URL:       result.URL,
		Timestamp: at,
		RiskScore: result.RiskScore,
		RiskLevel: result.RiskLevel,
		Breakdown: result.Breakdown,
	}
}

// Store keeps the most recent entries in a fixed-size ring.
type Store struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

// NewStore returns an empty store holding at most size entries.
func NewStore(size int) *Store {
	if size <= 0 {
		size = DefaultSize
	}
	return &Store{entries: make([]Entry, size)}
}

// Add records e, evicting the oldest entry when the store is full.
func (s *Store) Add(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[s.next] = e
	s.next = (s.next + 1) % len(s.entries)
	if s.next == 0 {
		s.full = true
	}
}

// List returns a copy of the stored entries, newest first.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.next
	if s.full {
		n = len(s.entries)
	}

	out := make([]Entry, 0, n)
	for i := 1; i <= n; i++ {
		idx := (s.next - i + len(s.entries)) % len(s.entries)
		out = append(out, s.entries[idx])
	}
	return out
}

// Len returns the number of entries held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.full {
		return len(s.entries)
	}
	return s.next
}
