package phishing

import (
	"time"

	"url-risk-analyzer/ai"
)

// Category groups signals for the score breakdown.
type Category string

const (
	CategoryLexical  Category = "lexical"
	CategoryMetadata Category = "metadata"
	CategoryContent  Category = "content"
	CategoryAI       Category = "ai"
)

// Signal is one triggered rule: its category, the points it adds and the
// reason shown to the user.
type Signal struct {
	Category Category
	Points   int
	Reason   string
}

// Breakdown holds per-category subtotals.
type Breakdown struct {
	Lexical  int `json:"lexical"`
	Metadata int `json:"metadata"`
	Content  int `json:"content"`
	AI       int `json:"ai"`
}

// Risk levels.
const (
	LevelIncomplete = "Analysis Incomplete"
	LevelLow        = "Low Risk"
	LevelMedium     = "Medium Risk"
	LevelHigh       = "High Risk"
)

// Confidence labels.
const (
	ConfidenceLow    = "Low"
	ConfidenceMedium = "Medium"
	ConfidenceHigh   = "High"
)

// FetchKind tags how page content was obtained.
type FetchKind string

const (
	FetchStatic      FetchKind = "static"
	FetchRendered    FetchKind = "rendered"
	FetchUnavailable FetchKind = "unavailable"
)

// FetchOutcome is the result of the fetch chain for one analysis.
type FetchOutcome struct {
	Kind FetchKind
	HTML string
}

func (o FetchOutcome) Available() bool { return o.Kind != FetchUnavailable }

// DomainAge is the registration age of a domain. Registered is nil when the
// lookup failed or returned no registration event.
type DomainAge struct {
	Registered *time.Time
	Days       int
	Source     string
}

func (d DomainAge) Known() bool { return d.Registered != nil }

// Result is the terminal output of an analysis.
type Result struct {
	URL            string      `json:"url"`
	RiskScore      int         `json:"riskScore"`
	RiskLevel      string      `json:"riskLevel"`
	Confidence     string      `json:"confidence"`
	Reasons        []string    `json:"reasons"`
	AIVerdict      *ai.Verdict `json:"aiVerdict,omitempty"`
	DomainAgeDays  *int        `json:"domainAgeDays,omitempty"`
	Breakdown      Breakdown   `json:"breakdown"`
	ContentFetched bool        `json:"contentFetched"`
	FetchMethod    FetchKind   `json:"fetchMethod,omitempty"`
}
