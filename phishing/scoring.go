package phishing

import "url-risk-analyzer/ai"

const (
	// InvalidURLScore is reported for input that cannot be analyzed. Totals
	// of real analyses are not capped and may exceed it.
	InvalidURLScore = 100

	// Below this total, a page we could not fetch is reported as incomplete
	// rather than low risk.
	incompleteBelow = 20

	weightAIPhishing = 30
)

// ScoringThresholds are the minimum totals for each risk level.
type ScoringThresholds struct {
	HighMin   int
	MediumMin int
}

// DefaultScoringThresholds returns the level cut-offs used by Aggregate.
func DefaultScoringThresholds() ScoringThresholds {
	return ScoringThresholds{
		HighMin:   80,
		MediumMin: 40,
	}
}

// AISignals turns a verdict into its score contribution.
func AISignals(v *ai.Verdict) []Signal {
	if v == nil || !v.IsPhishing {
		return nil
	}
	return []Signal{{Category: CategoryAI, Points: weightAIPhishing, Reason: "AI detected phishing pattern"}}
}

// Aggregate sums signals, in the order given, into a Result. contentFetched
// reports whether any page content was obtained.
func Aggregate(signals []Signal, contentFetched bool) Result {
	thresholds := DefaultScoringThresholds()

	var breakdown Breakdown
	total := 0
	reasons := make([]string, 0, len(signals))
	for _, s := range signals {
		total += s.Points
		reasons = append(reasons, s.Reason)
		switch s.Category {
		case CategoryLexical:
			breakdown.Lexical += s.Points
		case CategoryMetadata:
			breakdown.Metadata += s.Points
		case CategoryContent:
			breakdown.Content += s.Points
		case CategoryAI:
			breakdown.AI += s.Points
		}
	}

	if total < 0 {
		total = 0
	}

	var level, confidence string
	switch {
	case !contentFetched && total < incompleteBelow:
		level, confidence = LevelIncomplete, ConfidenceLow
	case total >= thresholds.HighMin:
		level, confidence = LevelHigh, ConfidenceHigh
	case total >= thresholds.MediumMin:
		level, confidence = LevelMedium, ConfidenceMedium
	default:
		level, confidence = LevelLow, ConfidenceLow
	}

	// Without page content the verdict rests on fewer signals.
	if !contentFetched && level != LevelIncomplete {
		confidence = lowerConfidence(confidence)
	}

	return Result{
		RiskScore:      total,
		RiskLevel:      level,
		Confidence:     confidence,
		Reasons:        reasons,
		Breakdown:      breakdown,
		ContentFetched: contentFetched,
	}
}

// InvalidURLResult is returned for input that is not an absolute http(s) URL.
func InvalidURLResult(rawURL string) Result {
	return Result{
		URL:        rawURL,
		RiskScore:  InvalidURLScore,
		RiskLevel:  LevelHigh,
		Confidence: ConfidenceHigh,
		Reasons:    []string{"Invalid URL format"},
	}
}

func lowerConfidence(c string) string {
	switch c {
	case ConfidenceHigh:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
