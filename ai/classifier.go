package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"url-risk-analyzer/logger"
)

const (
	// MaxInputRunes bounds the page text sent to the classifier.
	MaxInputRunes = 1200

	classifyTimeout = 20 * time.Second
	temperature     = 0.2
)

var (
	ErrEmptyResponse = errors.New("empty response from model")
	ErrMissingAPIKey = errors.New("API key is required")
)

// Verdict is the structured answer expected from the model.
type Verdict struct {
	IsPhishing bool    `json:"isPhishing"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// TextClassifier judges page text. A nil verdict with a nil error means the
// model answered but not in the expected shape.
type TextClassifier interface {
	Classify(ctx context.Context, text string) (*Verdict, error)
}

// Adapter wraps a TextClassifier with truncation, a timeout and
// error swallowing so callers only see a verdict or nothing.
type Adapter struct {
	classifier TextClassifier
	timeout    time.Duration
}

// NewAdapter wraps c. A nil c disables classification.
func NewAdapter(c TextClassifier) *Adapter {
	return &Adapter{classifier: c, timeout: classifyTimeout}
}

// ClassifyContent returns the model's verdict on bodyText, or nil when the
// call failed or the reply was unusable.
func (a *Adapter) ClassifyContent(ctx context.Context, bodyText string) *Verdict {
	if a == nil || a.classifier == nil || strings.TrimSpace(bodyText) == "" {
		return nil
	}
	log := logger.Component("ai.adapter")

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	v, err := a.classifier.Classify(ctx, logger.Truncate(bodyText, MaxInputRunes))
	if err != nil {
		log.WarnContext(ctx, "classification failed", "error", err)
		return nil
	}
	if v == nil {
		log.InfoContext(ctx, "classification reply unusable")
	}
	return v
}

type rawVerdict struct {
	IsPhishing *bool   `json:"isPhishing"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// ParseVerdict decodes the first JSON object in a model reply. Text before
// the object and anything after it are ignored. Replies without a JSON
// object, with malformed JSON or without an isPhishing field yield nil.
func ParseVerdict(reply string) *Verdict {
	start := strings.Index(reply, "{")
	if start < 0 {
		return nil
	}

	var raw rawVerdict
	if err := json.NewDecoder(strings.NewReader(reply[start:])).Decode(&raw); err != nil {
		return nil
	}
	if raw.IsPhishing == nil {
		return nil
	}
	return &Verdict{
		IsPhishing: *raw.IsPhishing,
		Confidence: raw.Confidence,
		Reasoning:  raw.Reasoning,
	}
}

// completer is the single-call surface shared by the model backends.
type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

func classifyWith(ctx context.Context, c completer, text string) (*Verdict, error) {
	reply, err := c.Complete(ctx, BuildClassificationPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}
	return ParseVerdict(reply), nil
}
