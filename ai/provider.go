package ai

import (
	"fmt"

	"url-risk-analyzer/config"
)

// NewClassifier builds the backend selected by AI_PROVIDER. A nil
// classifier with nil error means AI classification is disabled.
func NewClassifier(cfg config.Config) (TextClassifier, error) {
	switch cfg.AIProvider {
	case config.ProviderGemini:
		c, err := NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.ProviderOpenAI:
		c, err := NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.ProviderNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AIProvider)
	}
}
