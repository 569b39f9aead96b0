package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"url-risk-analyzer/config"
)

func TestNewClassifier(t *testing.T) {
	c, err := NewClassifier(config.Config{AIProvider: config.ProviderGemini, GeminiAPIKey: "k", GeminiModel: "m"})
	require.NoError(t, err)
	assert.IsType(t, &GeminiClient{}, c)

	c, err = NewClassifier(config.Config{AIProvider: config.ProviderOpenAI, OpenAIAPIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	c, err = NewClassifier(config.Config{AIProvider: config.ProviderNone})
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = NewClassifier(config.Config{AIProvider: config.ProviderGemini})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewClassifier(config.Config{AIProvider: "claude"})
	assert.Error(t, err)
}
