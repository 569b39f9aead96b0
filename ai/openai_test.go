package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chatCompletionTemplate = `{
	"id": "chatcmpl-test",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "gpt-4o-mini",
	"choices": [{
		"index": 0,
		"finish_reason": "stop",
		"message": {"role": "assistant", "content": %s}
	}],
	"usage": {"prompt_tokens": 120, "completion_tokens": 20, "total_tokens": 140}
}`

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewOpenAIClient("", "", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	c, err := NewOpenAIClient("sk-test", "", "")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", c.model)
}

func TestOpenAIClient_Classify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-test", body["model"])
		assert.InDelta(t, 0.2, body["temperature"], 0.0001)

		content, _ := json.Marshal(`{"isPhishing": false, "confidence": 0.3, "reasoning": "recipe blog"}`)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fmt.Sprintf(chatCompletionTemplate, string(content))))
	}))
	defer srv.Close()

	c, err := NewOpenAIClient("sk-test", "gpt-test", srv.URL)
	require.NoError(t, err)

	v, err := c.Classify(context.Background(), "Mix flour and sugar")

	require.NoError(t, err)
	assert.Equal(t, &Verdict{IsPhishing: false, Confidence: 0.3, Reasoning: "recipe blog"}, v)
}

func TestOpenAIClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad request","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	c, err := NewOpenAIClient("sk-test", "gpt-test", srv.URL)
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai chat completion")
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	}))
	defer srv.Close()

	c, err := NewOpenAIClient("sk-test", "gpt-test", srv.URL)
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
