package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"url-risk-analyzer/history"
	"url-risk-analyzer/phishing"
)

type fakeAnalyzer struct {
	mu   sync.Mutex
	seen []string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, rawURL string) phishing.Result {
	f.mu.Lock()
	f.seen = append(f.seen, rawURL)
	f.mu.Unlock()
	return phishing.Result{
		URL:        rawURL,
		RiskScore:  45,
		RiskLevel:  phishing.LevelMedium,
		Confidence: phishing.ConfidenceMedium,
		Reasons:    []string{"URL does not use HTTPS"},
		Breakdown:  phishing.Breakdown{Lexical: 45},
	}
}

func newTestServer() (*fakeAnalyzer, *history.Store, http.Handler) {
	fa := &fakeAnalyzer{}
	store := history.NewStore(5)
	return fa, store, New(fa, store).Routes()
}

func TestIndex(t *testing.T) {
	_, _, h := newTestServer()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Phishing Detection API Running", rec.Body.String())
}

func TestAnalyze_RequiresURL(t *testing.T) {
	fa, store, h := newTestServer()

	for _, body := range []string{`{}`, `{"url":"   "}`, `not json`} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.JSONEq(t, `{"message":"URL is required"}`, rec.Body.String())
	}
	assert.Empty(t, fa.seen)
	assert.Zero(t, store.Len())
}

func TestAnalyze_ReturnsResultAndRecordsHistory(t *testing.T) {
	fa, store, h := newTestServer()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"url":"http://paypa1-login.test"}`))
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "http://paypa1-login.test", got["url"])
	assert.EqualValues(t, 45, got["riskScore"])
	assert.Equal(t, "Medium Risk", got["riskLevel"])
	assert.Equal(t, "Medium", got["confidence"])
	assert.Contains(t, got, "breakdown")

	assert.Equal(t, []string{"http://paypa1-login.test"}, fa.seen)
	entries := store.List()
	require.Len(t, entries, 1)
	assert.Equal(t, "http://paypa1-login.test", entries[0].URL)
	assert.Equal(t, 45, entries[0].RiskScore)
}

func TestHistory(t *testing.T) {
	_, _, h := newTestServer()

	for _, u := range []string{"http://a.test", "http://b.test"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"url":"`+u+`"}`)))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []history.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "http://b.test", entries[0].URL)
	assert.Equal(t, "http://a.test", entries[1].URL)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
}

func TestCORSPreflight(t *testing.T) {
	_, _, h := newTestServer()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/analyze", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}
