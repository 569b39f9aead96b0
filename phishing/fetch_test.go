package phishing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	kind  FetchKind
	html  string
	err   error
	calls int
}

func (f *fakeFetcher) Kind() FetchKind { return f.kind }

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.html, f.err
}

func TestFetchChain_StaticSuccessShortCircuits(t *testing.T) {
	static := &fakeFetcher{kind: FetchStatic, html: "<html>static</html>"}
	rendered := &fakeFetcher{kind: FetchRendered, html: "<html>rendered</html>"}

	out := FetchChain{static, rendered}.Fetch(context.Background(), "https://example.com")

	assert.Equal(t, FetchOutcome{Kind: FetchStatic, HTML: "<html>static</html>"}, out)
	assert.True(t, out.Available())
	assert.Equal(t, 0, rendered.calls)
}

func TestFetchChain_FallsBackToRendered(t *testing.T) {
	static := &fakeFetcher{kind: FetchStatic, err: errors.New("unexpected status 403")}
	rendered := &fakeFetcher{kind: FetchRendered, html: "<html>rendered</html>"}

	out := FetchChain{static, rendered}.Fetch(context.Background(), "https://example.com")

	assert.Equal(t, FetchRendered, out.Kind)
	assert.Equal(t, "<html>rendered</html>", out.HTML)
	assert.Equal(t, 1, static.calls)
}

func TestFetchChain_AllFail(t *testing.T) {
	chain := FetchChain{
		&fakeFetcher{kind: FetchStatic, err: errors.New("timeout")},
		&fakeFetcher{kind: FetchRendered, err: errors.New("chrome not found")},
	}

	out := chain.Fetch(context.Background(), "https://example.com")

	assert.Equal(t, FetchUnavailable, out.Kind)
	assert.False(t, out.Available())
	assert.Empty(t, out.HTML)

	assert.False(t, FetchChain(nil).Fetch(context.Background(), "https://example.com").Available())
}

func TestFetchChain_StopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	static := &fakeFetcher{kind: FetchStatic, err: context.Canceled}
	rendered := &fakeFetcher{kind: FetchRendered, html: "<html></html>"}

	out := FetchChain{static, rendered}.Fetch(ctx, "https://example.com")

	assert.False(t, out.Available())
	assert.Equal(t, 0, rendered.calls)
}

func TestStaticFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, browserUserAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer srv.Close()

	f := NewStaticFetcher()
	html, err := f.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "<html><body>hello</body></html>", html)
	assert.Equal(t, FetchStatic, f.Kind())
}

func TestStaticFetcher_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewStaticFetcher().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 403")
}

func TestStaticFetcher_RedirectLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	}))
	defer srv.Close()

	_, err := NewStaticFetcher().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 302")
}

func TestRenderedFetcher_Defaults(t *testing.T) {
	f := NewRenderedFetcher("/usr/bin/chromium")
	assert.Equal(t, FetchRendered, f.Kind())
	assert.Equal(t, renderTimeout, f.Timeout)
	assert.Equal(t, "/usr/bin/chromium", f.ChromePath)
}
