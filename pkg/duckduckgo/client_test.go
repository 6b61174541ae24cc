package duckduckgo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `<!DOCTYPE html>
<html><body>
<div class="result results_links results_links_deep web-result">
  <h2 class="result__title">
    <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.tesla.com%2F&amp;rut=abc">Tesla | Electric Cars</a>
  </h2>
  <a class="result__snippet" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.tesla.com%2F">Tesla is accelerating the world's transition to sustainable energy.</a>
</div>
<div class="result">
  <h2 class="result__title">
    <a class="result__a" href="https://en.wikipedia.org/wiki/Tesla,_Inc.">Tesla, Inc. - Wikipedia</a>
  </h2>
  <a class="result__snippet">Tesla, Inc. is an American multinational automotive company.</a>
</div>
<div class="result">
  <h2 class="result__title">
    <a class="result__a" href="https://ir.tesla.com">Tesla Investor Relations</a>
  </h2>
  <a class="result__snippet">Quarterly results and shareholder information.</a>
</div>
</body></html>`

func TestText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Tesla strategic analysis news", r.URL.Query().Get("q"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	hits, err := client.Text(context.Background(), "Tesla strategic analysis news", 5)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	// Redirect links are unwrapped to the target URL.
	assert.Equal(t, "Tesla | Electric Cars", hits[0].Title)
	assert.Equal(t, "https://www.tesla.com/", hits[0].Href)
	assert.Contains(t, hits[0].Body, "sustainable energy")

	// Plain links pass through.
	assert.Equal(t, "https://en.wikipedia.org/wiki/Tesla,_Inc.", hits[1].Href)
}

func TestTextMaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	hits, err := client.Text(context.Background(), "Tesla", 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestTextNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.Text(context.Background(), "Tesla", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 403")
}

func TestTextNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div class="no-results">No results.</div></body></html>`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	hits, err := client.Text(context.Background(), "zzzz", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestResolveRedirect(t *testing.T) {
	tests := []struct {
		name string
		href string
		want string
	}{
		{"redirect", "//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fpage&rut=x", "https://example.com/page"},
		{"plain", "https://example.com", "https://example.com"},
		{"no uddg param", "//duckduckgo.com/l/?rut=x", "//duckduckgo.com/l/?rut=x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveRedirect(tt.href))
		})
	}
}
