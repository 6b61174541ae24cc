// Package search runs web searches with automatic fallback. Google Custom
// Search is the primary engine when configured; DuckDuckGo covers the
// unconfigured and failure paths so research never depends on an API key.
package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/strategy-agent/internal/model"
	"github.com/sells-group/strategy-agent/pkg/duckduckgo"
	"github.com/sells-group/strategy-agent/pkg/googlesearch"
)

const defaultTopK = 5

// Recorder receives an audit entry for every provider call.
type Recorder interface {
	RecordTool(tool string, input, output any)
}

// Adapter dispatches queries to the configured providers.
type Adapter struct {
	google googlesearch.Client // nil when no API key is configured
	ddg    duckduckgo.Client
	rec    Recorder
}

// NewAdapter creates a search adapter. google may be nil; ddg and rec must
// not be.
func NewAdapter(google googlesearch.Client, ddg duckduckgo.Client, rec Recorder) *Adapter {
	return &Adapter{google: google, ddg: ddg, rec: rec}
}

// Search returns up to topK results for query. It tries Google first when
// configured and falls back to DuckDuckGo on any failure. Provider errors
// are logged and recorded, never returned: an empty slice means both
// providers came up dry.
func (a *Adapter) Search(ctx context.Context, query string, topK int) []model.SearchResult {
	if topK <= 0 {
		topK = defaultTopK
	}

	if a.google != nil {
		results, err := a.google.Search(ctx, query, topK)
		if err == nil {
			out := make([]model.SearchResult, 0, len(results))
			for _, r := range results {
				out = append(out, model.SearchResult{Title: r.Title, Link: r.Link, Snippet: r.Snippet})
			}
			a.rec.RecordTool("Google Search", query, out)
			return out
		}
		zap.L().Warn("google search failed, falling back to duckduckgo",
			zap.String("query", query), zap.Error(err))
	}

	hits, err := a.ddg.Text(ctx, query, topK)
	if err != nil {
		zap.L().Warn("duckduckgo search failed", zap.String("query", query), zap.Error(err))
		a.rec.RecordTool("Search Error", query, err.Error())
		return []model.SearchResult{}
	}

	out := make([]model.SearchResult, 0, len(hits))
	for _, h := range hits {
		out = append(out, model.SearchResult{Title: h.Title, Link: h.Href, Snippet: h.Body})
	}
	a.rec.RecordTool("DuckDuckGo", query, out)
	return out
}
