package main

import (
	"net/http"
	"time"

	"github.com/sells-group/strategy-agent/internal/agent"
	"github.com/sells-group/strategy-agent/internal/config"
	"github.com/sells-group/strategy-agent/internal/finance"
	"github.com/sells-group/strategy-agent/internal/search"
	"github.com/sells-group/strategy-agent/internal/session"
	"github.com/sells-group/strategy-agent/pkg/anthropic"
	"github.com/sells-group/strategy-agent/pkg/duckduckgo"
	"github.com/sells-group/strategy-agent/pkg/googlesearch"
	"github.com/sells-group/strategy-agent/pkg/yahoo"
)

// buildAgent wires the provider clients, adapters, and session into one
// agent. The config must already be validated.
func buildAgent(cfg *config.Config) (*agent.Agent, *session.Session) {
	sess := session.New()

	var google googlesearch.Client
	if cfg.Search.GoogleConfigured() {
		google = googlesearch.NewClient(
			cfg.Search.GoogleKey,
			cfg.Search.GoogleEngineID,
			googlesearch.WithHTTPClient(&http.Client{
				Timeout: time.Duration(cfg.Search.TimeoutSecs) * time.Second,
			}),
		)
	}
	searcher := search.NewAdapter(google, duckduckgo.NewClient(), sess)

	var yahooOpts []yahoo.Option
	if cfg.Yahoo.BaseURL != "" {
		yahooOpts = append(yahooOpts, yahoo.WithBaseURL(cfg.Yahoo.BaseURL))
	}
	financials := finance.NewAdapter(yahoo.NewClient(yahooOpts...), searcher, sess)

	llm := anthropic.NewClient(cfg.Anthropic.Key)

	return agent.New(llm, searcher, financials, sess, cfg.Anthropic, cfg.Search.MaxResults), sess
}
