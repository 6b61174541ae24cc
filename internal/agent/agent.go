// Package agent orchestrates the research conversation: it classifies each
// user utterance, then dispatches to the research, comparison, follow-up, or
// canned-reply flow. All state lives in the session it owns.
package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/strategy-agent/internal/config"
	"github.com/sells-group/strategy-agent/internal/model"
	"github.com/sells-group/strategy-agent/internal/session"
	"github.com/sells-group/strategy-agent/pkg/anthropic"
)

const (
	offTopicReply = "I specialize in corporate strategy. Please ask me to research a company."
	greetingReply = "Hello! I am your Enterprise Research Agent. Ask me to 'Analyze Tesla' or 'Compare Ford and GM'."

	defaultMaxTokens      = 8192
	generationTemperature = 0.3
)

// Searcher runs a web search and returns normalized results. Failures are
// degraded to an empty slice inside the adapter, never returned.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) []model.SearchResult
}

// Financials fetches a market snapshot for a free-text company name.
type Financials interface {
	Fetch(ctx context.Context, company string) model.FinancialSnapshot
}

// StatusFunc receives progress notifications at fixed points in a flow. It
// is a side channel only; returning does not pause or cancel anything.
type StatusFunc func(msg string)

func notify(status StatusFunc, msg string) {
	if status != nil {
		status(msg)
	}
}

// Agent routes user utterances through the intent classifier and into the
// matching flow.
type Agent struct {
	llm        anthropic.Client
	search     Searcher
	finance    Financials
	session    *session.Session
	cfg        config.AnthropicConfig
	maxResults int
}

// New creates an agent. The session must be owned by exactly this agent;
// concurrent callers serialize through the caller (the HTTP server wraps Ask
// in a mutex).
func New(llm anthropic.Client, search Searcher, finance Financials, sess *session.Session, cfg config.AnthropicConfig, maxResults int) *Agent {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Agent{
		llm:        llm,
		search:     search,
		finance:    finance,
		session:    sess,
		cfg:        cfg,
		maxResults: maxResults,
	}
}

// Ask processes one user utterance and returns the assistant response. The
// utterance is appended to chat history before dispatch; the caller records
// the response.
func (a *Agent) Ask(ctx context.Context, userText string, status StatusFunc) string {
	a.session.AppendMessage("user", userText)

	notify(status, "Detecting intent...")
	decision := a.classifyIntent(ctx, userText)

	switch {
	case decision.Intent == model.IntentOffTopic:
		return offTopicReply
	case decision.Intent == model.IntentGreeting:
		return greetingReply
	case decision.Intent == model.IntentCompare && len(decision.Companies) >= 2:
		return a.Compare(ctx, decision.Companies, status)
	}

	company := userText
	if len(decision.Companies) > 0 {
		company = decision.Companies[0]
	}

	// Follow-up questions go to the most recently researched company. With
	// an empty memory there is nothing to follow up on, so the utterance is
	// treated as fresh research instead.
	if decision.Intent == model.IntentFollowUp {
		if last, ok := a.session.LastCompany(); ok {
			return a.answerFollowUp(ctx, last, userText)
		}
	}

	return a.Research(ctx, company, status)
}

// generate issues one LLM call and returns its text. Transport failures
// degrade to an inline error message rather than aborting the flow; the
// report pipeline keeps moving and surfaces the failure in its output.
func (a *Agent) generate(ctx context.Context, phase, prompt string, maxTokens int64) string {
	temp := generationTemperature
	resp, err := a.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       a.cfg.Model,
		MaxTokens:   maxTokens,
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: &temp,
	})
	if err != nil {
		zap.L().Error("llm call failed",
			zap.String("phase", phase),
			zap.Error(err),
		)
		return fmt.Sprintf("Error generating content: %v", err)
	}
	resp.Usage.LogCost(a.cfg.Model, phase)
	return anthropic.ExtractText(resp)
}
