// Package finance resolves a company name to a ticker symbol and fetches a
// market snapshot for it.
package finance

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/strategy-agent/internal/model"
	"github.com/sells-group/strategy-agent/pkg/yahoo"
)

const (
	errNoTicker = "Could not detect ticker."
	errNoData   = "No financial data available"

	maxSummaryLen = 500
)

// tickerPattern matches 1 to 5 consecutive uppercase letters. "Analyze F"
// and "TSLA outlook" both resolve; lowercase company names fall through to
// the search lookup.
var tickerPattern = regexp.MustCompile(`\b[A-Z]{1,5}\b`)

// Searcher resolves a ticker lookup query when the input contains no symbol.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) []model.SearchResult
}

// Recorder receives an audit entry for every market data call.
type Recorder interface {
	RecordTool(tool string, input, output any)
}

// Adapter fetches financial snapshots from Yahoo Finance.
type Adapter struct {
	market   yahoo.Client
	searcher Searcher
	rec      Recorder
}

// NewAdapter creates a financial adapter.
func NewAdapter(market yahoo.Client, searcher Searcher, rec Recorder) *Adapter {
	return &Adapter{market: market, searcher: searcher, rec: rec}
}

// Fetch resolves company to a ticker and returns its market snapshot. The
// returned snapshot is never nil: failures set Err instead so a report can
// note missing financials without aborting.
func (a *Adapter) Fetch(ctx context.Context, company string) model.FinancialSnapshot {
	ticker := a.detectTicker(ctx, company)
	if ticker == "" {
		return model.FinancialSnapshot{Err: errNoTicker}
	}

	snap, err := a.lookup(ctx, ticker)
	if err != nil {
		zap.L().Warn("financial lookup failed", zap.String("ticker", ticker), zap.Error(err))
		return model.FinancialSnapshot{Symbol: ticker, Err: err.Error()}
	}

	if snap.Err == "" {
		a.rec.RecordTool("YFinance", ticker, "Success")
	}
	return snap
}

// detectTicker scans the input for an uppercase symbol and falls back to a
// web search for the company's ticker.
func (a *Adapter) detectTicker(ctx context.Context, company string) string {
	if m := tickerPattern.FindString(company); m != "" {
		return m
	}

	hits := a.searcher.Search(ctx, company+" stock ticker symbol", 1)
	if len(hits) == 0 {
		return ""
	}
	return tickerPattern.FindString(strings.ToUpper(hits[0].Title))
}

// lookup tries the lightweight quote endpoint first and falls back to the
// fuller company summary when the quote carries no usable price.
func (a *Adapter) lookup(ctx context.Context, ticker string) (model.FinancialSnapshot, error) {
	quote, err := a.market.Quote(ctx, ticker)
	if err == nil && quote.Price > 0 {
		return model.FinancialSnapshot{
			Symbol:    quote.Symbol,
			MarketCap: quote.MarketCap,
			Price:     quote.Price,
			Currency:  quote.Currency,
			Source:    "yahoo quote",
		}, nil
	}

	summary, serr := a.market.Summary(ctx, ticker)
	if serr != nil {
		if err != nil {
			return model.FinancialSnapshot{}, err
		}
		return model.FinancialSnapshot{}, serr
	}
	if summary.Price <= 0 && summary.MarketCap <= 0 && summary.Profile == "" {
		return model.FinancialSnapshot{Symbol: ticker, Err: errNoData}, nil
	}

	return model.FinancialSnapshot{
		Symbol:    summary.Symbol,
		MarketCap: summary.MarketCap,
		Price:     summary.Price,
		Currency:  summary.Currency,
		Sector:    summary.Sector,
		Summary:   truncate(summary.Profile, maxSummaryLen),
		Source:    "yahoo summary",
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
