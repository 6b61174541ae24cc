// Package yahoo fetches market data from the public Yahoo Finance JSON
// endpoints. No API key is required; Yahoo throttles aggressively, so the
// client rate-limits itself.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	defaultTimeout = 10 * time.Second
	userAgent      = "Mozilla/5.0 (compatible; strategy-agent/1.0)"

	summaryModules = "price,summaryDetail,assetProfile"
)

// Quote is a lightweight real-time quote.
type Quote struct {
	Symbol    string
	Name      string
	Price     float64
	MarketCap float64
	Currency  string
}

// Summary carries the company profile fields the quoteSummary endpoint
// exposes on top of the quote data.
type Summary struct {
	Symbol    string
	Name      string
	Price     float64
	MarketCap float64
	Currency  string
	Sector    string
	Industry  string
	Website   string
	Profile   string
}

// Client talks to Yahoo Finance.
type Client interface {
	// Quote fetches a real-time quote via the v7 quote endpoint.
	Quote(ctx context.Context, symbol string) (*Quote, error)
	// Summary fetches quote plus company profile via the v10 quoteSummary
	// endpoint.
	Summary(ctx context.Context, symbol string) (*Summary, error)
}

// Option configures the client.
type Option func(*client)

// WithBaseURL overrides the API host.
func WithBaseURL(u string) Option {
	return func(c *client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) { c.httpClient = hc }
}

type client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Yahoo Finance client.
func NewClient(opts ...Option) Client {
	c := &client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second/5), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- wire types ---

type quoteResponse struct {
	QuoteResponse struct {
		Result []quoteResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"quoteResponse"`
}

type quoteResult struct {
	Symbol             string  `json:"symbol"`
	ShortName          string  `json:"shortName"`
	LongName           string  `json:"longName"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	MarketCap          float64 `json:"marketCap"`
	Currency           string  `json:"currency"`
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []summaryResult `json:"result"`
		Error  *apiError       `json:"error"`
	} `json:"quoteSummary"`
}

type summaryResult struct {
	Price *struct {
		Symbol             string `json:"symbol"`
		ShortName          string `json:"shortName"`
		LongName           string `json:"longName"`
		Currency           string `json:"currency"`
		RegularMarketPrice rawVal `json:"regularMarketPrice"`
		MarketCap          rawVal `json:"marketCap"`
	} `json:"price"`
	SummaryDetail *struct {
		MarketCap rawVal `json:"marketCap"`
	} `json:"summaryDetail"`
	AssetProfile *struct {
		Sector              string `json:"sector"`
		Industry            string `json:"industry"`
		Website             string `json:"website"`
		LongBusinessSummary string `json:"longBusinessSummary"`
	} `json:"assetProfile"`
}

// rawVal handles Yahoo's {"raw": n, "fmt": "..."} number wrappers.
type rawVal struct {
	Raw float64 `json:"raw"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// --- public methods ---

func (c *client) Quote(ctx context.Context, symbol string) (*Quote, error) {
	u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", c.baseURL, url.QueryEscape(symbol))

	var resp quoteResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	if resp.QuoteResponse.Error != nil {
		return nil, eris.Errorf("yahoo: quote %s: %s", symbol, resp.QuoteResponse.Error.Description)
	}
	if len(resp.QuoteResponse.Result) == 0 {
		return nil, eris.Errorf("yahoo: symbol not found: %s", symbol)
	}

	r := resp.QuoteResponse.Result[0]
	return &Quote{
		Symbol:    r.Symbol,
		Name:      coalesce(r.LongName, r.ShortName),
		Price:     r.RegularMarketPrice,
		MarketCap: r.MarketCap,
		Currency:  r.Currency,
	}, nil
}

func (c *client) Summary(ctx context.Context, symbol string) (*Summary, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.baseURL, url.PathEscape(symbol), summaryModules)

	var resp summaryResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	if resp.QuoteSummary.Error != nil {
		return nil, eris.Errorf("yahoo: summary %s: %s", symbol, resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, eris.Errorf("yahoo: symbol not found: %s", symbol)
	}

	r := resp.QuoteSummary.Result[0]
	s := &Summary{Symbol: symbol}
	if r.Price != nil {
		if r.Price.Symbol != "" {
			s.Symbol = r.Price.Symbol
		}
		s.Name = coalesce(r.Price.LongName, r.Price.ShortName)
		s.Price = r.Price.RegularMarketPrice.Raw
		s.MarketCap = r.Price.MarketCap.Raw
		s.Currency = r.Price.Currency
	}
	if s.MarketCap == 0 && r.SummaryDetail != nil {
		s.MarketCap = r.SummaryDetail.MarketCap.Raw
	}
	if r.AssetProfile != nil {
		s.Sector = r.AssetProfile.Sector
		s.Industry = r.AssetProfile.Industry
		s.Website = r.AssetProfile.Website
		s.Profile = r.AssetProfile.LongBusinessSummary
	}
	return s, nil
}

func (c *client) getJSON(ctx context.Context, u string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "yahoo: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return eris.Wrap(err, "yahoo: build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return eris.Wrap(err, "yahoo: execute request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("yahoo: unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return eris.Wrap(err, "yahoo: decode response")
	}
	return nil
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
