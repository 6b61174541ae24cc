// Package duckduckgo scrapes the DuckDuckGo HTML endpoint. It is the
// keyless fallback when no Custom Search credentials are configured.
package duckduckgo

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://html.duckduckgo.com/html/"

// userAgent identifies us as a plain browser; the HTML endpoint rejects
// empty agents.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// Client performs text searches against DuckDuckGo.
type Client interface {
	Text(ctx context.Context, query string, maxResults int) ([]Hit, error)
}

// Hit is a single result from the HTML results page.
type Hit struct {
	Title string `json:"title"`
	Href  string `json:"href"`
	Body  string `json:"body"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default endpoint URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a DuckDuckGo HTML client. No credentials are needed.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Text(ctx context.Context, query string, maxResults int) ([]Hit, error) {
	q := url.Values{}
	q.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "duckduckgo: create request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "duckduckgo: send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("duckduckgo: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "duckduckgo: parse response")
	}

	var hits []Hit
	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		anchor := sel.Find("a.result__a").First()
		title := strings.TrimSpace(anchor.Text())
		href, _ := anchor.Attr("href")
		body := strings.TrimSpace(sel.Find(".result__snippet").First().Text())

		if title == "" || href == "" {
			return true
		}

		hits = append(hits, Hit{
			Title: title,
			Href:  resolveRedirect(href),
			Body:  body,
		})
		return maxResults <= 0 || len(hits) < maxResults
	})

	return hits, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg=<target> redirect links to
// the target URL. Plain links pass through untouched.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
