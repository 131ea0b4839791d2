package lookupinfra

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pyguy/pybot/pkg/lookup"
)

const defaultEndpoint = "https://html.duckduckgo.com/html/"

// maxSnippets bounds how many result snippets are inspected per query
const maxSnippets = 3

// DuckDuckGoSearcher extracts result snippets from the DuckDuckGo HTML endpoint
type DuckDuckGoSearcher struct {
	client   *http.Client
	endpoint string
}

// SearcherOption configures a DuckDuckGoSearcher
type SearcherOption func(*DuckDuckGoSearcher)

// WithEndpoint overrides the search endpoint
func WithEndpoint(endpoint string) SearcherOption {
	return func(s *DuckDuckGoSearcher) {
		s.endpoint = endpoint
	}
}

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(client *http.Client) SearcherOption {
	return func(s *DuckDuckGoSearcher) {
		s.client = client
	}
}

// NewDuckDuckGoSearcher creates a searcher with the given request timeout
func NewDuckDuckGoSearcher(timeout time.Duration, opts ...SearcherOption) lookup.Searcher {
	s := &DuckDuckGoSearcher{
		client:   &http.Client{Timeout: timeout},
		endpoint: defaultEndpoint,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Search returns the first non-empty result snippet for the query.
// Every failure mode resolves to lookup.ErrUnavailable.
func (s *DuckDuckGoSearcher) Search(ctx context.Context, query string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.endpoint+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return "", lookup.ErrUnavailable().WithErr(err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; PyBot/1.0)")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", lookup.ErrUnavailable().WithErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", lookup.ErrUnavailable().WithDetail("status", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", lookup.ErrUnavailable().WithErr(err)
	}

	snippet := ""
	doc.Find(".result__snippet").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= maxSnippets {
			return false
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			snippet = text
			return false
		}
		return true
	})

	if snippet == "" {
		return "", lookup.ErrUnavailable().WithDetail("query", query)
	}

	return snippet, nil
}
