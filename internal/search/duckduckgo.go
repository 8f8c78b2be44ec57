package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wolfman30/interview-coach/pkg/logging"
	"golang.org/x/net/html"
)

// DefaultDuckDuckGoURL is the HTML-only search endpoint.
const DefaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"

const sourceDuckDuckGo = "duckduckgo"

// DuckDuckGo queries the DuckDuckGo HTML endpoint and scrapes result blocks.
type DuckDuckGo struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     *logging.Logger
}

// Option configures a DuckDuckGo client.
type Option func(*DuckDuckGo)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(d *DuckDuckGo) {
		d.httpClient = client
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) Option {
	return func(d *DuckDuckGo) {
		d.logger = logger
	}
}

// WithTimeout bounds each search request.
func WithTimeout(timeout time.Duration) Option {
	return func(d *DuckDuckGo) {
		if timeout > 0 {
			d.httpClient.Timeout = timeout
		}
	}
}

// NewDuckDuckGo creates a search client. An empty baseURL uses DefaultDuckDuckGoURL.
func NewDuckDuckGo(baseURL string, opts ...Option) *DuckDuckGo {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultDuckDuckGoURL
	}
	d := &DuckDuckGo{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		userAgent:  "Mozilla/5.0 (compatible; interview-coach/1.0)",
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Search implements Provider.
func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search: query is required")
	}
	if limit <= 0 {
		limit = 5
	}

	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("search: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	results, err := parseResults(resp.Body, limit)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("search completed", "query", query, "results", len(results))
	return results, nil
}

// parseResults extracts result__a links and result__snippet text from the page.
func parseResults(r io.Reader, limit int) ([]Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("search: parse html: %w", err)
	}

	var results []Result
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if len(results) > limit {
			return
		}
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result__a"):
				results = append(results, Result{
					Title:  textContent(n),
					URL:    resolveLink(attr(n, "href")),
					Source: sourceDuckDuckGo,
				})
				return
			case hasClass(n, "result__snippet"):
				if len(results) > 0 && results[len(results)-1].Snippet == "" {
					results[len(results)-1].Snippet = textContent(n)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// resolveLink unwraps DuckDuckGo redirect links (/l/?uddg=<target>).
func resolveLink(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" && strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	return href
}
