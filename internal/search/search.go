// Package search looks up web results used to verify candidate claims.
package search

import "context"

// Result is a single web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

// Provider runs a web query and returns at most limit results.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}
