package domain

import "context"

// WebSearchResult is a single web search hit.
type WebSearchResult struct {
	Title string
	URL   string
	// Content is the primary extracted text.
	Content string
	// Snippet is a secondary short extract, used when Content is empty.
	Snippet string
}

// WebSearchResponse holds search hits and, when requested, image URLs.
type WebSearchResponse struct {
	Results []WebSearchResult
	Images  []string
}

// WebSearchOptions bound a single search call.
type WebSearchOptions struct {
	// Depth is the provider search depth (basic, advanced).
	Depth string
	// MaxResults caps the number of hits.
	MaxResults int
	// IncludeImages asks the provider for image URLs.
	IncludeImages bool
}

// WebSearcher queries an external web search provider.
type WebSearcher interface {
	Search(ctx context.Context, query string, opts WebSearchOptions) (WebSearchResponse, error)
}
