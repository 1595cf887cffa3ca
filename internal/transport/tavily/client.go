package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/maxange-developer/master-start2impact/internal/domain"
	"github.com/maxange-developer/master-start2impact/internal/metrics"
)

const defaultBaseURL = "https://api.tavily.com"

// Client is a web search provider over the Tavily REST API.
type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

// Config holds the search provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Logger  *zap.Logger
}

// NewClient creates a Tavily search client. Per-call deadlines come from the
// request context; the transport itself carries no timeout.
func NewClient(cfg *Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		httpc:   &http.Client{},
		logger:  cfg.Logger,
	}
}

// searchPayload is the Tavily /search request body.
type searchPayload struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth,omitempty"`
	MaxResults    int    `json:"max_results,omitempty"`
	IncludeImages bool   `json:"include_images"`
}

// searchResponse is the Tavily /search response body.
type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
		Snippet string `json:"snippet"`
	} `json:"results"`
	Images []string `json:"images"`
}

// Search implements domain.WebSearcher.
func (c *Client) Search(
	ctx context.Context, query string, opts domain.WebSearchOptions,
) (domain.WebSearchResponse, error) {
	kind := "web"
	if opts.IncludeImages {
		kind = "image"
	}

	body, err := json.Marshal(searchPayload{
		APIKey:        c.apiKey,
		Query:         query,
		SearchDepth:   opts.Depth,
		MaxResults:    opts.MaxResults,
		IncludeImages: opts.IncludeImages,
	})
	if err != nil {
		return domain.WebSearchResponse{}, fmt.Errorf("marshal search payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return domain.WebSearchResponse{}, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()

	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.WebSearchRequestsTotal.WithLabelValues(kind, "error").Inc()
		return domain.WebSearchResponse{}, fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.WebSearchRequestsTotal.WithLabelValues(kind, "error").Inc()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.WebSearchResponse{}, fmt.Errorf("search API status %d: %s", resp.StatusCode, snippet)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.WebSearchRequestsTotal.WithLabelValues(kind, "error").Inc()
		return domain.WebSearchResponse{}, fmt.Errorf("decode search response: %w", err)
	}

	metrics.WebSearchRequestsTotal.WithLabelValues(kind, "success").Inc()
	metrics.WebSearchRequestDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	out := domain.WebSearchResponse{Images: parsed.Images}
	for _, r := range parsed.Results {
		out.Results = append(out.Results, domain.WebSearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
			Snippet: r.Snippet,
		})
	}

	c.logger.Debug("web search completed",
		zap.String("kind", kind),
		zap.Int("results", len(out.Results)),
		zap.Int("images", len(out.Images)),
	)

	return out, nil
}
