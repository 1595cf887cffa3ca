// Package webcontext gathers web search context for the extraction prompt.
package webcontext

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/maxange-developer/master-start2impact/internal/domain"
)

// Blobs holds the two context blobs fed into the extraction prompt.
type Blobs struct {
	// Activities is general activity context.
	Activities string
	// Reviews is review/rating context.
	Reviews string
}

// Service retrieves web context via two concurrent searches. Purely
// functional given the query text: no retries, no caching, and failures
// collapse to empty blobs instead of errors.
type Service struct {
	search      domain.WebSearcher
	depth       string
	maxResults  int
	callTimeout time.Duration
	logger      *zap.Logger
}

// New creates a context retrieval service.
func New(search domain.WebSearcher, depth string, maxResults int, callTimeout time.Duration, logger *zap.Logger) *Service {
	return &Service{
		search:      search,
		depth:       depth,
		maxResults:  maxResults,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

// Retrieve runs the activity and review searches concurrently and joins
// them. Either blob degrades to "" when its search fails.
func (s *Service) Retrieve(ctx context.Context, query string) Blobs {
	activityQuery := fmt.Sprintf("Tenerife activities: %s", query)
	reviewsQuery := fmt.Sprintf("Tenerife %s recensioni Google valutazione stelle rating TripAdvisor", query)

	var blobs Blobs

	// Plain group: one search failing must not cancel the other.
	var g errgroup.Group
	g.Go(func() error {
		blobs.Activities = s.searchBlob(ctx, "activities", activityQuery)
		return nil
	})
	g.Go(func() error {
		blobs.Reviews = s.searchBlob(ctx, "reviews", reviewsQuery)
		return nil
	})
	_ = g.Wait()

	return blobs
}

// searchBlob runs one search and flattens its results into a text blob.
func (s *Service) searchBlob(ctx context.Context, name, query string) string {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	resp, err := s.search.Search(callCtx, query, domain.WebSearchOptions{
		Depth:      s.depth,
		MaxResults: s.maxResults,
	})
	if err != nil {
		s.logger.Warn("context search failed, degrading to empty blob",
			zap.String("search", name),
			zap.Error(err),
		)
		return ""
	}

	var b strings.Builder
	for _, r := range resp.Results {
		content := r.Content
		if content == "" {
			content = r.Snippet
		}
		fmt.Fprintf(&b, "Title: %s\nURL: %s\nContent: %s\n\n", r.Title, r.URL, content)
	}
	return b.String()
}
