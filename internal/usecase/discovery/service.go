// Package discovery orchestrates the activity discovery pipeline:
// relevance gate, context retrieval, extraction and image resolution.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/maxange-developer/master-start2impact/internal/domain"
	logpkg "github.com/maxange-developer/master-start2impact/internal/logger"
	"github.com/maxange-developer/master-start2impact/internal/metrics"
)

// anchorTerm is the domain anchor appended to suggestion queries that lack it.
const anchorTerm = "tenerife"

// Service sequences the pipeline stages. Terminal states: results, off-topic
// refusal, degraded empty results, or a typed fault (quota, credential,
// timeout) propagated to the boundary layer.
type Service struct {
	classifier RelevanceClassifier
	retriever  ContextRetriever
	extractor  ActivityExtractor
	resolver   ImageResolver

	resolveLimit int
	deadline     time.Duration
	logger       *zap.Logger
}

// New creates the pipeline orchestrator.
func New(
	classifier RelevanceClassifier,
	retriever ContextRetriever,
	extractor ActivityExtractor,
	resolver ImageResolver,
	resolveLimit int,
	deadline time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		classifier:   classifier,
		retriever:    retriever,
		extractor:    extractor,
		resolver:     resolver,
		resolveLimit: resolveLimit,
		deadline:     deadline,
		logger:       logger,
	}
}

// Discover runs the pipeline for one query. Response order follows
// extraction order, but callers must not rely on it.
func (s *Service) Discover(ctx context.Context, q domain.Query) (domain.SearchResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.deadline)
	defer cancel()

	resp, err := s.discover(ctx, q)
	if err != nil {
		// The pipeline deadline takes precedence over whatever error the
		// elapsed stage reported.
		if ctx.Err() != nil {
			metrics.PipelineRequestsTotal.WithLabelValues("fault").Inc()
			return domain.SearchResponse{}, fmt.Errorf("%w: %w", domain.ErrPipelineTimeout, err)
		}
		metrics.PipelineRequestsTotal.WithLabelValues("fault").Inc()
		return domain.SearchResponse{}, err
	}

	switch {
	case resp.OffTopic:
		metrics.PipelineRequestsTotal.WithLabelValues("off_topic").Inc()
	case len(resp.Results) == 0:
		metrics.PipelineRequestsTotal.WithLabelValues("empty").Inc()
	default:
		metrics.PipelineRequestsTotal.WithLabelValues("results").Inc()
	}
	return resp, nil
}

func (s *Service) discover(ctx context.Context, q domain.Query) (domain.SearchResponse, error) {
	// Request-scoped logger carries the request id when the HTTP layer set one.
	log := logpkg.FromContext(ctx, s.logger)

	// 1. Suggestion enhancement: a pre-curated query is trusted, but must
	// still carry the domain anchor for the searches to make sense.
	if q.IsSuggestion && !strings.Contains(strings.ToLower(q.Text), anchorTerm) {
		q.Text += " a Tenerife"
		log.Debug("suggestion query enhanced", zap.String("query", q.Text))
	}

	// 2. Relevance gate, skipped for suggestions.
	if !q.IsSuggestion && !s.classifier.IsRelevant(ctx, q.Text) {
		log.Info("off-topic query refused", zap.String("query", q.Text))
		return domain.NewOffTopicResponse(refusalMessage(q.Language)), nil
	}

	// 3. Context retrieval; degrades internally, never fails.
	blobs := s.retriever.Retrieve(ctx, q.Text)

	// 4. Extraction. Quota/credential faults propagate unchanged.
	activities, err := s.extractor.Extract(ctx, q.Text, blobs, q.Language)
	if err != nil {
		return domain.SearchResponse{}, fmt.Errorf("extract activities: %w", err)
	}
	if len(activities) == 0 {
		return domain.NewEmptyResponse(), nil
	}

	// 5. Image resolution, bounded concurrency. Resolve never fails, so the
	// group only stops early on context cancellation.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.resolveLimit)
	for i := range activities {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			activities[i].ImageURL = s.resolver.Resolve(gctx, activities[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.SearchResponse{}, fmt.Errorf("resolve images: %w", err)
	}

	// 6. Field normalization before exposure.
	for i := range activities {
		activities[i].ApplyDefaults()
	}

	log.Info("discovery completed",
		zap.String("query", q.Text),
		zap.String("language", q.Language),
		zap.Bool("is_suggestion", q.IsSuggestion),
		zap.Int("results", len(activities)),
	)
	return domain.SearchResponse{Results: activities}, nil
}

// IsTypedFault reports whether the error must cross the service boundary as
// a machine-readable fault rather than an empty result set.
func IsTypedFault(err error) bool {
	return errors.Is(err, domain.ErrQuotaExceeded) ||
		errors.Is(err, domain.ErrInvalidCredential) ||
		errors.Is(err, domain.ErrPipelineTimeout)
}
