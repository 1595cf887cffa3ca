// Package extractor turns web context into a structured activity list via
// the completion provider.
package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/maxange-developer/master-start2impact/internal/domain"
	"github.com/maxange-developer/master-start2impact/internal/usecase/webcontext"
)

// emptyResults substitutes a missing completion body before parsing. A
// missing body is a degraded response, never a parse error.
const emptyResults = `{"results": []}`

// Service extracts activities from context blobs.
type Service struct {
	llm           domain.Completer
	temperature   float32
	maxActivities int
	callTimeout   time.Duration
	logger        *zap.Logger
}

// New creates an extraction service.
func New(llm domain.Completer, temperature float32, maxActivities int, callTimeout time.Duration, logger *zap.Logger) *Service {
	return &Service{
		llm:           llm,
		temperature:   temperature,
		maxActivities: maxActivities,
		callTimeout:   callTimeout,
		logger:        logger,
	}
}

// Extract asks the completion provider for activities matching the query.
// Quota and credential faults propagate; any other failure (network,
// malformed JSON) degrades to an empty list. Every returned activity has
// its field defaults applied.
func (s *Service) Extract(
	ctx context.Context, query string, blobs webcontext.Blobs, language string,
) ([]domain.Activity, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	content, err := s.llm.CompleteJSON(callCtx, domain.CompletionRequest{
		Op:          "extract",
		System:      buildSystemPrompt(language, s.maxActivities),
		User:        buildUserPrompt(query, blobs),
		Temperature: s.temperature,
	})
	if err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) || errors.Is(err, domain.ErrInvalidCredential) {
			return nil, err
		}
		// A dead pipeline context is the orchestrator's timeout to surface;
		// only a per-call timeout degrades to empty results.
		if ctx.Err() != nil {
			return nil, err
		}
		s.logger.Warn("extraction failed, degrading to empty results",
			zap.String("query", query),
			zap.Error(err),
		)
		return []domain.Activity{}, nil
	}

	if content == "" {
		content = emptyResults
	}

	var parsed struct {
		Results []domain.Activity `json:"results"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		s.logger.Warn("extraction returned malformed JSON, degrading to empty results",
			zap.String("query", query),
			zap.Error(err),
		)
		return []domain.Activity{}, nil
	}

	activities := parsed.Results
	if len(activities) > s.maxActivities {
		activities = activities[:s.maxActivities]
	}
	if activities == nil {
		activities = []domain.Activity{}
	}

	for i := range activities {
		activities[i].ApplyDefaults()
	}

	s.logger.Debug("extraction completed",
		zap.String("query", query),
		zap.Int("activities", len(activities)),
	)
	return activities, nil
}
