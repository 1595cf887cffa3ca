// Package classifier decides whether a query is about the supported
// geographic domain. The verdict fails open: any provider failure admits
// the query rather than blocking legitimate traffic.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/maxange-developer/master-start2impact/internal/domain"
)

const relevancePrompt = `Analyze the following user request and determine whether it relates to Tenerife (Spain) or asks about other destinations, cities or countries.

Request: %q

Answer ONLY with a JSON object of the form {"is_tenerife_related": true} or {"is_tenerife_related": false}.

Treat the request as Tenerife-related when:
- It explicitly mentions Tenerife or the Canary Islands
- It is a generic tourism request without a destination (e.g. "beaches", "hikes", "restaurants") - assume the user searches in Tenerife
- It is vague but could refer to Tenerife in the context of a Tenerife-dedicated app

Treat it as NOT Tenerife-related when:
- It explicitly mentions other cities, regions or countries (e.g. "Madrid", "Barcelona", "Rome", "Paris", "New York")
- It is clearly about a destination other than Tenerife`

// Service asks the completion provider for a relevance verdict.
type Service struct {
	llm         domain.Completer
	temperature float32
	callTimeout time.Duration
	logger      *zap.Logger
}

// New creates a classifier service.
func New(llm domain.Completer, temperature float32, callTimeout time.Duration, logger *zap.Logger) *Service {
	return &Service{llm: llm, temperature: temperature, callTimeout: callTimeout, logger: logger}
}

// IsRelevant reports whether the query targets the supported domain.
// Never returns an error: transport failures, malformed JSON and missing
// fields all resolve to true.
func (s *Service) IsRelevant(ctx context.Context, query string) bool {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	content, err := s.llm.CompleteJSON(callCtx, domain.CompletionRequest{
		Op:          "classify",
		User:        fmt.Sprintf(relevancePrompt, query),
		Temperature: s.temperature,
	})
	if err != nil {
		s.logger.Warn("relevance check failed, admitting query",
			zap.String("query", query),
			zap.Error(err),
		)
		return true
	}

	var verdict struct {
		IsTenerifeRelated *bool `json:"is_tenerife_related"`
	}
	if err := json.Unmarshal([]byte(content), &verdict); err != nil || verdict.IsTenerifeRelated == nil {
		s.logger.Warn("relevance check returned unusable verdict, admitting query",
			zap.String("query", query),
			zap.String("content", content),
			zap.Error(err),
		)
		return true
	}

	s.logger.Debug("relevance verdict",
		zap.String("query", query),
		zap.Bool("is_relevant", *verdict.IsTenerifeRelated),
	)
	return *verdict.IsTenerifeRelated
}
