package discovery

import (
	"context"

	"github.com/maxange-developer/master-start2impact/internal/domain"
	"github.com/maxange-developer/master-start2impact/internal/usecase/webcontext"
)

// RelevanceClassifier gates queries on domain relevance.
type RelevanceClassifier interface {
	IsRelevant(ctx context.Context, query string) bool
}

// ContextRetriever gathers web context for the extraction prompt.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string) webcontext.Blobs
}

// ActivityExtractor turns context blobs into candidate activities.
type ActivityExtractor interface {
	Extract(ctx context.Context, query string, blobs webcontext.Blobs, language string) ([]domain.Activity, error)
}

// ImageResolver attaches a displayable image to an activity.
type ImageResolver interface {
	Resolve(ctx context.Context, act domain.Activity) string
}
