package health

import "context"

// CompletionChecker checks completion provider availability.
type CompletionChecker interface {
	HealthCheck(ctx context.Context) error
}

// CatalogIndex exposes the local image catalog index.
type CatalogIndex interface {
	Prefixes() map[string][]string
}
