package images

import (
	"context"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/maxange-developer/master-start2impact/internal/domain"
	"github.com/maxange-developer/master-start2impact/internal/metrics"
)

// Resolver attaches an image to an activity via a tiered fallback chain:
// remote search, then keyword, fuzzy, category and finally any catalog
// prefix. Whenever the catalog is non-empty some catalog image is returned;
// an empty catalog yields the configured default image.
type Resolver struct {
	search   domain.WebSearcher
	catalog  *Catalog
	mappings Mappings

	publicBase         string
	defaultImage       string
	imageSearchResults int
	callTimeout        time.Duration
	logger             *zap.Logger

	intn func(n int) int
}

// ResolverConfig holds resolver settings.
type ResolverConfig struct {
	PublicBase         string
	DefaultImage       string
	ImageSearchResults int
	CallTimeout        time.Duration
	Logger             *zap.Logger
}

// NewResolver creates an image resolver. search may be nil to disable the
// remote tier (local-only resolution).
func NewResolver(search domain.WebSearcher, catalog *Catalog, mappings Mappings, cfg ResolverConfig) *Resolver {
	return &Resolver{
		search:             search,
		catalog:            catalog,
		mappings:           mappings,
		publicBase:         cfg.PublicBase,
		defaultImage:       cfg.DefaultImage,
		imageSearchResults: cfg.ImageSearchResults,
		callTimeout:        cfg.CallTimeout,
		logger:             cfg.Logger,
		intn:               rand.IntN,
	}
}

// WithRand overrides the random source. Tests inject a deterministic one.
func (r *Resolver) WithRand(intn func(n int) int) *Resolver {
	r.intn = intn
	return r
}

// Resolve returns a public image URL for the activity. Never fails: remote
// search errors fall through to the local chain, and the local chain always
// produces a path.
func (r *Resolver) Resolve(ctx context.Context, act domain.Activity) string {
	if url, ok := r.resolveRemote(ctx, act); ok {
		metrics.ImageResolutionsTotal.WithLabelValues("remote").Inc()
		return url
	}
	return r.resolveLocal(act)
}

// resolveRemote tries the provider image search keyed by title + location.
func (r *Resolver) resolveRemote(ctx context.Context, act domain.Activity) (string, bool) {
	if r.search == nil {
		return "", false
	}

	query := strings.TrimSpace("Tenerife " + act.Title + " " + act.Location)

	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	resp, err := r.search.Search(callCtx, query, domain.WebSearchOptions{
		MaxResults:    r.imageSearchResults,
		IncludeImages: true,
	})
	if err != nil {
		r.logger.Warn("image search failed, falling back to local catalog",
			zap.String("title", act.Title),
			zap.Error(err),
		)
		return "", false
	}
	if len(resp.Images) == 0 {
		return "", false
	}
	return resp.Images[0], true
}

// resolveLocal walks the keyword → fuzzy → category → any fallback chain
// over the catalog and picks a random file from a random matched prefix.
func (r *Resolver) resolveLocal(act domain.Activity) string {
	available := r.catalog.Prefixes()
	if len(available) == 0 {
		metrics.ImageResolutionsTotal.WithLabelValues("default").Inc()
		return r.defaultImage
	}

	searchText := strings.ToLower(act.Title + " " + act.Category + " " + act.Location)

	tier := "keyword"
	matched := r.matchKeywords(searchText, available)
	if len(matched) == 0 {
		tier = "fuzzy"
		matched = matchFuzzy(searchText, available)
	}
	if len(matched) == 0 {
		tier = "category"
		matched = r.matchCategory(act.Category, available)
	}
	if len(matched) == 0 {
		tier = "any"
		matched = allPrefixes(available)
	}
	metrics.ImageResolutionsTotal.WithLabelValues(tier).Inc()

	matched = dedupe(matched)

	prefix := matched[r.intn(len(matched))]
	files := available[prefix]
	file := files[r.intn(len(files))]

	url := strings.TrimSuffix(r.publicBase, "/") + "/" + file
	r.logger.Debug("local image resolved",
		zap.String("title", act.Title),
		zap.String("tier", tier),
		zap.String("prefix", prefix),
		zap.String("image", url),
	)
	return url
}

func (r *Resolver) matchKeywords(searchText string, available map[string][]string) []string {
	var matched []string
	// Deterministic iteration keeps the candidate set stable for seeded tests.
	keywords := make([]string, 0, len(r.mappings.Keywords))
	for k := range r.mappings.Keywords {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)

	for _, keyword := range keywords {
		if !strings.Contains(searchText, keyword) {
			continue
		}
		for _, prefix := range r.mappings.Keywords[keyword] {
			if _, ok := available[prefix]; ok {
				matched = append(matched, prefix)
			}
		}
	}
	return matched
}

// matchFuzzy matches any catalog prefix sharing at least one word with the
// search text (prefix hyphens read as spaces).
func matchFuzzy(searchText string, available map[string][]string) []string {
	searchWords := make(map[string]struct{})
	for _, w := range strings.Fields(searchText) {
		searchWords[w] = struct{}{}
	}

	var matched []string
	for _, prefix := range allPrefixes(available) {
		for _, w := range strings.Fields(strings.ReplaceAll(prefix, "-", " ")) {
			if _, ok := searchWords[w]; ok {
				matched = append(matched, prefix)
				break
			}
		}
	}
	return matched
}

func (r *Resolver) matchCategory(category string, available map[string][]string) []string {
	var matched []string
	for _, prefix := range r.mappings.Categories[strings.ToLower(category)] {
		if _, ok := available[prefix]; ok {
			matched = append(matched, prefix)
		}
	}
	return matched
}

func allPrefixes(available map[string][]string) []string {
	prefixes := make([]string, 0, len(available))
	for p := range available {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	return prefixes
}

// dedupe removes duplicates preserving order.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
