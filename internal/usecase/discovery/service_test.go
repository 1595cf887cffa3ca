package discovery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/maxange-developer/master-start2impact/internal/domain"
	logpkg "github.com/maxange-developer/master-start2impact/internal/logger"
	"github.com/maxange-developer/master-start2impact/internal/metrics"
	"github.com/maxange-developer/master-start2impact/internal/usecase/webcontext"
)

func TestMain(m *testing.M) {
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

// --- Mocks ---

type mockClassifier struct {
	relevant bool
	called   bool
	lastQ    string
}

func (m *mockClassifier) IsRelevant(_ context.Context, query string) bool {
	m.called = true
	m.lastQ = query
	return m.relevant
}

type mockRetriever struct {
	blobs  webcontext.Blobs
	called bool
	lastQ  string
}

func (m *mockRetriever) Retrieve(_ context.Context, query string) webcontext.Blobs {
	m.called = true
	m.lastQ = query
	return m.blobs
}

type mockExtractor struct {
	activities []domain.Activity
	err        error
	lastLang   string
	lastBlobs  webcontext.Blobs
}

func (m *mockExtractor) Extract(
	_ context.Context, _ string, blobs webcontext.Blobs, language string,
) ([]domain.Activity, error) {
	m.lastLang = language
	m.lastBlobs = blobs
	return m.activities, m.err
}

type mockResolver struct {
	url      string
	mu       sync.Mutex
	inFlight atomic.Int32
	maxSeen  int32
	delay    time.Duration
	titles   []string
}

func (m *mockResolver) Resolve(_ context.Context, act domain.Activity) string {
	cur := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)

	m.mu.Lock()
	if cur > m.maxSeen {
		m.maxSeen = cur
	}
	m.titles = append(m.titles, act.Title)
	m.mu.Unlock()

	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	return m.url
}

func newService(c *mockClassifier, r *mockRetriever, e *mockExtractor, res *mockResolver) *Service {
	return New(c, r, e, res, 5, 30*time.Second, zap.NewNop())
}

func activities(titles ...string) []domain.Activity {
	out := make([]domain.Activity, len(titles))
	for i, ti := range titles {
		out[i] = domain.Activity{Title: ti, Description: "d", Price: "€10"}
	}
	return out
}

// --- Tests ---

func TestDiscover_Success(t *testing.T) {
	c := &mockClassifier{relevant: true}
	r := &mockRetriever{blobs: webcontext.Blobs{Activities: "ctx", Reviews: "rev"}}
	e := &mockExtractor{activities: activities("Teide Tour", "Whale Watching")}
	res := &mockResolver{url: "/images/blog/teide-1.jpg"}
	svc := newService(c, r, e, res)

	resp, err := svc.Discover(context.Background(), domain.NewQuery("volcano tours", "en", false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	for _, a := range resp.Results {
		if a.ImageURL != "/images/blog/teide-1.jpg" {
			t.Errorf("image not attached: %+v", a)
		}
	}
	if e.lastBlobs != r.blobs {
		t.Error("extractor must receive the retrieved blobs")
	}
	if e.lastLang != "en" {
		t.Errorf("unexpected language: %q", e.lastLang)
	}
}

func TestDiscover_SuggestionSkipsClassifier(t *testing.T) {
	c := &mockClassifier{relevant: false} // would refuse if consulted
	r := &mockRetriever{}
	e := &mockExtractor{activities: activities("A")}
	svc := newService(c, r, e, &mockResolver{url: "x"})

	resp, err := svc.Discover(context.Background(), domain.NewQuery("spiagge a Tenerife", "it", true))
	if err != nil {
		t.Fatal(err)
	}
	if c.called {
		t.Error("classifier must never run for suggestions")
	}
	if resp.OffTopic {
		t.Error("suggestions are never off-topic")
	}
}

func TestDiscover_SuggestionEnhancedWithAnchor(t *testing.T) {
	r := &mockRetriever{}
	e := &mockExtractor{activities: activities("A")}
	svc := newService(&mockClassifier{}, r, e, &mockResolver{url: "x"})

	if _, err := svc.Discover(context.Background(), domain.NewQuery("migliori spiagge", "it", true)); err != nil {
		t.Fatal(err)
	}
	if want := "migliori spiagge a Tenerife"; r.lastQ != want {
		t.Errorf("query not enhanced: got %q, want %q", r.lastQ, want)
	}
}

func TestDiscover_SuggestionWithAnchorNotEnhanced(t *testing.T) {
	r := &mockRetriever{}
	e := &mockExtractor{activities: activities("A")}
	svc := newService(&mockClassifier{}, r, e, &mockResolver{url: "x"})

	if _, err := svc.Discover(context.Background(), domain.NewQuery("Best beaches in TENERIFE", "en", true)); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(r.lastQ, "a Tenerife") {
		t.Errorf("anchored query must not be enhanced: %q", r.lastQ)
	}
}

func TestDiscover_OffTopicShortCircuit(t *testing.T) {
	c := &mockClassifier{relevant: false}
	r := &mockRetriever{}
	e := &mockExtractor{activities: activities("A")}
	svc := newService(c, r, e, &mockResolver{url: "x"})

	resp, err := svc.Discover(context.Background(), domain.NewQuery("hotels in Paris", "es", false))
	if err != nil {
		t.Fatal(err)
	}
	if !resp.OffTopic {
		t.Fatal("expected off_topic response")
	}
	if len(resp.Results) != 0 {
		t.Errorf("off_topic implies empty results, got %d", len(resp.Results))
	}
	if resp.Message == "" {
		t.Error("off_topic implies a non-empty message")
	}
	if r.called {
		t.Error("context retrieval must be skipped for off-topic queries")
	}
}

func TestDiscover_OffTopicMessageLocalized(t *testing.T) {
	tests := []struct {
		language string
		want     string
	}{
		{"es", offTopicMessages["es"]},
		{"en", offTopicMessages["en"]},
		{"it", offTopicMessages["it"]},
		// Unsupported codes fall back to the default language.
		{"de", offTopicMessages["es"]},
		{"", offTopicMessages["es"]},
	}
	for _, tt := range tests {
		c := &mockClassifier{relevant: false}
		svc := newService(c, &mockRetriever{}, &mockExtractor{}, &mockResolver{})

		resp, err := svc.Discover(context.Background(), domain.NewQuery("Paris", tt.language, false))
		if err != nil {
			t.Fatal(err)
		}
		if resp.Message != tt.want {
			t.Errorf("language %q: got %q, want %q", tt.language, resp.Message, tt.want)
		}
	}
}

func TestDiscover_ExtractionEmptyYieldsEmptyResponse(t *testing.T) {
	svc := newService(
		&mockClassifier{relevant: true},
		&mockRetriever{},
		&mockExtractor{activities: []domain.Activity{}},
		&mockResolver{},
	)

	resp, err := svc.Discover(context.Background(), domain.NewQuery("q", "es", false))
	if err != nil {
		t.Fatal(err)
	}
	if resp.OffTopic {
		t.Error("degraded response must not be off_topic")
	}
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Errorf("expected empty non-nil results, got %v", resp.Results)
	}
}

func TestDiscover_QuotaFaultPropagates(t *testing.T) {
	svc := newService(
		&mockClassifier{relevant: true},
		&mockRetriever{},
		&mockExtractor{err: fmt.Errorf("completion API error 429: %w", domain.ErrQuotaExceeded)},
		&mockResolver{},
	)

	_, err := svc.Discover(context.Background(), domain.NewQuery("q", "es", false))
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestDiscover_CredentialFaultPropagates(t *testing.T) {
	svc := newService(
		&mockClassifier{relevant: true},
		&mockRetriever{},
		&mockExtractor{err: fmt.Errorf("completion API error 401: %w", domain.ErrInvalidCredential)},
		&mockResolver{},
	)

	_, err := svc.Discover(context.Background(), domain.NewQuery("q", "es", false))
	if !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestDiscover_NormalizationBeforeReturn(t *testing.T) {
	svc := newService(
		&mockClassifier{relevant: true},
		&mockRetriever{},
		&mockExtractor{activities: []domain.Activity{{Description: "no title, no price"}}},
		&mockResolver{url: "/images/blog/playa-1.jpg"},
	)

	resp, err := svc.Discover(context.Background(), domain.NewQuery("q", "es", false))
	if err != nil {
		t.Fatal(err)
	}
	got := resp.Results[0]
	if got.Title != domain.DefaultTitle {
		t.Errorf("expected default title, got %q", got.Title)
	}
	if got.Price != domain.DefaultPrice {
		t.Errorf("expected default price, got %q", got.Price)
	}
	if got.ImageURL == "" {
		t.Error("expected image_url populated")
	}
}

func TestDiscover_BoundedImageResolution(t *testing.T) {
	titles := make([]string, 12)
	for i := range titles {
		titles[i] = fmt.Sprintf("Activity %d", i)
	}
	res := &mockResolver{url: "x", delay: 10 * time.Millisecond}
	svc := newService(
		&mockClassifier{relevant: true},
		&mockRetriever{},
		&mockExtractor{activities: activities(titles...)},
		res,
	)

	if _, err := svc.Discover(context.Background(), domain.NewQuery("q", "es", false)); err != nil {
		t.Fatal(err)
	}
	if len(res.titles) != 12 {
		t.Fatalf("expected 12 resolutions, got %d", len(res.titles))
	}
	if res.maxSeen > 5 {
		t.Errorf("expected at most 5 concurrent resolutions, saw %d", res.maxSeen)
	}
}

func TestDiscover_DeadlineSurfacedAsTimeoutFault(t *testing.T) {
	svc := New(
		&mockClassifier{relevant: true},
		&mockRetriever{},
		&mockExtractor{err: context.DeadlineExceeded},
		&mockResolver{},
		5,
		time.Nanosecond,
		zap.NewNop(),
	)

	_, err := svc.Discover(context.Background(), domain.NewQuery("q", "es", false))
	if !errors.Is(err, domain.ErrPipelineTimeout) {
		t.Fatalf("expected ErrPipelineTimeout, got %v", err)
	}
}

func TestIsTypedFault(t *testing.T) {
	if !IsTypedFault(fmt.Errorf("x: %w", domain.ErrQuotaExceeded)) {
		t.Error("quota is a typed fault")
	}
	if !IsTypedFault(domain.ErrInvalidCredential) {
		t.Error("credential is a typed fault")
	}
	if !IsTypedFault(domain.ErrPipelineTimeout) {
		t.Error("timeout is a typed fault")
	}
	if IsTypedFault(errors.New("random")) {
		t.Error("generic errors are not typed faults")
	}
}

func TestDiscover_UsesRequestScopedLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	c := &mockClassifier{relevant: true}
	r := &mockRetriever{}
	e := &mockExtractor{activities: activities("Teide Tour")}
	res := &mockResolver{url: "/images/blog/teide-1.jpg"}
	svc := newService(c, r, e, res)

	reqLogger := zap.New(core).With(zap.String("request_id", "req-1"))
	ctx := logpkg.ContextWithLogger(context.Background(), reqLogger)

	if _, err := svc.Discover(ctx, domain.NewQuery("teide", "es", false)); err != nil {
		t.Fatal(err)
	}

	entries := logs.FilterMessage("discovery completed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one completion entry on the request logger, got %d", len(entries))
	}
	var requestID string
	for _, f := range entries[0].Context {
		if f.Key == "request_id" {
			requestID = f.String
		}
	}
	if requestID != "req-1" {
		t.Errorf("completion entry must carry the request id, got %q", requestID)
	}
}
