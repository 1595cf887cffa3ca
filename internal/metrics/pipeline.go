package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	CompletionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "activityd",
			Name:      "completion_requests_total",
			Help:      "Total number of chat completion requests",
		},
		[]string{"op", "status"},
	)

	CompletionRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "activityd",
			Name:      "completion_request_duration_seconds",
			Help:      "Chat completion request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"op"},
	)

	WebSearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "activityd",
			Name:      "web_search_requests_total",
			Help:      "Total number of web search requests",
		},
		[]string{"kind", "status"},
	)

	WebSearchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "activityd",
			Name:      "web_search_request_duration_seconds",
			Help:      "Web search request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"kind"},
	)

	ImageResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "activityd",
			Name:      "image_resolutions_total",
			Help:      "Image resolutions by fallback tier",
		},
		[]string{"tier"}, // remote / keyword / fuzzy / category / any / default
	)

	PipelineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "activityd",
			Name:      "pipeline_requests_total",
			Help:      "Pipeline invocations by terminal state",
		},
		[]string{"outcome"}, // results / empty / off_topic / fault
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers Prometheus pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(CompletionRequestsTotal)
	prometheus.MustRegister(CompletionRequestDuration)
	prometheus.MustRegister(WebSearchRequestsTotal)
	prometheus.MustRegister(WebSearchRequestDuration)
	prometheus.MustRegister(ImageResolutionsTotal)
	prometheus.MustRegister(PipelineRequestsTotal)
	pipelineMetricsRegistered = true
}
