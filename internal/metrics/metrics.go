package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcomes.
const (
	OutcomeSuccess           = "success"
	OutcomeFailure           = "failure"
	OutcomeMissingCredential = "missing_credential"
)

// ChatMetrics captures chat endpoint and provider call metrics.
type ChatMetrics interface {
	ObserveRequest(status string, durationSeconds float64)
	ObserveGeneration(outcome string, durationSeconds float64)
}

// Noop implements ChatMetrics without emitting anything.
type Noop struct{}

func (Noop) ObserveRequest(string, float64)    {}
func (Noop) ObserveGeneration(string, float64) {}

// Prom implements ChatMetrics backed by Prometheus collectors.
type Prom struct {
	requests           *prometheus.CounterVec
	requestLatency     prometheus.Histogram
	generations        *prometheus.CounterVec
	generationDuration prometheus.Histogram
	once               sync.Once
}

func NewProm(namespace string) *Prom {
	p := &Prom{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Chat API requests by HTTP status",
		}, []string{"status"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chat_request_duration_seconds",
			Help:      "Chat API request latency",
			Buckets:   prometheus.DefBuckets,
		}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_total",
			Help:      "Gemini generation calls by outcome",
		}, []string{"outcome"}),
		generationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Gemini generation call duration",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
	}
	p.register()
	return p
}

func (p *Prom) register() {
	p.once.Do(func() {
		prometheus.MustRegister(p.requests, p.requestLatency, p.generations, p.generationDuration)
	})
}

func (p *Prom) ObserveRequest(status string, durationSeconds float64) {
	p.requests.WithLabelValues(status).Inc()
	p.requestLatency.Observe(durationSeconds)
}

func (p *Prom) ObserveGeneration(outcome string, durationSeconds float64) {
	p.generations.WithLabelValues(outcome).Inc()
	if outcome != OutcomeMissingCredential {
		p.generationDuration.Observe(durationSeconds)
	}
}

// Handler returns an HTTP handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
