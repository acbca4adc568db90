package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	io_prometheus_client "github.com/prometheus/client_model/go"

	"github.com/inferlab/predictd/pkg/buildtime"
	"github.com/inferlab/predictd/pkg/domain/predlog"
	"github.com/inferlab/predictd/pkg/domain/rescache"
)

const namespace = "predictd"

// Outcome labels for the predictions counter.
const (
	OutcomeComputed = "computed"
	OutcomeCached   = "cached"
	OutcomeFailed   = "failed"
)

// Metrics holds the server's instruments on a private registry,
// so the exposition carries exactly what this process registered
// and tests can read samples back without touching global state.
type Metrics struct {
	registry *prometheus.Registry

	// RequestDuration observes wall-clock time of handled requests.
	RequestDuration *prometheus.HistogramVec

	// Predictions counts prediction requests per model and outcome.
	Predictions *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "build_info",
		Help:      "Constant 1, labeled by the running build.",
		ConstLabels: prometheus.Labels{
			"version":  buildtime.VERSION(),
			"revision": buildtime.GIT_REVISION(),
		},
	}).Set(1)

	return &Metrics{
		registry: registry,
		RequestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Wall-clock duration of handled HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		Predictions: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "predictions_total",
				Help:      "Prediction requests per model and outcome.",
			},
			[]string{"model", "outcome"},
		),
	}
}

// WatchCache exposes the result cache's own counters.
// stats is called at scrape time.
func (m *Metrics) WatchCache(stats func() rescache.Stats) {
	promauto.With(m.registry).NewCounterFunc(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Prediction lookups answered from a live cache entry.",
		},
		func() float64 { return float64(stats().Hits) },
	)
	promauto.With(m.registry).NewCounterFunc(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Prediction lookups that fell through to the model.",
		},
		func() float64 { return float64(stats().Misses) },
	)
	promauto.With(m.registry).NewCounterFunc(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_evictions_total",
			Help:      "Cache entries evicted to make room for new ones.",
		},
		func() float64 { return float64(stats().Evictions) },
	)
	promauto.With(m.registry).NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_entries",
			Help:      "Entries currently held in the result cache.",
		},
		func() float64 { return float64(stats().Entries) },
	)
}

// WatchRecorder exposes the background log recorder's queue and losses.
// depth and stats are called at scrape time.
func (m *Metrics) WatchRecorder(depth func() int, stats func() predlog.RecorderStats) {
	promauto.With(m.registry).NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "log_queue_depth",
			Help:      "Prediction records waiting for the background writer.",
		},
		func() float64 { return float64(depth()) },
	)
	promauto.With(m.registry).NewCounterFunc(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_records_dropped_total",
			Help:      "Prediction records rejected because the queue was full.",
		},
		func() float64 { return float64(stats().Dropped) },
	)
	promauto.With(m.registry).NewCounterFunc(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_sink_faults_total",
			Help:      "Prediction records lost to sink write failures.",
		},
		func() float64 { return float64(stats().Faults) },
	)
}

// Handler serves the Prometheus exposition for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gather collects the current samples of all registered instruments.
func (m *Metrics) Gather() ([]*io_prometheus_client.MetricFamily, error) {
	return m.registry.Gather()
}
