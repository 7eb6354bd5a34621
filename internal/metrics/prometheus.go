package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the service's Prometheus metrics. A disabled manager accepts
// every call and records nothing.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         *prometheus.Registry

	// Voting
	ballotsCast      *prometheus.CounterVec
	votesRecorded    *prometheus.CounterVec
	ballotsRejected  *prometheus.CounterVec
	resultsLatency   *prometheus.HistogramVec
	leaderboardCache *prometheus.CounterVec

	// Live updates
	websocketClients prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a metrics manager. Without WithPrometheusRegistry a fresh
// registry with Go and process collectors is used.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "eventvote",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		constLabels:      map[string]string{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.ballotsCast = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "ballots_cast_total",
		Help:        "Accepted ballots by voting category",
		ConstLabels: labels,
	}, []string{"category"})

	m.votesRecorded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "votes_recorded_total",
		Help:        "Vote ledger rows written by voting category",
		ConstLabels: labels,
	}, []string{"category"})

	m.ballotsRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "ballots_rejected_total",
		Help:        "Rejected ballots by reason code",
		ConstLabels: labels,
	}, []string{"reason"})

	m.resultsLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "results_duration_seconds",
		Help:        "Time to compute a results view",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"view"})

	m.leaderboardCache = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "leaderboard_cache_lookups_total",
		Help:        "Leaderboard cache lookups by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.websocketClients = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "websocket_clients",
		Help:        "Connected live-update clients",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "HTTP requests by route, method and status",
		ConstLabels: labels,
	}, []string{"route", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_seconds",
		Help:        "HTTP request latency by route and method",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"route", "method"})
}

// Registry returns the registry the metrics are registered on
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// BallotCast records an accepted ballot and the number of vote rows it wrote
func (m *Manager) BallotCast(category string, votes int) {
	if !m.enabled {
		return
	}
	m.ballotsCast.WithLabelValues(category).Inc()
	m.votesRecorded.WithLabelValues(category).Add(float64(votes))
}

// BallotRejected records a rejected ballot by reason code
func (m *Manager) BallotRejected(reason string) {
	if !m.enabled {
		return
	}
	m.ballotsRejected.WithLabelValues(reason).Inc()
}

// ObserveResults records how long a results view took
func (m *Manager) ObserveResults(view string, d time.Duration) {
	if !m.enabled {
		return
	}
	m.resultsLatency.WithLabelValues(view).Observe(d.Seconds())
}

// LeaderboardCacheLookup records a cache hit or miss
func (m *Manager) LeaderboardCacheLookup(hit bool) {
	if !m.enabled {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.leaderboardCache.WithLabelValues(outcome).Inc()
}

// SetWebsocketClients sets the number of connected live-update clients
func (m *Manager) SetWebsocketClients(n int) {
	if !m.enabled {
		return
	}
	m.websocketClients.Set(float64(n))
}

// RecordHTTPRequest records one served HTTP request
func (m *Manager) RecordHTTPRequest(route, method string, status int, d time.Duration) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}
