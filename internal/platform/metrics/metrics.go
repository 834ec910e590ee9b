package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for OperationsTotal.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)

// Metrics holds the Prometheus collectors for session orchestration.
type Metrics struct {
	OperationsTotal    *prometheus.CounterVec
	LockRejections     *prometheus.CounterVec
	OperationDuration  *prometheus.HistogramVec
	SessionResyncs     *prometheus.CounterVec
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	AuthenticatedGauge prometheus.Gauge
}

// New creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer in binaries and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "authsession_operations_total",
			Help: "Backend operations issued through the orchestrator, by outcome",
		}, []string{"operation", "outcome"}),
		LockRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "authsession_lock_rejections_total",
			Help: "Mutations rejected because another mutation was in flight",
		}, []string{"operation"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "authsession_operation_duration_seconds",
			Help:    "Latency of orchestrated operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		SessionResyncs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "authsession_session_resyncs_total",
			Help: "Session re-syncs, labeled applied or stale",
		}, []string{"result"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "authsession_cache_hits_total",
			Help: "Cache-first reads served from the query cache",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "authsession_cache_misses_total",
			Help: "Cache-first reads that went to the network",
		}),
		AuthenticatedGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "authsession_authenticated",
			Help: "1 when the session is authenticated, 0 otherwise",
		}),
	}
}

// ObserveOperation records one finished operation.
func (m *Metrics) ObserveOperation(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(operation, outcome).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// IncrementLockRejections records a mutation rejected by the guard.
func (m *Metrics) IncrementLockRejections(operation string) {
	if m == nil {
		return
	}
	m.LockRejections.WithLabelValues(operation).Inc()
	m.OperationsTotal.WithLabelValues(operation, OutcomeRejected).Inc()
}

// IncrementResync records a re-sync that was applied or discarded as stale.
func (m *Metrics) IncrementResync(applied bool) {
	if m == nil {
		return
	}
	result := "applied"
	if !applied {
		result = "stale"
	}
	m.SessionResyncs.WithLabelValues(result).Inc()
}

// IncrementCacheHit records a cache-first read served from cache.
func (m *Metrics) IncrementCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// IncrementCacheMiss records a cache-first read that went to the network.
func (m *Metrics) IncrementCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

// SetAuthenticated mirrors the session's authentication flag.
func (m *Metrics) SetAuthenticated(authenticated bool) {
	if m == nil {
		return
	}
	if authenticated {
		m.AuthenticatedGauge.Set(1)
		return
	}
	m.AuthenticatedGauge.Set(0)
}
