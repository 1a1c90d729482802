package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects transport-level Prometheus metrics.
type Metrics struct {
	enabled bool

	RequestTotal *prometheus.CounterVec // outgoing requests by method and status
	RefreshTotal *prometheus.CounterVec // token refresh attempts by result
	ReplayTotal  prometheus.Counter     // requests replayed after a refresh
}

// NewMetrics creates the transport metrics collector.
func NewMetrics(namespace string, enabled bool) *Metrics {
	if !enabled {
		return &Metrics{enabled: false}
	}

	return &Metrics{
		enabled: true,

		RequestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of outgoing HTTP requests",
			},
			[]string{"method", "code"},
		),

		RefreshTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "token_refresh_total",
				Help:      "Total number of token refresh attempts",
			},
			[]string{"result"},
		),

		ReplayTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "request_replay_total",
				Help:      "Total number of requests replayed after token refresh",
			},
		),
	}
}

// RecordRequest records a completed request.
func (m *Metrics) RecordRequest(method string, code int) {
	if m == nil || !m.enabled {
		return
	}
	m.RequestTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

// RecordRefresh records a token refresh attempt.
func (m *Metrics) RecordRefresh(success bool) {
	if m == nil || !m.enabled {
		return
	}
	result := "failed"
	if success {
		result = "success"
	}
	m.RefreshTotal.WithLabelValues(result).Inc()
}

// RecordReplay records a request replayed with a fresh token.
func (m *Metrics) RecordReplay() {
	if m == nil || !m.enabled {
		return
	}
	m.ReplayTotal.Inc()
}
