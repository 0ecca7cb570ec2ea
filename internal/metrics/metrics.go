// Package metrics holds the Prometheus collectors for the proxy and the
// listener that exposes them.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the proxy's collectors.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	upstream        *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	linksFiltered   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	buckets := prometheus.DefBuckets

	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wikiproxy_http_requests_total",
			Help: "Total HTTP requests served, by route and status code",
		}, []string{"route", "status"}),

		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wikiproxy_http_request_duration_seconds",
			Help:    "HTTP request latency including upstream time",
			Buckets: buckets,
		}, []string{"route"}),

		upstream: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wikiproxy_upstream_requests_total",
			Help: "Total Wikipedia API calls, by operation and outcome",
		}, []string{"operation", "outcome"}),

		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wikiproxy_upstream_latency_seconds",
			Help:    "Wikipedia API call latency",
			Buckets: buckets,
		}, []string{"operation"}),

		linksFiltered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wikiproxy_links_filtered_total",
			Help: "Link titles dropped by the title filter, by rule",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		m.requests,
		m.requestDuration,
		m.upstream,
		m.upstreamLatency,
		m.linksFiltered,
	)
	return m
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObserveUpstream records one upstream API call.
func (m *Metrics) ObserveUpstream(operation, outcome string, elapsed time.Duration) {
	m.upstream.WithLabelValues(operation, outcome).Inc()
	m.upstreamLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// AddFilteredLinks records n titles dropped for reason.
func (m *Metrics) AddFilteredLinks(reason string, n int) {
	if n <= 0 {
		return
	}
	m.linksFiltered.WithLabelValues(reason).Add(float64(n))
}
