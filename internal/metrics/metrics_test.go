package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_ObserveRequest(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRequest("/search", 200, time.Millisecond)
	m.ObserveRequest("/search", 200, time.Millisecond)
	m.ObserveRequest("/search", 400, time.Millisecond)
	m.ObserveRequest("", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/search", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/search", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("unmatched", "404")))
}

func TestMetrics_ObserveUpstream(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveUpstream("get_links", "not_found", time.Millisecond)
	m.ObserveUpstream("get_links", "ok", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstream.WithLabelValues("get_links", "not_found")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.upstreamLatency))
}

func TestMetrics_AddFilteredLinks(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.AddFilteredLinks("digit", 3)
	m.AddFilteredLinks("digit", 0)
	m.AddFilteredLinks("namespace", 1)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.linksFiltered.WithLabelValues("digit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.linksFiltered.WithLabelValues("namespace")))
}

func TestNew_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
