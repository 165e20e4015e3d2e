package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusRecorder(reg).(*PrometheusRecorder)

	rec.IncCounter("send", map[string]string{LabelChain: "BTC", LabelOutcome: "success"})
	rec.IncCounter("send", map[string]string{LabelChain: "BTC", LabelOutcome: "success"})
	rec.IncCounter("send", map[string]string{LabelChain: "ETH", LabelOutcome: "failure", "ignored": "x"})
	rec.ObserveLatency("send", 250*time.Millisecond, map[string]string{LabelChain: "BTC"})

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.counters.WithLabelValues("send", "BTC", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.counters.WithLabelValues("send", "ETH", "failure")))

	count, err := testutil.GatherAndCount(reg, "wallet_gateway_latency_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPrometheusRecorderDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusRecorder(reg)
	assert.Panics(t, func() { NewPrometheusRecorder(reg) })
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NoopRecorder{}
	assert.NotPanics(t, func() {
		rec.IncCounter("send", nil)
		rec.ObserveLatency("send", time.Second, nil)
	})
}
