package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveRead(4096)
	m.ObserveRead(10)
	m.ObserveFrame()
	m.ObservePacket(100)
	m.ObservePacket(23)
	m.ObserveRun(ComponentEncode, "ok")
	m.ObserveRun(ComponentDemux, "format")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DemuxReadCalls))
	assert.Equal(t, 4106.0, testutil.ToFloat64(m.DemuxBytesRead))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EncodedFrames))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.EncodedPackets))
	assert.Equal(t, 123.0, testutil.ToFloat64(m.EncodedBytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("demux", "format")))

	var out strings.Builder
	require.NoError(t, Dump(&out, reg))
	assert.Contains(t, out.String(), "avsample_encode_packet_bytes_total 123")
	assert.Contains(t, out.String(), `avsample_runs_total{component="encode",result="ok"} 1`)
}

func TestMetricsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveRead(1)
	m.ObserveFrame()
	m.ObservePacket(1)
	m.ObserveRun(ComponentDemux, "ok")
}
