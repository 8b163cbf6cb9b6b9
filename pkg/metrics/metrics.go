package metrics

import (
	"fmt"
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "avsample"

type Component string

const (
	ComponentDemux  = Component("demux")
	ComponentEncode = Component("encode")
)

// Metrics is safe to use as a nil pointer: all recording methods become no-ops.
type Metrics struct {
	DemuxReadCalls prometheus.Counter
	DemuxBytesRead prometheus.Counter
	EncodedFrames  prometheus.Counter
	EncodedPackets prometheus.Counter
	EncodedBytes   prometheus.Counter
	Runs           *prometheus.CounterVec
}

func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		DemuxReadCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: string(ComponentDemux),
			Name:      "read_calls_total",
			Help:      "Amount of read requests served to the container parser.",
		}),
		DemuxBytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: string(ComponentDemux),
			Name:      "read_bytes_total",
			Help:      "Amount of bytes handed to the container parser.",
		}),
		EncodedFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: string(ComponentEncode),
			Name:      "frames_total",
			Help:      "Amount of frames submitted to the encoder.",
		}),
		EncodedPackets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: string(ComponentEncode),
			Name:      "packets_total",
			Help:      "Amount of packets received from the encoder.",
		}),
		EncodedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: string(ComponentEncode),
			Name:      "packet_bytes_total",
			Help:      "Amount of compressed bytes written to the output.",
		}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Amount of finished runs by component and result kind.",
		}, []string{"component", "result"}),
	}

	for _, c := range []prometheus.Collector{
		m.DemuxReadCalls,
		m.DemuxBytesRead,
		m.EncodedFrames,
		m.EncodedPackets,
		m.EncodedBytes,
		m.Runs,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("unable to register a collector: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) ObserveRead(n int) {
	if m == nil {
		return
	}
	m.DemuxReadCalls.Inc()
	m.DemuxBytesRead.Add(float64(n))
}

func (m *Metrics) ObserveFrame() {
	if m == nil {
		return
	}
	m.EncodedFrames.Inc()
}

func (m *Metrics) ObservePacket(size int) {
	if m == nil {
		return
	}
	m.EncodedPackets.Inc()
	m.EncodedBytes.Add(float64(size))
}

// ObserveRun counts a finished run; result is avstatus.ResultOf the run.
func (m *Metrics) ObserveRun(component Component, result string) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(string(component), result).Inc()
}

// Dump writes everything gathered by g in the text exposition format.
func Dump(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("unable to gather metrics: %w", err)
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("unable to write metric family '%s': %w", mf.GetName(), err)
		}
	}
	return nil
}
