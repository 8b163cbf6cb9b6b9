package demux

import (
	"io"

	"github.com/xaionaro-go/avsample/pkg/metrics"
	"github.com/xaionaro-go/avsample/pkg/resledger"
)

// DefaultBufferSize is the size of the buffer libav reads the source into.
const DefaultBufferSize = 4096

type Compression string

const (
	CompressionNone = Compression("")
	CompressionZstd = Compression("zstd")
)

type CustomOption struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

type Config struct {
	BufferSize int `yaml:"buffer_size"`

	// InputFormatName forces the container format instead of probing it.
	InputFormatName string `yaml:"input_format,omitempty"`

	// Compression applies to files opened through ProbeFile only.
	Compression Compression `yaml:"compression,omitempty"`

	CustomOptions []CustomOption `yaml:"custom_options,omitempty"`

	// DescriptionOutput, if set, receives the format description of a
	// successful Demux/DemuxFile run in addition to the log.
	DescriptionOutput io.Writer `yaml:"-"`

	Ledger  *resledger.Ledger `yaml:"-"`
	Metrics *metrics.Metrics  `yaml:"-"`
}

func (cfg Config) bufferSize() int {
	if cfg.BufferSize <= 0 {
		return DefaultBufferSize
	}
	return cfg.BufferSize
}
