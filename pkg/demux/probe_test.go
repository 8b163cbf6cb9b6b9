package demux

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	require.Equal(t, "00:00:01.00", formatDuration(time.Second))
	require.Equal(t, "01:02:03.45", formatDuration(time.Hour+2*time.Minute+3*time.Second+450*time.Millisecond))
}

func TestContainerProbeString(t *testing.T) {
	probe := &ContainerProbe{
		Name:       "x.m4v",
		FormatName: "m4v",
		Streams: []StreamInfo{{
			Index:        0,
			MediaType:    "video",
			CodecName:    "mpeg4",
			Width:        352,
			Height:       288,
			PixelFormat:  "yuv420p",
			AvgFrameRate: Rational{Num: 25, Den: 1},
			TimeBase:     Rational{Num: 1, Den: 1200000},
		}},
	}
	require.Equal(t,
		"Input #0, m4v, from 'x.m4v':\n"+
			"  Duration: N/A, bitrate: N/A\n"+
			"  Stream #0:0: Video: mpeg4, yuv420p, 352x288, 25/1 fps, tb 1/1200000",
		probe.String(),
	)
}
