package demux

import (
	"fmt"
	"strings"
	"time"

	"github.com/asticode/go-astiav"
)

type Rational struct {
	Num int
	Den int
}

func rationalFromAstiav(r astiav.Rational) Rational {
	return Rational{Num: r.Num(), Den: r.Den()}
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

func (r Rational) IsZero() bool {
	return r.Num == 0 || r.Den == 0
}

type StreamInfo struct {
	Index        int
	MediaType    string
	CodecName    string
	Width        int
	Height       int
	PixelFormat  string
	SampleRate   int
	BitRate      int64
	TimeBase     Rational
	AvgFrameRate Rational
	Duration     time.Duration
}

// ContainerProbe is what a demux run learned about its input.
type ContainerProbe struct {
	Name           string
	FormatName     string
	FormatLongName string
	Duration       time.Duration
	BitRate        int64
	Streams        []StreamInfo

	ReadCalls     uint64
	BytesConsumed uint64
}

func newContainerProbe(name string, fc *astiav.FormatContext) *ContainerProbe {
	p := &ContainerProbe{
		Name:    name,
		BitRate: fc.BitRate(),
	}
	if f := fc.InputFormat(); f != nil {
		p.FormatName = f.Name()
		p.FormatLongName = f.LongName()
	}
	if d := fc.Duration(); d > 0 {
		p.Duration = toDuration(d, 1/float64(astiav.TimeBase))
	}
	for _, stream := range fc.Streams() {
		p.Streams = append(p.Streams, newStreamInfo(stream))
	}
	return p
}

func newStreamInfo(stream *astiav.Stream) StreamInfo {
	params := stream.CodecParameters()
	info := StreamInfo{
		Index:        stream.Index(),
		MediaType:    params.MediaType().String(),
		CodecName:    params.CodecID().Name(),
		BitRate:      params.BitRate(),
		TimeBase:     rationalFromAstiav(stream.TimeBase()),
		AvgFrameRate: rationalFromAstiav(stream.AvgFrameRate()),
	}
	switch params.MediaType() {
	case astiav.MediaTypeVideo:
		info.Width = params.Width()
		info.Height = params.Height()
		info.PixelFormat = params.PixelFormat().Name()
	case astiav.MediaTypeAudio:
		info.SampleRate = params.SampleRate()
	}
	if d := stream.Duration(); d > 0 && !info.TimeBase.IsZero() {
		info.Duration = toDuration(d, stream.TimeBase().Float64())
	}
	return info
}

func toDuration(ts int64, timeBase float64) time.Duration {
	seconds := float64(ts) * timeBase
	return time.Duration(float64(time.Second) * seconds)
}

// String renders the probe the way libav dumps an input format.
func (p *ContainerProbe) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Input #0, %s, from '%s':\n", p.FormatName, p.Name)
	if p.FormatLongName != "" {
		fmt.Fprintf(&buf, "  Format: %s\n", p.FormatLongName)
	}
	buf.WriteString("  Duration: ")
	if p.Duration > 0 {
		buf.WriteString(formatDuration(p.Duration))
	} else {
		buf.WriteString("N/A")
	}
	buf.WriteString(", bitrate: ")
	if p.BitRate > 0 {
		fmt.Fprintf(&buf, "%d kb/s", p.BitRate/1000)
	} else {
		buf.WriteString("N/A")
	}
	buf.WriteString("\n")
	for _, s := range p.Streams {
		fmt.Fprintf(&buf, "  Stream #0:%d: %s\n", s.Index, s.describe())
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (s StreamInfo) describe() string {
	parts := []string{s.CodecName}
	switch {
	case s.Width > 0 || s.Height > 0:
		if s.PixelFormat != "" {
			parts = append(parts, s.PixelFormat)
		}
		parts = append(parts, fmt.Sprintf("%dx%d", s.Width, s.Height))
	case s.SampleRate > 0:
		parts = append(parts, fmt.Sprintf("%d Hz", s.SampleRate))
	}
	if s.BitRate > 0 {
		parts = append(parts, fmt.Sprintf("%d kb/s", s.BitRate/1000))
	}
	if !s.AvgFrameRate.IsZero() {
		parts = append(parts, fmt.Sprintf("%s fps", s.AvgFrameRate))
	}
	if !s.TimeBase.IsZero() {
		parts = append(parts, fmt.Sprintf("tb %s", s.TimeBase))
	}
	mediaType := s.MediaType
	if mediaType != "" {
		mediaType = strings.ToUpper(mediaType[:1]) + mediaType[1:]
	}
	return fmt.Sprintf("%s: %s", mediaType, strings.Join(parts, ", "))
}

func formatDuration(d time.Duration) string {
	centis := d.Round(10*time.Millisecond) / (10 * time.Millisecond)
	return fmt.Sprintf("%02d:%02d:%02d.%02d",
		centis/360000,
		centis/6000%60,
		centis/100%60,
		centis%100,
	)
}
