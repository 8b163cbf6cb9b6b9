package frameenc

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/avsample/pkg/avstatus"
	"github.com/xaionaro-go/avsample/pkg/metrics"
	"github.com/xaionaro-go/avsample/pkg/resledger"
	"github.com/xaionaro-go/avsample/pkg/testpattern"
)

// EndCode terminates an MPEG elementary stream (sequence end code).
var EndCode = []byte{0x00, 0x00, 0x01, 0xb7}

// codecBackend is the part of *astiav.CodecContext the drain loop talks to.
type codecBackend interface {
	SendFrame(*astiav.Frame) error
	ReceivePacket(*astiav.Packet) error
}

type Stats struct {
	Frames  uint64
	Packets uint64

	// Bytes includes the end code.
	Bytes uint64
}

// Driver runs one encoding session: it configures and opens an encoder,
// feeds it generated frames, drains the packets into a Sink and
// terminates the stream. A Driver is single-use.
type Driver struct {
	Config   Config
	Ledger   *resledger.Ledger
	Metrics  *metrics.Metrics
	OpenSink SinkOpener

	wrapBackend func(codecBackend) codecBackend
	onFrame     func(frame *astiav.Frame, frameIndex int)

	state State
}

type Option func(*Driver)

func WithLedger(l *resledger.Ledger) Option {
	return func(d *Driver) { d.Ledger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Driver) { d.Metrics = m }
}

func WithSinkOpener(open SinkOpener) Option {
	return func(d *Driver) { d.OpenSink = open }
}

func NewDriver(cfg Config, opts ...Option) *Driver {
	d := &Driver{
		Config:   cfg,
		OpenSink: OpenFileSink,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) State() State {
	return d.state
}

func (d *Driver) setState(ctx context.Context, state State) {
	logger.Debugf(ctx, "state: %s -> %s", d.state, state)
	d.state = state
}

type session struct {
	driver       *Driver
	codec        *astiav.Codec
	codecContext *astiav.CodecContext
	options      *astiav.Dictionary
	backend      codecBackend
	packets      *packetSlot
	frame        *astiav.Frame
	picture      *testpattern.Picture
	sink         Sink
	closeSink    func() error
	stats        Stats
}

// EncodeAll encodes frameCount frames produced by generate into the
// sink opened at outputPath, then flushes the encoder and appends
// EndCode. Every native resource is released before it returns, in
// reverse order of acquisition.
func (d *Driver) EncodeAll(
	ctx context.Context,
	outputPath string,
	frameCount int,
	generate testpattern.Generator,
) (_ret *Stats, _err error) {
	logger.Debugf(ctx, "EncodeAll(ctx, '%s', %d)", outputPath, frameCount)
	defer func() { logger.Debugf(ctx, "/EncodeAll(ctx, '%s', %d): %v", outputPath, frameCount, _err) }()
	assert(ctx, d.state == StateUnconfigured, "the driver was already used, state: %s", d.state)
	if generate == nil {
		generate = testpattern.Fill
	}
	if frameCount < 0 {
		return nil, avstatus.Newf(avstatus.KindConfigRejected, "invalid frame count %d", frameCount)
	}

	closer := astikit.NewCloser()
	defer func() {
		err := closer.Close()
		d.setState(ctx, StateClosed)
		if err == nil {
			return
		}
		if _err != nil {
			logger.Errorf(ctx, "unable to release the encoder resources: %v", err)
			return
		}
		_ret, _err = nil, avstatus.Wrap(avstatus.KindIO, "unable to release the encoder resources", err)
	}()

	s := &session{driver: d}
	if err := s.configure(ctx, closer); err != nil {
		return nil, err
	}
	d.setState(ctx, StateConfigured)

	if err := s.open(ctx, closer, outputPath); err != nil {
		return nil, err
	}
	d.setState(ctx, StateOpen)

	d.setState(ctx, StateEncoding)
	for i := 0; i < frameCount; i++ {
		if err := s.encodeFrame(ctx, i, generate); err != nil {
			return nil, err
		}
	}

	d.setState(ctx, StateFlushing)
	if err := s.encode(ctx, nil); err != nil {
		return nil, err
	}

	if err := s.finalize(ctx); err != nil {
		return nil, err
	}
	d.setState(ctx, StateFinalized)
	return &s.stats, nil
}

func (s *session) configure(
	ctx context.Context,
	closer *astikit.Closer,
) error {
	d := s.driver
	cfg := d.Config
	s.codec = astiav.FindEncoderByName(cfg.CodecName)
	if s.codec == nil {
		return avstatus.Newf(avstatus.KindCodecUnavailable, "codec '%s' not found", cfg.CodecName)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.codecContext = astiav.AllocCodecContext(s.codec)
	if s.codecContext == nil {
		return avstatus.New(avstatus.KindOutOfMemory, "could not allocate video codec context")
	}
	d.Ledger.Track(closer, resledger.ResourceCodecContext, s.codecContext.Free)

	packet := astiav.AllocPacket()
	if packet == nil {
		return avstatus.New(avstatus.KindOutOfMemory, "could not allocate packet")
	}
	d.Ledger.Track(closer, resledger.ResourcePacket, packet.Free)
	s.packets = newPacketSlot(packet)

	s.codecContext.SetBitRate(cfg.BitRate)
	s.codecContext.SetWidth(cfg.Width)
	s.codecContext.SetHeight(cfg.Height)
	s.codecContext.SetTimeBase(astiav.NewRational(1, cfg.FrameRate))
	s.codecContext.SetFramerate(astiav.NewRational(cfg.FrameRate, 1))
	s.codecContext.SetGopSize(cfg.GOPSize)
	s.codecContext.SetMaxBFrames(cfg.MaxBFrames)
	s.codecContext.SetPixelFormat(astiav.PixelFormatYuv420P)

	var options []CustomOption
	if s.codec.ID() == astiav.CodecIDH264 && cfg.H264Preset != "" {
		options = append(options, CustomOption{Key: "preset", Value: cfg.H264Preset})
	}
	options = append(options, cfg.CustomOptions...)
	if len(options) == 0 {
		return nil
	}

	s.options = astiav.NewDictionary()
	d.Ledger.Track(closer, resledger.ResourceDictionary, s.options.Free)
	for _, opt := range options {
		logger.Debugf(ctx, "encoder option '%s' = '%s'", opt.Key, opt.Value)
		if err := s.options.Set(opt.Key, opt.Value, 0); err != nil {
			return avstatus.Wrap(avstatus.KindOutOfMemory, fmt.Sprintf("could not set option '%s'", opt.Key), err)
		}
	}
	return nil
}

func (s *session) open(
	ctx context.Context,
	closer *astikit.Closer,
	outputPath string,
) error {
	d := s.driver
	cfg := d.Config

	if err := s.codecContext.Open(s.codec, s.options); err != nil {
		return avstatus.WrapWithCode(avstatus.KindConfigRejected, "could not open codec", astiavCode(err), err)
	}
	logger.Debugf(ctx, "opened encoder '%s'", s.codec.Name())
	s.backend = s.codecContext
	if d.wrapBackend != nil {
		s.backend = d.wrapBackend(s.backend)
	}

	sink, err := d.OpenSink(outputPath)
	if err != nil {
		return avstatus.Wrap(avstatus.KindIO, fmt.Sprintf("could not open output file '%s'", outputPath), err)
	}
	s.sink = sink
	s.closeSink = sync.OnceValue(sink.Close)
	d.Ledger.TrackWithError(closer, resledger.ResourceOutputSink, s.closeSink)

	s.frame = astiav.AllocFrame()
	if s.frame == nil {
		return avstatus.New(avstatus.KindOutOfMemory, "could not allocate video frame")
	}
	d.Ledger.Track(closer, resledger.ResourceFrame, s.frame.Free)
	s.frame.SetWidth(cfg.Width)
	s.frame.SetHeight(cfg.Height)
	s.frame.SetPixelFormat(astiav.PixelFormatYuv420P)
	if err := s.frame.AllocBuffer(0); err != nil {
		return avstatus.WrapWithCode(avstatus.KindOutOfMemory, "could not allocate the video frame data", astiavCode(err), err)
	}

	s.picture, err = testpattern.NewPicture(cfg.Width, cfg.Height)
	if err != nil {
		return avstatus.Wrap(avstatus.KindInternal, "could not allocate the picture", err)
	}
	return nil
}

func (s *session) encodeFrame(
	ctx context.Context,
	frameIndex int,
	generate testpattern.Generator,
) error {
	// the encoder may still hold a reference to the previous content
	if err := s.frame.MakeWritable(); err != nil {
		return avstatus.WrapWithCode(avstatus.KindOutOfMemory, "could not make the frame writable", astiavCode(err), err)
	}

	generate(s.picture, frameIndex)
	if err := s.frame.Data().SetBytes(s.picture.Bytes(), 1); err != nil {
		return avstatus.WrapWithCode(avstatus.KindCodecRuntime, "could not upload the picture", astiavCode(err), err)
	}
	s.frame.SetPts(int64(frameIndex))
	if s.driver.onFrame != nil {
		s.driver.onFrame(s.frame, frameIndex)
	}

	if err := s.encode(ctx, s.frame); err != nil {
		return err
	}
	s.stats.Frames++
	s.driver.Metrics.ObserveFrame()
	return nil
}

// encode submits frame (nil means flush) and writes out every packet
// the encoder has ready. When flushing, it drains until the encoder
// reports the end of the stream.
func (s *session) encode(
	ctx context.Context,
	frame *astiav.Frame,
) error {
	if frame != nil {
		logger.Tracef(ctx, "send frame %d", frame.Pts())
	}
	if err := s.backend.SendFrame(frame); err != nil {
		return avstatus.WrapWithCode(avstatus.KindCodecRuntime, "error sending a frame for encoding", astiavCode(err), err)
	}

	flushing := frame == nil
	for {
		done, err := s.drainOne(ctx, flushing)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (s *session) drainOne(
	ctx context.Context,
	flushing bool,
) (bool, error) {
	packet := s.packets.checkout(ctx)
	defer s.packets.giveBack(ctx, packet)

	err := s.backend.ReceivePacket(packet)
	switch {
	case err == nil:
	case errors.Is(err, astiav.ErrEof):
		return true, nil
	case errors.Is(err, astiav.ErrEagain) && !flushing:
		return true, nil
	default:
		return false, avstatus.WrapWithCode(avstatus.KindCodecRuntime, "error during encoding", astiavCode(err), err)
	}

	data := packet.Data()
	logger.Tracef(ctx, "write packet %3d (size=%5d)", packet.Pts(), len(data))
	if _, err := s.sink.Write(data); err != nil {
		return false, avstatus.Wrap(avstatus.KindIO, "could not write the packet", err)
	}
	s.stats.Packets++
	s.stats.Bytes += uint64(len(data))
	s.driver.Metrics.ObservePacket(len(data))
	return false, nil
}

func (s *session) finalize(ctx context.Context) error {
	var result *multierror.Error
	if _, err := s.sink.Write(EndCode); err != nil {
		result = multierror.Append(result, fmt.Errorf("could not write the end code: %w", err))
	} else {
		s.stats.Bytes += uint64(len(EndCode))
	}
	if err := s.closeSink(); err != nil {
		result = multierror.Append(result, fmt.Errorf("could not close the output: %w", err))
	}
	if err := result.ErrorOrNil(); err != nil {
		return avstatus.Wrap(avstatus.KindIO, "could not finalize the stream", err)
	}
	logger.Debugf(ctx, "finalized the stream: %d frames, %d packets, %d bytes", s.stats.Frames, s.stats.Packets, s.stats.Bytes)
	return nil
}

func astiavCode(err error) int {
	var code astiav.Error
	if errors.As(err, &code) {
		return int(code)
	}
	return 0
}
