// Package demux opens a container held in memory (or behind any
// bytesource.Source) through a custom libav IO context, and reports what
// the container parser found in it.
package demux

import (
	"context"
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/google/uuid"
	"github.com/xaionaro-go/avsample/pkg/avstatus"
	"github.com/xaionaro-go/avsample/pkg/bytesource"
	"github.com/xaionaro-go/avsample/pkg/metrics"
	"github.com/xaionaro-go/avsample/pkg/observability"
	"github.com/xaionaro-go/avsample/pkg/resledger"
)

const SuccessMessage = "demuxing finished successfully"

// Demux probes the container in source and returns a status string.
// The description of the container is logged at the Info level.
func Demux(
	ctx context.Context,
	name string,
	source bytesource.Source,
	cfg Config,
) string {
	ctx = withRunID(ctx)
	probe, err := safeProbe(ctx, func() (*ContainerProbe, error) {
		return Probe(ctx, name, source, cfg)
	})
	return finish(ctx, cfg, probe, err)
}

// DemuxFile is Demux for a file, which is mapped into memory for the
// duration of the run.
func DemuxFile(
	ctx context.Context,
	path string,
	cfg Config,
) string {
	ctx = withRunID(ctx)
	probe, err := safeProbe(ctx, func() (*ContainerProbe, error) {
		return ProbeFile(ctx, path, cfg)
	})
	return finish(ctx, cfg, probe, err)
}

func withRunID(ctx context.Context) context.Context {
	return logger.CtxWithLogger(ctx, logger.FromCtx(ctx).WithField("run_id", uuid.NewString()))
}

func safeProbe(
	ctx context.Context,
	fn func() (*ContainerProbe, error),
) (*ContainerProbe, error) {
	var probe *ContainerProbe
	err := observability.CallSafe(ctx, func() error {
		var err error
		probe, err = fn()
		return err
	})
	return probe, err
}

func finish(
	ctx context.Context,
	cfg Config,
	probe *ContainerProbe,
	err error,
) string {
	cfg.Metrics.ObserveRun(metrics.ComponentDemux, avstatus.ResultOf(err))
	if err != nil {
		logger.Errorf(ctx, "demuxing failed: %v", err)
		return avstatus.Message(err, SuccessMessage)
	}
	logger.Infof(ctx, "%s", probe)
	if cfg.DescriptionOutput != nil {
		if _, err := fmt.Fprintln(cfg.DescriptionOutput, probe); err != nil {
			logger.Errorf(ctx, "unable to print the format description: %v", err)
		}
	}
	return SuccessMessage
}

// ProbeFile maps the file at path and probes its content. With
// CompressionZstd the mapped bytes are decompressed on the fly.
func ProbeFile(
	ctx context.Context,
	path string,
	cfg Config,
) (_ret *ContainerProbe, _err error) {
	logger.Debugf(ctx, "ProbeFile(ctx, '%s', %#+v)", path, cfg)
	defer func() { logger.Debugf(ctx, "/ProbeFile(ctx, '%s'): %v", path, _err) }()

	closer := astikit.NewCloser()
	defer func() {
		if err := closer.Close(); err != nil {
			logger.Errorf(ctx, "unable to release the source of '%s': %v", path, err)
		}
	}()

	mapping, err := bytesource.MapFile(path)
	if err != nil {
		return nil, avstatus.Wrap(avstatus.KindIO, "unable to map the input file", err)
	}
	cfg.Ledger.TrackWithError(closer, resledger.ResourceSourceMapping, mapping.Close)

	var source bytesource.Source = mapping.Cursor()
	switch cfg.Compression {
	case CompressionNone:
	case CompressionZstd:
		zstdSource, err := bytesource.NewZstdSource(mapping.Bytes())
		if err != nil {
			return nil, avstatus.Wrap(avstatus.KindIO, "unable to initialize the zstd decoder", err)
		}
		closer.AddWithError(zstdSource.Close)
		source = zstdSource
	default:
		return nil, avstatus.Newf(avstatus.KindIO, "unknown compression '%s'", cfg.Compression)
	}

	return Probe(ctx, path, source, cfg)
}

// Probe opens the container in source and resolves its stream
// parameters. name is only used as the URL libav reports the input by.
//
// Native resources are released in reverse order of acquisition on
// every exit path: the parser first, then the IO context with its buffer.
func Probe(
	ctx context.Context,
	name string,
	source bytesource.Source,
	cfg Config,
) (_ret *ContainerProbe, _err error) {
	logger.Debugf(ctx, "Probe(ctx, '%s')", name)
	defer func() { logger.Debugf(ctx, "/Probe(ctx, '%s'): %v", name, _err) }()

	closer := astikit.NewCloser()
	defer func() {
		if err := closer.Close(); err != nil {
			logger.Errorf(ctx, "unable to release the demuxer resources: %v", err)
		}
	}()

	reader := newSourceReader(ctx, source, cfg.Metrics)
	ioContext, err := astiav.AllocIOContext(
		cfg.bufferSize(),
		false,
		reader.read,
		nil,
		nil,
	)
	if err != nil {
		return nil, avstatus.Wrap(avstatus.KindOutOfMemory, "unable to allocate the IO context", err)
	}
	cfg.Ledger.Track(closer, resledger.ResourceIOContext, ioContext.Free)

	formatContext := astiav.AllocFormatContext()
	if formatContext == nil {
		return nil, avstatus.New(avstatus.KindOutOfMemory, "unable to allocate the format context")
	}
	cfg.Ledger.Track(closer, resledger.ResourceFormatContext, formatContext.Free)
	formatContext.SetPb(ioContext)

	var inputFormat *astiav.InputFormat
	if cfg.InputFormatName != "" {
		inputFormat = astiav.FindInputFormat(cfg.InputFormatName)
		if inputFormat == nil {
			return nil, avstatus.Newf(avstatus.KindFormat, "unknown input format '%s'", cfg.InputFormatName)
		}
	}

	var inputOptions *astiav.Dictionary
	if len(cfg.CustomOptions) > 0 {
		inputOptions = astiav.NewDictionary()
		cfg.Ledger.Track(closer, resledger.ResourceDictionary, inputOptions.Free)
		for _, opt := range cfg.CustomOptions {
			if err := inputOptions.Set(opt.Key, opt.Value, 0); err != nil {
				return nil, avstatus.Wrap(avstatus.KindOutOfMemory, fmt.Sprintf("unable to set option '%s'", opt.Key), err)
			}
		}
	}

	if err := formatContext.OpenInput(name, inputFormat, inputOptions); err != nil {
		return nil, reader.classify(avstatus.WrapWithCode(
			avstatus.KindFormat,
			"unable to open the input",
			astiavCode(err),
			err,
		))
	}
	closer.Add(formatContext.CloseInput)
	logger.Tracef(ctx, "opened the input after %d reads (%d bytes)", reader.calls, reader.bytesRead)

	if err := formatContext.FindStreamInfo(nil); err != nil {
		return nil, reader.classify(avstatus.WrapWithCode(
			avstatus.KindInsufficientData,
			"unable to find the stream info",
			astiavCode(err),
			err,
		))
	}

	probe := newContainerProbe(name, formatContext)
	probe.ReadCalls = reader.calls
	probe.BytesConsumed = reader.bytesRead
	return probe, nil
}

func astiavCode(err error) int {
	var code astiav.Error
	if errors.As(err, &code) {
		return int(code)
	}
	return 0
}
