package demux

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/asticode/go-astiav"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/avsample/pkg/avstatus"
	"github.com/xaionaro-go/avsample/pkg/bytesource"
	"github.com/xaionaro-go/avsample/pkg/metrics"
)

type remainder interface {
	Remaining() int
}

// sourceReader serves libav's read requests from a bytesource.Source.
type sourceReader struct {
	ctx     context.Context
	source  bytesource.Source
	metrics *metrics.Metrics

	calls     uint64
	bytesRead uint64

	// sourceErr is the first failure of the source itself (not EOF).
	sourceErr error
}

func newSourceReader(
	ctx context.Context,
	source bytesource.Source,
	m *metrics.Metrics,
) *sourceReader {
	return &sourceReader{
		ctx:     ctx,
		source:  source,
		metrics: m,
	}
}

func (r *sourceReader) read(b []byte) (int, error) {
	r.calls++
	n, err := r.source.Read(b)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		logger.Tracef(r.ctx, "read #%d: requested:%d: end of stream", r.calls, len(b))
		return 0, astiav.ErrEof
	default:
		if r.sourceErr == nil {
			r.sourceErr = err
		}
		logger.Errorf(r.ctx, "read #%d: unable to read from the source: %v", r.calls, err)
		return 0, fmt.Errorf("unable to read from the source: %w", err)
	}

	r.bytesRead += uint64(n)
	r.metrics.ObserveRead(n)
	if rem, ok := r.source.(remainder); ok {
		logger.Tracef(r.ctx, "read #%d: requested:%d copied:%d remaining:%d", r.calls, len(b), n, rem.Remaining())
	} else {
		logger.Tracef(r.ctx, "read #%d: requested:%d copied:%d total:%d", r.calls, len(b), n, r.bytesRead)
	}
	return n, nil
}

// classify prefers an I/O failure of the source over what libav made of it.
func (r *sourceReader) classify(err error) error {
	if r.sourceErr == nil {
		return err
	}
	return fmt.Errorf("%w (caused by: %v)", avstatus.Wrap(avstatus.KindIO, "the source failed", r.sourceErr), err)
}
