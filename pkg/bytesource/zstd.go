package bytesource

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// ZstdSource decompresses a zstd frame sequence on the fly, so a
// compressed container can be demuxed without materializing it.
type ZstdSource struct {
	*ReaderSource
	decoder *zstd.Decoder
}

var _ Source = (*ZstdSource)(nil)

func NewZstdSource(compressed []byte) (*ZstdSource, error) {
	decoder, err := zstd.NewReader(
		bytes.NewReader(compressed),
		zstd.WithDecoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize a zstd decoder: %w", err)
	}
	return &ZstdSource{
		ReaderSource: FromReader(decoder),
		decoder:      decoder,
	}, nil
}

func (s *ZstdSource) Close() error {
	s.decoder.Close()
	return nil
}
