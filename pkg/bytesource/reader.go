package bytesource

import (
	"errors"
	"io"
)

const maxConsecutiveEmptyReads = 100

// ReaderSource adapts an arbitrary io.Reader to the Source contract:
// data returned together with io.EOF is delivered first, and io.EOF is
// reported alone on the following calls.
type ReaderSource struct {
	reader  io.Reader
	eof     bool
	counter uint64
}

var _ Source = (*ReaderSource)(nil)

func FromReader(r io.Reader) *ReaderSource {
	return &ReaderSource{reader: r}
}

func (s *ReaderSource) Read(dst []byte) (int, error) {
	if s.eof {
		return 0, io.EOF
	}
	if len(dst) == 0 {
		return 0, nil
	}

	for range maxConsecutiveEmptyReads {
		n, err := s.reader.Read(dst)
		s.counter += uint64(n)
		switch {
		case err == nil:
			if n == 0 {
				continue
			}
			return n, nil
		case errors.Is(err, io.EOF):
			s.eof = true
			if n > 0 {
				return n, nil
			}
			return 0, io.EOF
		default:
			return n, err
		}
	}
	return 0, io.ErrNoProgress
}

// BytesRead is the amount of bytes delivered so far.
func (s *ReaderSource) BytesRead() uint64 {
	return s.counter
}
