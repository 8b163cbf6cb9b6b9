package frameenc

import (
	"fmt"
	"io"
	"os"
)

// Sink receives the elementary stream. It is written in packet order
// and closed exactly once.
type Sink interface {
	io.WriteCloser
}

type SinkOpener func(path string) (Sink, error)

// FileSink is a Sink writing to a file. Close is idempotent.
type FileSink struct {
	file    *os.File
	written uint64
	closed  bool
}

var _ Sink = (*FileSink)(nil)

func OpenFileSink(path string) (Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileSink{file: f}, nil
}

func (s *FileSink) Write(b []byte) (int, error) {
	if s.closed {
		return 0, fmt.Errorf("the sink '%s' is closed", s.file.Name())
	}
	n, err := s.file.Write(b)
	s.written += uint64(n)
	return n, err
}

func (s *FileSink) BytesWritten() uint64 {
	return s.written
}

func (s *FileSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}
