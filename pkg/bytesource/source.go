// Package bytesource provides the pull-side byte sources a demuxer fills
// its read buffer from.
//
// Every Source follows one end-of-stream contract: once exhausted it
// returns (0, io.EOF) on every call, and it never returns io.EOF together
// with data. A zero-length read on a source that still has data returns
// (0, nil), so "nothing requested" and "nothing left" are never confused.
package bytesource

import (
	"io"
)

type Source interface {
	io.Reader
}
