package bytesource

import (
	"io"
)

// Cursor consumes an in-memory buffer front to back. The buffer is never
// copied or reallocated.
type Cursor struct {
	buf    []byte
	offset int
}

var _ Source = (*Cursor)(nil)

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

func (c *Cursor) Read(dst []byte) (int, error) {
	if c.Remaining() == 0 {
		return 0, io.EOF
	}
	n := copy(dst, c.buf[c.offset:])
	c.offset += n
	return n, nil
}

func (c *Cursor) Remaining() int {
	return len(c.buf) - c.offset
}

// Offset is the amount of bytes consumed so far.
func (c *Cursor) Offset() int {
	return c.offset
}

func (c *Cursor) Len() int {
	return len(c.buf)
}
