package bytesource

import (
	"bytes"
	"io"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorSmallBufferLargeRequest(t *testing.T) {
	src := []byte("0123456789")
	c := NewCursor(src)
	dst := make([]byte, 4096)

	n, err := c.Read(dst)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, src, dst[:n])
	assert.Equal(t, 0, c.Remaining())

	n, err = c.Read(dst)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 0, n)
}

func TestCursorEmptyBuffer(t *testing.T) {
	c := NewCursor(nil)
	n, err := c.Read(make([]byte, 4096))
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 0, n)
}

func TestCursorZeroLengthRequest(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3})

	n, err := c.Read(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 3, c.Remaining())

	_, err = c.Read(make([]byte, 3))
	require.NoError(t, err)

	n, err = c.Read(nil)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 0, n)
}

func TestCursorEOFIsSticky(t *testing.T) {
	c := NewCursor([]byte{1})
	_, err := c.Read(make([]byte, 1))
	require.NoError(t, err)
	for range 5 {
		n, err := c.Read(make([]byte, 16))
		assert.ErrorIs(t, err, io.EOF)
		assert.Equal(t, 0, n)
	}
}

func TestCursorMonotonicAndExact(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, size := range []int{0, 1, 10, 188, 4095, 4096, 4097, 65536 + 17} {
		src := make([]byte, size)
		for i := range src {
			src[i] = byte(rng.UintN(256))
		}

		c := NewCursor(src)
		var out bytes.Buffer
		prevRemaining := c.Remaining()
		for {
			req := rng.IntN(9000)
			buf := make([]byte, req)
			n, err := c.Read(buf)
			if err == io.EOF {
				require.Equal(t, 0, n)
				require.Equal(t, 0, c.Remaining())
				break
			}
			require.NoError(t, err)
			require.LessOrEqual(t, n, min(req, prevRemaining))
			require.LessOrEqual(t, c.Remaining(), prevRemaining)
			require.Equal(t, prevRemaining-n, c.Remaining())
			prevRemaining = c.Remaining()
			out.Write(buf[:n])
		}
		assert.Equal(t, src, out.Bytes(), "size %d", size)
		assert.Equal(t, size, c.Len())
	}
}

func TestCursorChunksReproduceSource(t *testing.T) {
	src := bytes.Repeat([]byte("avsample"), 1000)
	c := NewCursor(src)
	var out []byte
	buf := make([]byte, 4096)
	for {
		n, err := c.Read(buf)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		out = append(out, buf[:n]...)
	}
	assert.Equal(t, src, out)
}
