package frameenc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	sink, err := OpenFileSink(path)
	require.NoError(t, err)

	_, err = sink.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = sink.Write(EndCode)
	require.NoError(t, err)
	require.Equal(t, uint64(7), sink.(*FileSink).BytesWritten())

	require.NoError(t, sink.Close())
	require.NoError(t, sink.Close())
	_, err = sink.Write([]byte("x"))
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, append([]byte("abc"), EndCode...), data)
}

func TestOpenFileSinkMissingDir(t *testing.T) {
	_, err := OpenFileSink(filepath.Join(t.TempDir(), "missing", "out.bin"))
	require.Error(t, err)
}
