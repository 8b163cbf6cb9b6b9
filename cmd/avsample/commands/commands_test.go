package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avsample/pkg/demux"
	"github.com/xaionaro-go/avsample/pkg/frameenc"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeWithStderr(t, args...)
	return out, err
}

func executeWithStderr(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	Root.SetOut(&out)
	Root.SetErr(&errOut)
	Root.SetArgs(args)
	ctx := logger.CtxWithLogger(context.Background(), logrus.Default())
	err := Execute(ctx)
	return out.String(), errOut.String(), err
}

func resetEncodeFlags(t *testing.T) {
	t.Cleanup(func() {
		Encode.Flags().VisitAll(func(f *pflag.Flag) {
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				_ = sv.Replace(nil)
			} else {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		})
	})
}

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{"probesize=32", "preset=", "a=b=c"})
	require.NoError(t, err)
	require.Equal(t, [][2]string{{"probesize", "32"}, {"preset", ""}, {"a", "b=c"}}, opts)

	_, err = parseOptions([]string{"novalue"})
	require.Error(t, err)
	_, err = parseOptions([]string{"=x"})
	require.Error(t, err)
}

func TestEncodeThenDemux(t *testing.T) {
	resetEncodeFlags(t)
	dir := t.TempDir()
	output := filepath.Join(dir, "out.m4v")

	out, err := execute(t, "--log-level", "error", "encode", output, "--frames", "5")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, frameenc.SuccessPrefix+": 5 frames"), out)

	out, errOut, err := executeWithStderr(t, "--log-level", "error", "demux", output)
	require.NoError(t, err)
	require.Equal(t, demux.SuccessMessage+"\n", out)
	require.Contains(t, errOut, "Input #0, m4v, from '"+output+"':")
	require.Contains(t, errOut, "Video: mpeg4")
}

func TestInvalidOptionIsReported(t *testing.T) {
	resetEncodeFlags(t)
	output := filepath.Join(t.TempDir(), "out.m4v")

	out, errOut, err := executeWithStderr(t, "--log-level", "fatal", "encode", output, "--option", "novalue")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrFailed)
	require.Empty(t, out)
	require.Contains(t, errOut, "invalid option 'novalue', expected key=value")
	require.NoFileExists(t, output)
}

func TestMissingConfigIsReported(t *testing.T) {
	resetEncodeFlags(t)
	dir := t.TempDir()

	_, errOut, err := executeWithStderr(t, "--log-level", "fatal", "encode", filepath.Join(dir, "out.m4v"), "--config", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, errOut, "missing.yaml")
}

func TestEncodeFailureStatus(t *testing.T) {
	resetEncodeFlags(t)
	output := filepath.Join(t.TempDir(), "out.m4v")

	out, errOut, err := executeWithStderr(t, "--log-level", "fatal", "encode", output, "--codec", "no-such-codec")
	require.ErrorIs(t, err, ErrFailed)
	require.Equal(t, "codec unavailable: codec 'no-such-codec' not found\n", out)
	require.NotContains(t, errOut, "error:")
	require.NoFileExists(t, output)
}

func TestGenerateConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "encoder.yaml")
	_, err := execute(t, "--log-level", "error", "generate-config", path)
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "codec: mpeg4")

	cfg := frameenc.Config{}
	require.NoError(t, frameenc.ReadConfig(path, &cfg))
	require.Equal(t, frameenc.DefaultConfig(), cfg)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "--log-level", "error", "version")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "{"), out)
}
