package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/xaionaro-go/avsample/pkg/astiavlogger"
	"github.com/xaionaro-go/avsample/pkg/metrics"
)

var (
	// Access these variables only from a main package:

	Root = &cobra.Command{
		Use:           os.Args[0],
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			l := logger.FromCtx(ctx).WithLevel(LoggerLevel)
			ctx = logger.CtxWithLogger(ctx, l)
			cmd.SetContext(ctx)
			logger.Debugf(ctx, "log-level: %v", LoggerLevel)
			astiavlogger.Install(ctx)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			logger.Debug(ctx, "end")
		},
	}

	Demux = &cobra.Command{
		Use:   "demux <file>",
		Short: "probe the container in a file read through a memory-mapped byte source",
		Args:  cobra.ExactArgs(1),
		RunE:  runDemux,
	}

	Encode = &cobra.Command{
		Use:   "encode <output>",
		Short: "encode a generated test pattern into an elementary stream",
		Args:  cobra.ExactArgs(1),
		RunE:  runEncode,
	}

	GenerateConfig = &cobra.Command{
		Use:   "generate-config <path>",
		Short: "write the default encoder config",
		Args:  cobra.ExactArgs(1),
		RunE:  runGenerateConfig,
	}

	Version = &cobra.Command{
		Use:   "version",
		Short: "print the build info",
		Args:  cobra.ExactArgs(0),
		RunE:  runVersion,
	}

	LoggerLevel = logger.LevelWarning
)

// ErrFailed is returned by a command whose run produced a failure status.
var ErrFailed = errors.New("the run failed")

// Execute runs Root and reports its error on stderr, unless the error is
// ErrFailed, whose status line was already printed.
func Execute(ctx context.Context) error {
	err := Root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, ErrFailed) {
		fmt.Fprintf(Root.ErrOrStderr(), "error: %v\n", err)
		logger.Debugf(ctx, "command failed: %v", err)
	}
	return err
}

func init() {
	Root.AddCommand(Demux)
	Root.AddCommand(Encode)
	Root.AddCommand(GenerateConfig)
	Root.AddCommand(Version)

	Root.PersistentFlags().Var(&LoggerLevel, "log-level", "")
	Root.PersistentFlags().Bool("print-metrics", false, "print the collected metrics to stderr on exit")

	Demux.Flags().Bool("zstd", false, "the file is zstd-compressed")
	Demux.Flags().String("format", "", "force the input format instead of probing it")
	Demux.Flags().Int("buffer-size", 0, "the size of the read buffer handed to the parser (default 4096)")
	Demux.Flags().StringArray("option", nil, "an input option as key=value (repeatable)")

	Encode.Flags().String("config", "", "the path to an encoder config (YAML)")
	Encode.Flags().String("codec", "", "the encoder name")
	Encode.Flags().Int("frames", 0, "the amount of frames to encode")
	Encode.Flags().Int64("bit-rate", 0, "the target bit rate")
	Encode.Flags().Int("width", 0, "the picture width")
	Encode.Flags().Int("height", 0, "the picture height")
	Encode.Flags().Int("frame-rate", 0, "the frame rate")
	Encode.Flags().Int("gop", 0, "the group of pictures size")
	Encode.Flags().Int("max-b-frames", 0, "the maximal amount of consecutive B-frames")
	Encode.Flags().StringArray("option", nil, "an encoder option as key=value (repeatable)")
}

func assertNoError(cmd *cobra.Command, err error) {
	if err != nil {
		logger.Panic(cmd.Context(), err)
	}
}

func parseOptions(values []string) ([][2]string, error) {
	var result [][2]string
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid option '%s', expected key=value", v)
		}
		result = append(result, [2]string{key, value})
	}
	return result, nil
}

// newMetrics returns nil metrics unless --print-metrics is set.
func newMetrics(cmd *cobra.Command) (*metrics.Metrics, func()) {
	enabled, err := cmd.Flags().GetBool("print-metrics")
	assertNoError(cmd, err)
	if !enabled {
		return nil, func() {}
	}

	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry)
	assertNoError(cmd, err)
	return m, func() {
		if err := metrics.Dump(os.Stderr, registry); err != nil {
			logger.Errorf(cmd.Context(), "unable to print the metrics: %v", err)
		}
	}
}

func printStatus(cmd *cobra.Command, status string, ok bool) error {
	fmt.Fprintln(cmd.OutOrStdout(), status)
	if !ok {
		return ErrFailed
	}
	return nil
}
