package commands

import (
	"github.com/spf13/cobra"
	"github.com/xaionaro-go/avsample/pkg/demux"
)

func runDemux(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	isZstd, err := cmd.Flags().GetBool("zstd")
	assertNoError(cmd, err)
	format, err := cmd.Flags().GetString("format")
	assertNoError(cmd, err)
	bufferSize, err := cmd.Flags().GetInt("buffer-size")
	assertNoError(cmd, err)
	optionValues, err := cmd.Flags().GetStringArray("option")
	assertNoError(cmd, err)
	options, err := parseOptions(optionValues)
	if err != nil {
		return err
	}

	m, dumpMetrics := newMetrics(cmd)
	defer dumpMetrics()

	cfg := demux.Config{
		BufferSize:        bufferSize,
		InputFormatName:   format,
		DescriptionOutput: cmd.ErrOrStderr(),
		Metrics:           m,
	}
	if isZstd {
		cfg.Compression = demux.CompressionZstd
	}
	for _, opt := range options {
		cfg.CustomOptions = append(cfg.CustomOptions, demux.CustomOption{Key: opt[0], Value: opt[1]})
	}

	status := demux.DemuxFile(ctx, args[0], cfg)
	return printStatus(cmd, status, status == demux.SuccessMessage)
}
