package commands

import (
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/cobra"
	"github.com/xaionaro-go/avsample/pkg/frameenc"
)

func runEncode(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg := frameenc.DefaultConfig()
	cfgPath, err := cmd.Flags().GetString("config")
	assertNoError(cmd, err)
	if cfgPath != "" {
		if err := frameenc.ReadConfig(cfgPath, &cfg); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	overrideString(cmd, "codec", &cfg.CodecName)
	overrideInt(cmd, "frames", &cfg.FrameCount)
	overrideInt(cmd, "width", &cfg.Width)
	overrideInt(cmd, "height", &cfg.Height)
	overrideInt(cmd, "frame-rate", &cfg.FrameRate)
	overrideInt(cmd, "gop", &cfg.GOPSize)
	overrideInt(cmd, "max-b-frames", &cfg.MaxBFrames)
	if flags.Changed("bit-rate") {
		cfg.BitRate, err = flags.GetInt64("bit-rate")
		assertNoError(cmd, err)
	}
	optionValues, err := flags.GetStringArray("option")
	assertNoError(cmd, err)
	options, err := parseOptions(optionValues)
	if err != nil {
		return err
	}
	for _, opt := range options {
		cfg.CustomOptions = append(cfg.CustomOptions, frameenc.CustomOption{Key: opt[0], Value: opt[1]})
	}
	logger.Debugf(ctx, "encoder config: %s", spew.Sdump(cfg))

	m, dumpMetrics := newMetrics(cmd)
	defer dumpMetrics()

	status := frameenc.Encode(ctx, args[0], cfg, frameenc.WithMetrics(m))
	return printStatus(cmd, status, strings.HasPrefix(status, frameenc.SuccessPrefix))
}

func runGenerateConfig(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := frameenc.WriteConfig(args[0], frameenc.DefaultConfig()); err != nil {
		return err
	}
	logger.Infof(ctx, "wrote the default encoder config to '%s'", args[0])
	return nil
}

func overrideString(cmd *cobra.Command, name string, dst *string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	v, err := cmd.Flags().GetString(name)
	assertNoError(cmd, err)
	*dst = v
}

func overrideInt(cmd *cobra.Command, name string, dst *int) {
	if !cmd.Flags().Changed(name) {
		return
	}
	v, err := cmd.Flags().GetInt(name)
	assertNoError(cmd, err)
	*dst = v
}
