// Package frameenc drives a libav video encoder over procedurally
// generated frames and writes the resulting elementary stream.
package frameenc

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/google/uuid"
	"github.com/xaionaro-go/avsample/pkg/avstatus"
	"github.com/xaionaro-go/avsample/pkg/metrics"
	"github.com/xaionaro-go/avsample/pkg/observability"
	"github.com/xaionaro-go/avsample/pkg/testpattern"
)

// Encode encodes cfg.FrameCount frames of the test pattern into
// outputPath and returns a status string.
func Encode(
	ctx context.Context,
	outputPath string,
	cfg Config,
	opts ...Option,
) string {
	ctx = logger.CtxWithLogger(ctx, logger.FromCtx(ctx).WithField("run_id", uuid.NewString()))
	d := NewDriver(cfg, opts...)

	var stats *Stats
	err := observability.CallSafe(ctx, func() error {
		var err error
		stats, err = d.EncodeAll(ctx, outputPath, cfg.FrameCount, testpattern.Fill)
		return err
	})
	d.Metrics.ObserveRun(metrics.ComponentEncode, avstatus.ResultOf(err))
	if err != nil {
		logger.Errorf(ctx, "encoding failed: %v", err)
		return avstatus.Message(err, "")
	}

	msg := SuccessMessage(outputPath, stats)
	logger.Infof(ctx, "%s", msg)
	return msg
}

// SuccessPrefix starts every status string of a successful Encode.
const SuccessPrefix = "encoding finished successfully"

func SuccessMessage(outputPath string, stats *Stats) string {
	return fmt.Sprintf(
		"%s: %d frames, %d packets, %s written to '%s'",
		SuccessPrefix,
		stats.Frames,
		stats.Packets,
		humanize.Bytes(stats.Bytes),
		outputPath,
	)
}
