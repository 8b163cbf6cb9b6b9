package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avsample/pkg/avstatus"
)

func testCtx() context.Context {
	return logger.CtxWithLogger(context.Background(), logrus.Default().WithLevel(logger.LevelFatal))
}

func TestCallSafePassesErrorThrough(t *testing.T) {
	errDummy := errors.New("dummy")
	err := CallSafe(testCtx(), func() error { return errDummy })
	require.ErrorIs(t, err, errDummy)

	require.NoError(t, CallSafe(testCtx(), func() error { return nil }))
}

func TestCallSafeRecoversPanic(t *testing.T) {
	err := CallSafe(testCtx(), func() error {
		panic("boom")
	})
	require.Error(t, err)
	require.Equal(t, avstatus.KindInternal, avstatus.KindOf(err))
	require.Contains(t, err.Error(), "boom")
}

func TestReportPanicIfNotNil(t *testing.T) {
	require.False(t, ReportPanicIfNotNil(testCtx(), nil))
	require.True(t, ReportPanicIfNotNil(testCtx(), "x"))
}
