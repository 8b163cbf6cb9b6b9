// Package astiavlogger routes libav's own log messages into a go-belt logger.
package astiavlogger

import (
	"context"
	"strings"
	"sync"

	"github.com/asticode/go-astiav"
	"github.com/facebookincubator/go-belt/tool/logger"
)

// Install makes libav log through the logger from ctx, at the same level.
func Install(ctx context.Context) {
	l := logger.FromCtx(ctx)
	astiav.SetLogLevel(LevelToAstiav(l.Level()))
	astiav.SetLogCallback(Callback(l))
}

func Callback(l logger.Logger) astiav.LogCallback {
	wrapped, setClass := WrapLogger(l)
	var locker sync.Mutex
	return func(c astiav.Classer, level astiav.LogLevel, _, msg string) {
		msg = strings.TrimSpace(msg)
		if msg == "" {
			return
		}
		locker.Lock()
		defer locker.Unlock()
		setClass(c)
		defer setClass(nil)
		wrapped.Logf(LevelFromAstiav(level), "%s", msg)
	}
}
