package astiavlogger

import (
	"github.com/asticode/go-astiav"
	"github.com/facebookincubator/go-belt/tool/logger"
	beltlogrus "github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
)

// WrapLogger returns a logger that annotates every entry with the libav
// class chain set through the returned setter. Only the logrus emitter
// supports the annotation; other loggers are returned as is.
func WrapLogger(l logger.Logger) (logger.Logger, func(astiav.Classer)) {
	if _, ok := l.Emitter().(*beltlogrus.Emitter); ok {
		return wrapLogrusLogger(l)
	}
	return l, func(astiav.Classer) {}
}
