package astiavlogger

import (
	"fmt"
	"runtime"
	"strings"
	"unsafe"

	"github.com/asticode/go-astiav"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/adapter"
	beltlogrus "github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/iancoleman/strcase"
	"github.com/sirupsen/logrus"
	"github.com/xaionaro-go/unsafetools"
)

func classChain(class astiav.Classer) string {
	if class == nil {
		return ""
	}
	var chain []string
	for cl := class.Class(); cl != nil; cl = cl.Parent() {
		chain = append(chain, fmt.Sprintf(
			"[%s]%s:%s:%p",
			strcase.ToSnake(ClassCategoryToString(cl.Category())),
			cl.Name(),
			cl.ItemName(),
			*unsafetools.FieldByName(cl, "ptr").(*unsafe.Pointer),
		))
	}
	return strings.Join(chain, "->")
}

// wrapLogrusLogger clones the logrus entry/logger/formatter chain of l,
// so the caller prettifier can be replaced without touching l itself.
func wrapLogrusLogger(l logger.Logger) (logger.Logger, func(astiav.Classer)) {
	emitter := ptr(*l.Emitter().(*beltlogrus.Emitter))
	entry := ptr(*emitter.LogrusEntry)
	emitter.LogrusEntry = entry
	entry.Logger = ptr(*entry.Logger)

	var class astiav.Classer
	prettifier := func(*runtime.Frame) (string, string) {
		return classChain(class), "av"
	}
	switch formatter := entry.Logger.Formatter.(type) {
	case *logrus.TextFormatter:
		formatter = ptr(*formatter)
		formatter.CallerPrettyfier = prettifier
		entry.Logger.Formatter = formatter
	case *logrus.JSONFormatter:
		formatter = ptr(*formatter)
		formatter.CallerPrettyfier = prettifier
		entry.Logger.Formatter = formatter
	}

	sugar, ok := l.(adapter.GenericSugar)
	if !ok {
		return l, func(astiav.Classer) {}
	}
	compact, ok := sugar.CompactLogger.(*beltlogrus.CompactLogger)
	if !ok {
		return l, func(astiav.Classer) {}
	}
	compact = ptr(*compact)
	*unsafetools.FieldByName(compact, "emitter").(**beltlogrus.Emitter) = emitter

	return adapter.GenericSugar{CompactLogger: compact}, func(newClass astiav.Classer) {
		class = newClass
	}
}

func ptr[T any](in T) *T {
	return &in
}
