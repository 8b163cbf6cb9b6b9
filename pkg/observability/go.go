package observability

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/avsample/pkg/avstatus"
)

// CallSafe runs fn and turns a panic inside it into an internal-error
// status, after reporting it.
func CallSafe(ctx context.Context, fn func() error) (_err error) {
	defer func() {
		r := recover()
		if ReportPanicIfNotNil(ctx, r) {
			_err = avstatus.Wrap(avstatus.KindInternal, "recovered from a panic", fmt.Errorf("%v", r))
		}
	}()
	return fn()
}
