package avstatus

import (
	"fmt"
)

// Message converts the result of a run into the status string returned
// to callers. A nil error yields successMessage.
func Message(err error, successMessage string) string {
	if err == nil {
		return successMessage
	}
	kind := KindOf(err)
	if kind == KindUndefined {
		return fmt.Sprintf("%s: %v", KindInternal.Description(), err)
	}
	return fmt.Sprintf("%s: %v", kind.Description(), err)
}

// ResultOK labels a successful run in ResultOf.
const ResultOK = "ok"

// ResultOf is a short label of the outcome of a run, for metrics.
func ResultOf(err error) string {
	if err == nil {
		return ResultOK
	}
	kind := KindOf(err)
	if kind == KindUndefined {
		return KindInternal.String()
	}
	return kind.String()
}
