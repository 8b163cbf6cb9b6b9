package frameenc

import (
	"fmt"
)

type State int

const (
	StateUnconfigured = State(iota)
	StateConfigured
	StateOpen
	StateEncoding
	StateFlushing
	StateFinalized
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateConfigured:
		return "configured"
	case StateOpen:
		return "open"
	case StateEncoding:
		return "encoding"
	case StateFlushing:
		return "flushing"
	case StateFinalized:
		return "finalized"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("unknown_state_%d", int(s))
}
