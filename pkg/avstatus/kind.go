package avstatus

import (
	"fmt"
)

// Kind classifies a failure independently of any numeric code the
// underlying library may have returned.
type Kind uint

const (
	KindUndefined = Kind(iota)
	KindOutOfMemory
	KindFormat
	KindInsufficientData
	KindCodecUnavailable
	KindConfigRejected
	KindIO
	KindCodecRuntime
	KindInternal
	EndOfKind
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindOutOfMemory:
		return "out_of_memory"
	case KindFormat:
		return "format"
	case KindInsufficientData:
		return "insufficient_data"
	case KindCodecUnavailable:
		return "codec_unavailable"
	case KindConfigRejected:
		return "config_rejected"
	case KindIO:
		return "io"
	case KindCodecRuntime:
		return "codec_runtime"
	case KindInternal:
		return "internal"
	default:
		return fmt.Sprintf("unknown_kind_%d", uint(k))
	}
}

// Description is the human-readable diagnosis prefix used in status messages.
func (k Kind) Description() string {
	switch k {
	case KindOutOfMemory:
		return "out of memory"
	case KindFormat:
		return "unrecognized or malformed container format"
	case KindInsufficientData:
		return "not enough data to resolve stream parameters"
	case KindCodecUnavailable:
		return "codec unavailable"
	case KindConfigRejected:
		return "encoder rejected the configuration"
	case KindIO:
		return "I/O error"
	case KindCodecRuntime:
		return "codec failure"
	case KindInternal:
		return "internal error"
	default:
		return "unknown error"
	}
}
