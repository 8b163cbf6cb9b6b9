// Package resledger records acquisitions and releases of native (libav)
// resources, so that every exit path of a run can be checked for leaks
// and for the order in which resources were given back.
package resledger

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/asticode/go-astikit"
)

type Resource string

const (
	ResourceSourceMapping = Resource("SourceMapping")
	ResourceIOContext     = Resource("AVIOContext")
	ResourceFormatContext = Resource("AVFormatContext")
	ResourceCodecContext  = Resource("AVCodecContext")
	ResourceDictionary    = Resource("AVDictionary")
	ResourcePacket        = Resource("AVPacket")
	ResourceFrame         = Resource("AVFrame")
	ResourceOutputSink    = Resource("OutputSink")
)

type Event struct {
	Resource Resource
	Acquired bool
}

func (ev Event) String() string {
	if ev.Acquired {
		return "+" + string(ev.Resource)
	}
	return "-" + string(ev.Resource)
}

// Ledger is safe to use as a nil pointer: all methods become no-ops.
type Ledger struct {
	locker      sync.Mutex
	events      []Event
	outstanding map[Resource]int64
}

func New() *Ledger {
	return &Ledger{
		outstanding: map[Resource]int64{},
	}
}

func (l *Ledger) Acquire(r Resource) {
	if l == nil {
		return
	}
	l.locker.Lock()
	defer l.locker.Unlock()
	l.events = append(l.events, Event{Resource: r, Acquired: true})
	l.outstanding[r]++
}

func (l *Ledger) Release(r Resource) {
	if l == nil {
		return
	}
	l.locker.Lock()
	defer l.locker.Unlock()
	l.events = append(l.events, Event{Resource: r, Acquired: false})
	l.outstanding[r]--
}

// Track records the acquisition of r and pushes its release onto closer,
// so that it is released in reverse order with everything else on it.
func (l *Ledger) Track(
	closer *astikit.Closer,
	r Resource,
	release func(),
) {
	l.Acquire(r)
	closer.Add(func() {
		release()
		l.Release(r)
	})
}

// TrackWithError is Track for release functions that may fail.
func (l *Ledger) TrackWithError(
	closer *astikit.Closer,
	r Resource,
	release func() error,
) {
	l.Acquire(r)
	closer.AddWithError(func() error {
		defer l.Release(r)
		return release()
	})
}

func (l *Ledger) Events() []Event {
	if l == nil {
		return nil
	}
	l.locker.Lock()
	defer l.locker.Unlock()
	result := make([]Event, len(l.events))
	copy(result, l.events)
	return result
}

// Outstanding returns the resources with a non-zero balance.
func (l *Ledger) Outstanding() map[Resource]int64 {
	result := map[Resource]int64{}
	if l == nil {
		return result
	}
	l.locker.Lock()
	defer l.locker.Unlock()
	for r, count := range l.outstanding {
		if count != 0 {
			result[r] = count
		}
	}
	return result
}

func (l *Ledger) Balanced() bool {
	return len(l.Outstanding()) == 0
}

// ReleasedInReverseOrder reports whether the releases happened in
// exactly the reverse order of the acquisitions.
func (l *Ledger) ReleasedInReverseOrder() bool {
	var stack []Resource
	for _, ev := range l.Events() {
		if ev.Acquired {
			stack = append(stack, ev.Resource)
			continue
		}
		if len(stack) == 0 || stack[len(stack)-1] != ev.Resource {
			return false
		}
		stack = stack[:len(stack)-1]
	}
	return len(stack) == 0
}

func (l *Ledger) String() string {
	outstanding := l.Outstanding()
	if len(outstanding) == 0 {
		return "balanced"
	}
	var parts []string
	for r, count := range outstanding {
		parts = append(parts, fmt.Sprintf("%s:%d", r, count))
	}
	sort.Strings(parts)
	return "outstanding " + strings.Join(parts, ",")
}
