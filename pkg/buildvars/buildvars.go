// Package buildvars holds the values injected at link time, e.g.
//
//	go build -ldflags "-X github.com/xaionaro-go/avsample/pkg/buildvars.Version=v0.1.0"
package buildvars

import (
	"strconv"
	"time"
)

var (
	GitCommit       string
	Version         string
	BuildDateString string
	BuildDate       *time.Time
)

func init() {
	unixTS, err := strconv.ParseInt(BuildDateString, 10, 64)
	if err == nil {
		BuildDate = ptr(time.Unix(unixTS, 0))
	}
}

func ptr[T any](in T) *T {
	return &in
}
