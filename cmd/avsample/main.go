package main

import (
	"context"
	"os"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/xaionaro-go/avsample/cmd/avsample/commands"
)

func main() {
	l := logrus.Default()
	ctx := context.Background()
	ctx = logger.CtxWithLogger(ctx, l)
	logger.Default = func() logger.Logger {
		return l
	}

	err := commands.Execute(ctx)
	belt.Flush(ctx)
	if err != nil {
		os.Exit(1)
	}
}
