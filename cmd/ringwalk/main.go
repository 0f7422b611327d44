package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/purehyperbole/ringwalk/cmd/ringwalk/app"
	"go.uber.org/zap"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := app.Run(ctx, os.Args)
	if err != nil {
		zap.L().Error("ringwalk failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "ringwalk: %s\n", err)
		os.Exit(1)
	}
}
