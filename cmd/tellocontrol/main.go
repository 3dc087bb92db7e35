package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tellocontrol/tellocontrol/cmd/tellocontrol/cmd"
)

var version string // set by the compiler

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx, version); err != nil {
		stop()
		os.Exit(1)
	}
}
