// Command solvereg fits regression models to puzzle solve statistics and
// drives the external SMOreg trainer.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/YuminosukeSato/solvereg/pkg/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(newApp()).ExecuteContext(ctx); err != nil {
		log.GetLogger().Error("command failed", err)
		stop()
		os.Exit(1)
	}
}
