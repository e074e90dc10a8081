package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/illarion/vaultic/cmd"
	"github.com/illarion/vaultic/internal/platform"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := platform.DisableCoreDumps(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot disable core dumps: %s\n", err)
	}

	if err := cmd.Execute(ctx); err != nil {
		stop()
		cmd.HandleError(err)
	}
}
