package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.nposlab.org/elections/fuzz/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer cancel()

	cli := cmd.NewCLI()
	if err := cli.RootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
