package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/celestiaorg/optics/cmd/opticsd/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cmd.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
