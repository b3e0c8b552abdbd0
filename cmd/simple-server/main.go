package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/docker/mcp-simple-server/cmd/simple-server/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Root().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
