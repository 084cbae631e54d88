package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariel-frischer/contractkit/internal/cli"
	"github.com/ariel-frischer/contractkit/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, os.Args[1:])
	stop()
	logger.Sync()

	if err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}
