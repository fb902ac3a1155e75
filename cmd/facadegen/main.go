// Command facadegen generates typed facades for the interfaces of a Go
// package.
//
//	//go:generate go run github.com/kbukum/atlas/cmd/facadegen -t Greeter,Repository
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kbukum/atlas/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		logger.Error("facadegen failed", logger.Fields(logger.FieldError, err.Error()))
		os.Exit(1)
	}
}
