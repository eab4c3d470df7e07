// Package main is the entry point for the todo CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/oauth2"

	"todocli/internal/backend/rest"
	"todocli/internal/cli"
	"todocli/internal/commands"
	"todocli/internal/config"
	"todocli/internal/exitcode"
	"todocli/internal/logging"
	"todocli/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	metrics, err := rest.NewMetrics(reg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitcode.BackendError)
	}

	factory := func(ctx context.Context, cfg *config.Config, src oauth2.TokenSource) (service.Service, error) {
		return rest.New(cfg, src,
			rest.WithMetrics(metrics),
			rest.WithLogger(logging.Named("rest"))), nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory,
		cli.WithInput(os.Stdin),
		cli.WithGatherer(reg))

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
