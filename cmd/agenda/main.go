// Package main is the entry point for the agenda CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"agenda/internal/backend/googletasks"
	"agenda/internal/backend/restapi"
	"agenda/internal/cli"
	"agenda/internal/commands"
	"agenda/internal/config"
	"agenda/internal/service"
	"agenda/internal/session"
	"agenda/internal/store"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	factory := func(ctx context.Context, cfg *config.Config, sess *session.Session, st *store.Store) (service.Service, error) {
		switch cfg.Backend {
		case config.BackendREST:
			return restapi.New(cfg.Server, sess, restapi.WithLogger(cfg.Logger(os.Stderr))), nil
		case config.BackendGoogle:
			return googletasks.New(ctx, cfg, sess, st)
		default:
			return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
		}
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory).WithInput(os.Stdin)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
