// Package cli parses the command line and runs the matching command.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"agenda/internal/commands"
	"agenda/internal/config"
	"agenda/internal/exitcode"
	"agenda/internal/nav"
	"agenda/internal/service"
	"agenda/internal/session"
	"agenda/internal/store"
)

// ServiceFactory creates the task backend for a bootstrapped session.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, sess *session.Session, st *store.Store) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	in       io.Reader
	now      func() time.Time
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// WithInput sets the reader used for prompts and the interactive interface.
func (d *Dispatcher) WithInput(in io.Reader) *Dispatcher {
	d.in = in
	return d
}

// WithClock overrides the clock handed to commands.
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	d.now = now
	return d
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> today's list
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return reportFlagError(err, errOut)
	}

	// A positional arg starting with - should have been parsed as a flag
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = cfg.Debug || debug

	log := cfg.Logger(errOut)
	st := store.New(cfg.Dir)
	sess := session.New()
	stack := &nav.Stack{}
	route := session.Bootstrap(st, sess, stack)
	log.Debug("session bootstrap", "command", cmd.Name(), "route", string(route), "backend", cfg.Backend)

	env := &commands.Env{
		Config:  cfg,
		Store:   st,
		Session: sess,
		Nav:     stack,
		Log:     log,
		In:      d.in,
		Now:     d.now,
	}
	if d.factory != nil {
		env.Connect = func(ctx context.Context) (service.Service, error) {
			return d.factory(ctx, cfg, sess, st)
		}
	}

	if cmd.NeedsAuth() {
		if route != nav.RouteHome {
			fmt.Fprintln(errOut, "error: not logged in (run: agenda login)")
			return exitcode.AuthError
		}
		if env.Connect == nil {
			fmt.Fprintln(errOut, "error: backend error: no backend configured")
			return exitcode.BackendError
		}
		svc, err := env.Connect(ctx)
		if err != nil {
			return reportConnectError(err, errOut)
		}
		env.Service = svc
	}

	return cmd.Run(ctx, env, positionalArgs, out, errOut)
}

func reportFlagError(err error, errOut io.Writer) int {
	errStr := err.Error()

	// Missing flag value
	if strings.Contains(errStr, "needs a value") || strings.Contains(errStr, "flag needs an argument") {
		parts := strings.Split(errStr, ":")
		flagPart := strings.TrimSpace(parts[len(parts)-1])
		fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
		return exitcode.UserError
	}

	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: %s\n", errStr)
	return exitcode.UserError
}

func reportConnectError(err error, errOut io.Writer) int {
	switch {
	case errors.Is(err, session.ErrNoCredential):
		fmt.Fprintln(errOut, "error: not logged in (run: agenda login)")
		return exitcode.AuthError
	case errors.Is(err, service.ErrUnauthorized):
		fmt.Fprintf(errOut, "error: auth error: %s\n", err)
		return exitcode.AuthError
	default:
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return exitcode.BackendError
	}
}
