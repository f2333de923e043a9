// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"strings"
	"time"

	"agenda/internal/config"
	"agenda/internal/nav"
	"agenda/internal/service"
	"agenda/internal/session"
	"agenda/internal/store"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command needs a signed-in user and a
	// connected backend. Env.Service is nil otherwise.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command with positional args and returns the exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}

// Env is everything a command runs against. It is assembled once per
// invocation after the session bootstrap.
type Env struct {
	Config  *config.Config
	Store   *store.Store
	Session *session.Session
	Nav     *nav.Stack
	Log     *slog.Logger

	// Service is the connected backend, set for NeedsAuth commands.
	Service service.Service

	// Connect creates the backend on demand.
	Connect func(ctx context.Context) (service.Service, error)

	// In is read for prompts such as the login password.
	In io.Reader

	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Env) input() io.Reader {
	if e.In == nil {
		return strings.NewReader("")
	}
	return e.In
}

func (e *Env) signedIn() bool {
	return e.Nav != nil && e.Nav.Current().Route == nav.RouteHome
}
