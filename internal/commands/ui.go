package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"agenda/internal/exitcode"
	"agenda/internal/tui"
)

func init() {
	Register(&UICmd{})
}

// UICmd starts the interactive terminal interface.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return []string{"tui"} }
func (c *UICmd) Synopsis() string  { return "Open the interactive task lists" }
func (c *UICmd) Usage() string     { return "agenda ui [common flags]" }

// NeedsAuth is false: the interface shows its own sign in form.
func (c *UICmd) NeedsAuth() bool { return false }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	deps := tui.Deps{
		Config:  env.Config,
		Store:   env.Store,
		Session: env.Session,
		Nav:     env.Nav,
		Log:     env.Log,
		Connect: env.Connect,
		Now:     env.Now,
	}
	if err := tui.Run(ctx, deps, env.input(), out); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
