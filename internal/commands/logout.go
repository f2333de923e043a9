package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"agenda/internal/exitcode"
	"agenda/internal/menu"
	"agenda/internal/output"
)

func init() {
	Register(&LogoutCmd{})
	Register(&WhoamiCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return []string{"signout"} }
func (c *LogoutCmd) Synopsis() string  { return "Remove the stored credential" }
func (c *LogoutCmd) Usage() string     { return "agenda logout [common flags]" }
func (c *LogoutCmd) NeedsAuth() bool   { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if !env.signedIn() {
		if !env.Config.Quiet {
			fmt.Fprintln(out, "not logged in")
		}
		return exitcode.Success
	}

	menu.Logout(env.Store, env.Session, env.Nav, env.Log)

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// WhoamiCmd prints the drawer header of the signed-in user.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Print the signed-in user" }
func (c *WhoamiCmd) Usage() string     { return "agenda whoami [common flags]" }
func (c *WhoamiCmd) NeedsAuth() bool   { return false }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	cred, ok := env.Session.Credential()
	if !env.signedIn() || !ok {
		fmt.Fprintln(errOut, "error: not logged in (run: agenda login)")
		return exitcode.AuthError
	}
	output.FormatMenu(out, menu.New(cred))
	return exitcode.Success
}
