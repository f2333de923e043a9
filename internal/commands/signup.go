package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"agenda/internal/backend/restapi"
	"agenda/internal/exitcode"
)

func init() {
	Register(&SignupCmd{})
}

// SignupCmd registers a new account on the server.
type SignupCmd struct {
	name     string
	email    string
	password string
}

func (c *SignupCmd) Name() string      { return "signup" }
func (c *SignupCmd) Aliases() []string { return nil }
func (c *SignupCmd) Synopsis() string  { return "Create an account" }
func (c *SignupCmd) Usage() string {
	return "agenda signup [common flags] --name <name> --email <email> [--password <password>]"
}
func (c *SignupCmd) NeedsAuth() bool { return false }

func (c *SignupCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *SignupCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	name := strings.TrimSpace(c.name)
	email := strings.TrimSpace(c.email)
	if name == "" || email == "" {
		fmt.Fprintln(errOut, "error: name and email required")
		return exitcode.UserError
	}
	password := c.password
	if password == "" {
		fmt.Fprint(errOut, "Password: ")
		password = readLine(env.input())
	}
	if password == "" {
		fmt.Fprintln(errOut, "error: password required")
		return exitcode.UserError
	}

	client := restapi.New(env.Config.Server, env.Session, restapi.WithLogger(env.Log))
	if err := client.Signup(ctx, name, email, password); err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "account created (run: agenda login)")
	}
	return exitcode.Success
}
