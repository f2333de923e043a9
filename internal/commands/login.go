package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"agenda/internal/backend/restapi"
	"agenda/internal/config"
	"agenda/internal/exitcode"
	"agenda/internal/nav"
	"agenda/internal/session"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
	google   bool
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return []string{"signin"} }
func (c *LoginCmd) Synopsis() string  { return "Sign in and store the credential" }
func (c *LoginCmd) Usage() string {
	return "agenda login [common flags] --email <email> [--password <password>] | --google"
}
func (c *LoginCmd) NeedsAuth() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.BoolVar(&c.google, "google", false, "")
}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if env.signedIn() {
		if !env.Config.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	if c.google || env.Config.Backend == config.BackendGoogle {
		return runGoogleLogin(ctx, env, out, errOut)
	}

	email := strings.TrimSpace(c.email)
	if email == "" {
		fmt.Fprintln(errOut, "error: email required")
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
	cred, err := client.Signin(ctx, email, password)
	if errors.Is(err, restapi.ErrBadCredentials) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	return finishLogin(env, cred, out, errOut)
}

// finishLogin persists cred, attaches it and moves to Home.
func finishLogin(env *Env, cred session.Credential, out, errOut io.Writer) int {
	if err := env.Config.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := session.Login(env.Store, env.Session, cred); err != nil {
		fmt.Fprintf(errOut, "error: failed to save credential: %v\n", err)
		return exitcode.AuthError
	}
	env.Nav.Navigate(nav.RouteHome, cred)

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// readLine returns the first line of r without surrounding whitespace.
func readLine(r io.Reader) string {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		return ""
	}
	return strings.TrimSpace(sc.Text())
}
