package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"agenda/internal/exitcode"
	"agenda/internal/service"
	"agenda/internal/session"
	"agenda/internal/tasklist"
)

// windowFlag is a flag.Value holding a task list window.
type windowFlag struct {
	w *tasklist.Window
}

func (f windowFlag) String() string {
	if f.w == nil {
		return tasklist.Today.String()
	}
	return f.w.String()
}

func (f windowFlag) Set(s string) error {
	w, err := tasklist.ParseWindow(s)
	if err != nil {
		return err
	}
	*f.w = w
	return nil
}

// registerWindowFlag binds --window and -w to w.
func registerWindowFlag(fs *flag.FlagSet, w *tasklist.Window) {
	*w = tasklist.Today
	fs.Var(windowFlag{w}, "window", "")
	fs.Var(windowFlag{w}, "w", "")
}

// cliReporter prints screen failures the way every command reports errors.
type cliReporter struct {
	errOut io.Writer
}

func (r cliReporter) ShowError(err error) {
	fmt.Fprintf(r.errOut, "error: %s\n", describe(err))
}

func (r cliReporter) Alert(title, message string) {
	fmt.Fprintf(r.errOut, "error: %s: %s\n", strings.ToLower(title), message)
}

func describe(err error) string {
	switch {
	case errors.Is(err, session.ErrNoCredential):
		return "not logged in (run: agenda login)"
	case errors.Is(err, service.ErrUnauthorized):
		return "auth error: " + service.ErrUnauthorized.Error()
	default:
		return "backend error: " + err.Error()
	}
}

// exitFor maps a screen error to an exit code.
func exitFor(err error) int {
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, tasklist.ErrEmptyDescription):
		return exitcode.UserError
	case errors.Is(err, session.ErrNoCredential), errors.Is(err, service.ErrUnauthorized):
		return exitcode.AuthError
	default:
		return exitcode.BackendError
	}
}

// openScreen mounts the task list screen for w. Failures are already
// reported on errOut when the returned code is non-zero.
func openScreen(ctx context.Context, env *Env, w tasklist.Window, errOut io.Writer) (*tasklist.Screen, int) {
	scr := tasklist.NewScreen(w, env.Service,
		tasklist.StorePreferences{Store: env.Store},
		cliReporter{errOut: errOut},
		tasklist.WithClock(env.now),
		tasklist.WithLogger(env.Log),
	)
	if err := scr.Mount(ctx); err != nil {
		scr.Unmount()
		return nil, exitFor(err)
	}
	return scr, exitcode.Success
}
