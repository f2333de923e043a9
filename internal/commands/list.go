package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"agenda/internal/exitcode"
	"agenda/internal/output"
	"agenda/internal/tasklist"
)

func init() {
	Register(&ListCmd{})
	Register(&FilterCmd{})
}

// ListCmd implements the list command.
// Handles both `agenda` (no args) and `agenda list --window <w>`.
type ListCmd struct {
	window tasklist.Window
}

// SetWindow sets the window (for testing).
func (c *ListCmd) SetWindow(w tasklist.Window) {
	c.window = w
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks due within a window" }
func (c *ListCmd) Usage() string     { return "agenda list [--window <window>]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	registerWindowFlag(fs, &c.window)
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	scr, code := openScreen(ctx, env, c.window, errOut)
	if code != exitcode.Success {
		return code
	}
	defer scr.Unmount()

	st := scr.State()
	output.FormatState(out, st, env.now())
	if len(st.VisibleTasks) == 0 && !env.Config.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}

// FilterCmd flips between showing all tasks and pending tasks only.
// The choice is persisted and shared by every window.
type FilterCmd struct {
	window tasklist.Window
}

func (c *FilterCmd) Name() string      { return "filter" }
func (c *FilterCmd) Aliases() []string { return nil }
func (c *FilterCmd) Synopsis() string  { return "Toggle showing completed tasks" }
func (c *FilterCmd) Usage() string     { return "agenda filter [--window <window>]" }
func (c *FilterCmd) NeedsAuth() bool   { return true }

func (c *FilterCmd) RegisterFlags(fs *flag.FlagSet) {
	registerWindowFlag(fs, &c.window)
}

func (c *FilterCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	scr, code := openScreen(ctx, env, c.window, errOut)
	if code != exitcode.Success {
		return code
	}
	defer scr.Unmount()

	st := scr.ToggleFilter()
	if env.Config.Quiet {
		return exitcode.Success
	}
	output.FormatState(out, st, env.now())
	return exitcode.Success
}
