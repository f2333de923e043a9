package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"agenda/internal/exitcode"
	"agenda/internal/tasklist"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. Running it on a completed task
// marks it pending again.
type DoneCmd struct {
	window    tasklist.Window
	windowSet bool
}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task's completion" }
func (c *DoneCmd) Usage() string     { return "agenda done [--window <window>] <ref>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	registerRefFlags(fs, &c.window, &c.windowSet)
}

func (c *DoneCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	return runOnTask(ctx, env, c.window, c.windowSet, args, out, errOut, (*tasklist.Screen).ToggleTask)
}

// registerRefFlags binds the window flag and records whether it was given.
func registerRefFlags(fs *flag.FlagSet, w *tasklist.Window, set *bool) {
	*w = tasklist.Today
	*set = false
	v := trackedWindow{windowFlag{w}, set}
	fs.Var(v, "window", "")
	fs.Var(v, "w", "")
}

type trackedWindow struct {
	windowFlag
	set *bool
}

func (f trackedWindow) Set(s string) error {
	if err := f.windowFlag.Set(s); err != nil {
		return err
	}
	*f.set = true
	return nil
}

// runOnTask resolves a task reference on a mounted screen and applies op.
func runOnTask(ctx context.Context, env *Env, w tasklist.Window, windowSet bool, args []string, out, errOut io.Writer,
	op func(*tasklist.Screen, context.Context, string) error) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	// --window and a window letter are mutually exclusive
	if windowSet && ref.HasWindow {
		fmt.Fprintln(errOut, "error: cannot use both --window and window letter")
		return exitcode.UserError
	}
	if ref.HasWindow {
		w = ref.Window
	}
	if ref.TaskNum < 1 {
		fmt.Fprintf(errOut, "error: task number out of range: %d\n", ref.TaskNum)
		return exitcode.UserError
	}

	scr, code := openScreen(ctx, env, w, errOut)
	if code != exitcode.Success {
		return code
	}
	defer scr.Unmount()

	task, err := lookupTask(scr.State(), ref.TaskNum)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err := op(scr, ctx, task.ID); err != nil {
		return exitFor(err)
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
