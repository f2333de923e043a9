package commands

import (
	"context"
	"flag"
	"io"

	"agenda/internal/tasklist"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	window    tasklist.Window
	windowSet bool
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "agenda rm [--window <window>] <ref>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	registerRefFlags(fs, &c.window, &c.windowSet)
}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	return runOnTask(ctx, env, c.window, c.windowSet, args, out, errOut, (*tasklist.Screen).DeleteTask)
}
