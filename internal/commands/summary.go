package commands

import (
	"context"
	"flag"
	"io"

	"agenda/internal/exitcode"
	"agenda/internal/output"
	"agenda/internal/tasklist"
)

func init() {
	Register(&SummaryCmd{})
}

// SummaryCmd prints the task counts of every window.
type SummaryCmd struct{}

func (c *SummaryCmd) Name() string      { return "summary" }
func (c *SummaryCmd) Aliases() []string { return []string{"windows"} }
func (c *SummaryCmd) Synopsis() string  { return "Print task counts per window" }
func (c *SummaryCmd) Usage() string     { return "agenda summary [common flags]" }
func (c *SummaryCmd) NeedsAuth() bool   { return true }

func (c *SummaryCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SummaryCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	for _, w := range tasklist.Windows {
		scr, code := openScreen(ctx, env, w, errOut)
		if code != exitcode.Success {
			return code
		}
		st := scr.State()
		scr.Unmount()

		pending := 0
		for _, task := range st.Tasks {
			if task.Pending() {
				pending++
			}
		}
		output.FormatSummary(out, w, pending, len(st.Tasks))
	}
	return exitcode.Success
}
