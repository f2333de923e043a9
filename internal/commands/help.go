package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"agenda/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "agenda help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  agenda                                             List today's tasks
  agenda list [common flags] [--window <window>]     List tasks due within a window
  agenda filter [common flags] [--window <window>]   Toggle showing completed tasks
  agenda add [common flags] [--window <window>] [--date <yyyy-mm-dd>] <desc...>
  agenda done [common flags] [--window <window>] <ref>
  agenda rm [common flags] [--window <window>] <ref>
  agenda summary [common flags]
  agenda login [common flags] --email <email> [--password <password>]
  agenda login [common flags] --google
  agenda signup [common flags] --name <name> --email <email> [--password <password>]
  agenda logout [common flags]
  agenda whoami [common flags]
  agenda ui [common flags]
  agenda help
  agenda version

Windows:
  today, tomorrow, week, month (or a number of days)

Task references:
  3      task 3 of the selected window
  w3     task 3 of the week (t today, n tomorrow, w week, m month)

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  AGENDA_SERVER    Server URL (default http://localhost:3000)
  AGENDA_BACKEND   rest or google (default rest)
`
