package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"agenda/internal/exitcode"
	"agenda/internal/service"
	"agenda/internal/tasklist"
)

// DateLayout is the layout of the --date flag.
const DateLayout = "2006-01-02"

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	window tasklist.Window
	date   string
}

// SetDate sets the estimate date (for testing).
func (c *AddCmd) SetDate(date string) {
	c.date = date
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "agenda add [--window <window>] [--date <yyyy-mm-dd>] <desc...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	registerWindowFlag(fs, &c.window)
	fs.StringVar(&c.date, "date", "", "")
	fs.StringVar(&c.date, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	estimate, err := parseEstimate(c.date, env.now())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	desc := strings.Join(args, " ")
	if strings.TrimSpace(desc) == "" {
		cliReporter{errOut: errOut}.Alert("Invalid data", "Description not provided!")
		return exitcode.UserError
	}

	scr, code := openScreen(ctx, env, c.window, errOut)
	if code != exitcode.Success {
		return code
	}
	defer scr.Unmount()

	scr.OpenAddTask()
	task := service.NewTask{Desc: desc, EstimateAt: estimate}
	if err := scr.AddTask(ctx, task); err != nil {
		return exitFor(err)
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// parseEstimate parses a --date value. An empty value means now.
func parseEstimate(date string, now time.Time) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return now, nil
	}
	day, err := time.ParseInLocation(DateLayout, date, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %s", date)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), now.Second(), 0, now.Location()), nil
}
