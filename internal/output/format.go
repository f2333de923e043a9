// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"agenda/internal/menu"
	"agenda/internal/service"
	"agenda/internal/tasklist"
)

const (
	// Separator is the separator line around a screen header.
	Separator = "------------"

	// DateLayout is used for task dates and the header date.
	DateLayout = "Mon, Jan 2"
)

// FormatHeader formats the screen header: title, today's date and the
// active filter.
func FormatHeader(w io.Writer, window tasklist.Window, today time.Time, showDone bool) {
	filter := "all"
	if !showDone {
		filter = "pending"
	}
	fmt.Fprintln(w, Separator)
	fmt.Fprintf(w, "%s  %s  [%s]\n", window.Title(), today.Format(DateLayout), filter)
	fmt.Fprintln(w, Separator)
}

// FormatTask formats a task line.
// Format: "{N:>4}  [x] {DESC}  {DATE}\n" where DATE is the completion date
// for done tasks and the estimate otherwise.
func FormatTask(w io.Writer, num int, task service.Task) {
	check := "[ ]"
	date := task.EstimateAt
	if !task.Pending() {
		check = "[x]"
		date = *task.DoneAt
	}
	fmt.Fprintf(w, "%4d  %s %s  %s\n", num, check, normalizeDesc(task.Desc), date.Format(DateLayout))
}

// FormatState formats a whole screen.
func FormatState(w io.Writer, st tasklist.State, today time.Time) {
	FormatHeader(w, st.Window, today, st.ShowDoneTask)
	for i, task := range st.VisibleTasks {
		FormatTask(w, i+1, task)
	}
}

// FormatSummary formats one line of the per-window counts.
// Format: "{TITLE:<9} {PENDING} pending / {TOTAL}  {COLOR}\n"
func FormatSummary(w io.Writer, window tasklist.Window, pending, total int) {
	fmt.Fprintf(w, "%-9s %d pending / %d  %s\n", window.Title(), pending, total, window.Presentation().Color)
}

// FormatMenu formats the drawer header.
func FormatMenu(w io.Writer, m menu.Menu) {
	fmt.Fprintln(w, normalizeName(m.Name))
	fmt.Fprintln(w, m.Email)
	fmt.Fprintln(w, m.Avatar)
}

// normalizeDesc normalizes a task description for display.
// - Empty or whitespace-only descriptions become "(untitled)"
// - Newlines are replaced with spaces
func normalizeDesc(desc string) string {
	desc = strings.ReplaceAll(desc, "\r", " ")
	desc = strings.ReplaceAll(desc, "\n", " ")

	if strings.TrimSpace(desc) == "" {
		return "(untitled)"
	}
	return desc
}

func normalizeName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "(unnamed)"
	}
	return name
}
