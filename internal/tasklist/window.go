package tasklist

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Window is the look-ahead in days of one task list screen.
type Window int

// The four screens of the app.
const (
	Today    Window = 0
	Tomorrow Window = 1
	Week     Window = 7
	Month    Window = 30
)

// Windows lists the screens in tab order.
var Windows = []Window{Today, Tomorrow, Week, Month}

// BoundLayout is how an upper date bound is printed.
const BoundLayout = "2006-01-02 15:04:05"

// Days returns the look-ahead in days.
func (w Window) Days() int {
	return int(w)
}

// Title returns the screen title.
func (w Window) Title() string {
	switch w {
	case Today:
		return "Today"
	case Tomorrow:
		return "Tomorrow"
	case Week:
		return "Week"
	default:
		return "Month"
	}
}

func (w Window) String() string {
	return strings.ToLower(w.Title())
}

// ParseWindow accepts a screen name (today, tomorrow, week, month) or a
// non-negative number of days.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return Today, nil
	case "tomorrow":
		return Tomorrow, nil
	case "week":
		return Week, nil
	case "month":
		return Month, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid window: %s", s)
	}
	return Window(n), nil
}

// MaxDate returns the end of the last day covered by w, in now's location.
func MaxDate(now time.Time, w Window) time.Time {
	d := now.AddDate(0, 0, w.Days())
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, d.Location())
}

// FormatBound formats an upper date bound with BoundLayout.
func FormatBound(t time.Time) string {
	return t.Format(BoundLayout)
}
