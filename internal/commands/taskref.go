package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"agenda/internal/tasklist"
)

// TaskRef is a parsed task reference: a 1-based position in the visible
// list of a window.
type TaskRef struct {
	Window    tasklist.Window // valid when HasWindow
	TaskNum   int
	HasWindow bool // true if a window letter was provided
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// windowLetters maps reference prefixes to windows.
var windowLetters = map[rune]tasklist.Window{
	't': tasklist.Today,
	'n': tasklist.Tomorrow,
	'w': tasklist.Week,
	'm': tasklist.Month,
}

// ParseTaskRef parses a task reference from args.
//
//   - "3" is task 3 of the window given by --window (default today)
//   - "w3" is task 3 of the week; t, n, w and m select today, tomorrow,
//     week and month
//   - "w 3" is the same as "w3"
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}

	first := args[0]
	if isAllDigits(first) {
		num, err := strconv.Atoi(first)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", first)
		}
		return TaskRef{TaskNum: num}, nil
	}

	if first == "" {
		return TaskRef{}, ErrTaskRefRequired
	}
	w, ok := windowLetters[rune(first[0])]
	if !ok {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", first)
	}

	digits := first[1:]
	if digits == "" {
		if len(args) < 2 {
			return TaskRef{}, ErrTaskRefRequired
		}
		digits = args[1]
	}
	if !isAllDigits(digits) {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", first)
	}
	num, err := strconv.Atoi(digits)
	if err != nil {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", first)
	}
	return TaskRef{Window: w, TaskNum: num, HasWindow: true}, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
