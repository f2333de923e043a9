// Package tasklist implements the task list screen: its state, the
// transitions between states and the controller that talks to the backend.
package tasklist

import (
	"slices"

	"agenda/internal/service"
)

// State is everything the task list screen renders.
//
// VisibleTasks is always Filter(Tasks, ShowDoneTask).
type State struct {
	Window       Window
	ShowDoneTask bool
	ShowAddTask  bool
	Tasks        []service.Task
	VisibleTasks []service.Task

	// Mounted is false before Mount and after Unmount; events other than
	// Mounted are ignored while it is false.
	Mounted bool

	// LoadSeq is the sequence number of the most recently issued load.
	LoadSeq uint64
}

// Initial returns the state of a screen that has not been mounted yet.
func Initial(w Window) State {
	return State{Window: w, ShowDoneTask: true}
}

// Event is an input to Reduce.
type Event interface {
	event()
}

// Mounted seeds the screen with the persisted filter preference.
type Mounted struct{ ShowDoneTask bool }

// Unmounted marks the screen as gone.
type Unmounted struct{}

// LoadIssued records that a new load was started.
type LoadIssued struct{}

// TasksLoaded carries the result of load Seq.
type TasksLoaded struct {
	Seq   uint64
	Tasks []service.Task
}

// FilterToggled flips ShowDoneTask.
type FilterToggled struct{}

// AddFormOpened shows the add-task form.
type AddFormOpened struct{}

// AddFormClosed hides the add-task form.
type AddFormClosed struct{}

func (Mounted) event()       {}
func (Unmounted) event()     {}
func (LoadIssued) event()    {}
func (TasksLoaded) event()   {}
func (FilterToggled) event() {}
func (AddFormOpened) event() {}
func (AddFormClosed) event() {}

// Reduce returns the state that follows s after e.
func Reduce(s State, e Event) State {
	if m, ok := e.(Mounted); ok {
		s.Mounted = true
		s.ShowDoneTask = m.ShowDoneTask
		s.VisibleTasks = Filter(s.Tasks, s.ShowDoneTask)
		return s
	}
	if !s.Mounted {
		return s
	}

	switch e := e.(type) {
	case Unmounted:
		s.Mounted = false
	case LoadIssued:
		s.LoadSeq++
	case TasksLoaded:
		// Responses of superseded loads are dropped.
		if e.Seq != s.LoadSeq {
			return s
		}
		s.Tasks = e.Tasks
		s.VisibleTasks = Filter(s.Tasks, s.ShowDoneTask)
	case FilterToggled:
		s.ShowDoneTask = !s.ShowDoneTask
		s.VisibleTasks = Filter(s.Tasks, s.ShowDoneTask)
	case AddFormOpened:
		s.ShowAddTask = true
	case AddFormClosed:
		s.ShowAddTask = false
	}
	return s
}

// Filter returns tasks when showDone is set, otherwise only the pending
// ones. Order is preserved and the result never aliases tasks.
func Filter(tasks []service.Task, showDone bool) []service.Task {
	if showDone {
		return slices.Clone(tasks)
	}
	visible := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Pending() {
			visible = append(visible, t)
		}
	}
	return visible
}
