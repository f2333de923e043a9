package tasklist_test

import (
	"testing"
	"time"

	"agenda/internal/service"
	"agenda/internal/tasklist"
)

func ids(tasks []service.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sampleTasks() []service.Task {
	done := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []service.Task{
		{ID: "1", Desc: "A"},
		{ID: "2", Desc: "B", DoneAt: &done},
		{ID: "3", Desc: "C"},
		{ID: "4", Desc: "D", DoneAt: &done},
	}
}

func TestFilter_ShowDone(t *testing.T) {
	tasks := sampleTasks()
	got := tasklist.Filter(tasks, true)

	if !equalIDs(ids(got), []string{"1", "2", "3", "4"}) {
		t.Errorf("expected all tasks in order, got %v", ids(got))
	}
	got[0].Desc = "changed"
	if tasks[0].Desc != "A" {
		t.Error("filtered view must not alias the task set")
	}
}

func TestFilter_PendingOnly(t *testing.T) {
	got := tasklist.Filter(sampleTasks(), false)
	if !equalIDs(ids(got), []string{"1", "3"}) {
		t.Errorf("expected pending tasks in order, got %v", ids(got))
	}
}

func TestFilter_Empty(t *testing.T) {
	if got := tasklist.Filter(nil, false); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
	if got := tasklist.Filter(nil, true); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestReduce_TwoTaskScenario(t *testing.T) {
	done := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := tasklist.Reduce(tasklist.Initial(tasklist.Today), tasklist.Mounted{ShowDoneTask: false})
	s = tasklist.Reduce(s, tasklist.LoadIssued{})
	s = tasklist.Reduce(s, tasklist.TasksLoaded{Seq: s.LoadSeq, Tasks: []service.Task{
		{ID: "1", Desc: "A"},
		{ID: "2", Desc: "B", DoneAt: &done},
	}})

	if !equalIDs(ids(s.VisibleTasks), []string{"1"}) {
		t.Errorf("expected only task 1 visible, got %v", ids(s.VisibleTasks))
	}
}

func TestReduce_FilterToggleIsIdempotent(t *testing.T) {
	s := tasklist.Reduce(tasklist.Initial(tasklist.Week), tasklist.Mounted{ShowDoneTask: true})
	s = tasklist.Reduce(s, tasklist.LoadIssued{})
	s = tasklist.Reduce(s, tasklist.TasksLoaded{Seq: s.LoadSeq, Tasks: sampleTasks()})
	before := ids(s.VisibleTasks)

	s = tasklist.Reduce(s, tasklist.FilterToggled{})
	if s.ShowDoneTask {
		t.Fatal("expected filter flipped to pending-only")
	}
	if !equalIDs(ids(s.VisibleTasks), []string{"1", "3"}) {
		t.Errorf("expected pending tasks after first toggle, got %v", ids(s.VisibleTasks))
	}

	s = tasklist.Reduce(s, tasklist.FilterToggled{})
	if !equalIDs(ids(s.VisibleTasks), before) {
		t.Errorf("expected %v after two toggles, got %v", before, ids(s.VisibleTasks))
	}
}

func TestReduce_StaleLoadDropped(t *testing.T) {
	s := tasklist.Reduce(tasklist.Initial(tasklist.Today), tasklist.Mounted{ShowDoneTask: true})
	s = tasklist.Reduce(s, tasklist.LoadIssued{})
	first := s.LoadSeq
	s = tasklist.Reduce(s, tasklist.LoadIssued{})
	second := s.LoadSeq

	s = tasklist.Reduce(s, tasklist.TasksLoaded{Seq: second, Tasks: []service.Task{{ID: "new"}}})
	s = tasklist.Reduce(s, tasklist.TasksLoaded{Seq: first, Tasks: []service.Task{{ID: "old"}}})

	if !equalIDs(ids(s.Tasks), []string{"new"}) {
		t.Errorf("expected latest issued load to win, got %v", ids(s.Tasks))
	}
}

func TestReduce_IgnoredWhenUnmounted(t *testing.T) {
	s := tasklist.Initial(tasklist.Today)
	s = tasklist.Reduce(s, tasklist.FilterToggled{})
	if !s.ShowDoneTask {
		t.Error("expected events before mount to be ignored")
	}

	s = tasklist.Reduce(s, tasklist.Mounted{ShowDoneTask: true})
	s = tasklist.Reduce(s, tasklist.LoadIssued{})
	seq := s.LoadSeq
	s = tasklist.Reduce(s, tasklist.Unmounted{})
	s = tasklist.Reduce(s, tasklist.TasksLoaded{Seq: seq, Tasks: sampleTasks()})
	if len(s.Tasks) != 0 {
		t.Errorf("expected late response to be ignored, got %v", ids(s.Tasks))
	}
}

func TestReduce_AddForm(t *testing.T) {
	s := tasklist.Reduce(tasklist.Initial(tasklist.Today), tasklist.Mounted{ShowDoneTask: true})
	s = tasklist.Reduce(s, tasklist.AddFormOpened{})
	if !s.ShowAddTask {
		t.Error("expected form open")
	}
	s = tasklist.Reduce(s, tasklist.AddFormClosed{})
	if s.ShowAddTask {
		t.Error("expected form closed")
	}
}
