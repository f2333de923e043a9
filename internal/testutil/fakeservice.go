// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"agenda/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu    sync.RWMutex
	tasks []service.Task
	calls []string
	until []time.Time

	// Error injection for testing
	ListTasksErr  error
	CreateTaskErr error
	ToggleTaskErr error
	DeleteTaskErr error

	// OnListTasks, if set, runs at the start of every ListTasks call.
	OnListTasks func()

	// Now stamps completion times; defaults to time.Now.
	Now func() time.Time
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{Now: time.Now}
}

// AddTask adds a task and returns its generated ID.
func (f *FakeService) AddTask(desc string, estimateAt time.Time, doneAt *time.Time) string {
	id := uuid.NewString()
	f.AddTaskWithID(id, desc, estimateAt, doneAt)
	return id
}

// AddTaskWithID adds a task with a fixed ID.
func (f *FakeService) AddTaskWithID(id, desc string, estimateAt time.Time, doneAt *time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{
		ID:         id,
		Desc:       desc,
		EstimateAt: estimateAt,
		DoneAt:     doneAt,
	})
}

// Tasks returns a copy of every stored task.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Calls returns the names of the methods called, in order.
func (f *FakeService) Calls() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many times method was called.
func (f *FakeService) CallCount(method string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == method {
			n++
		}
	}
	return n
}

// LastUntil returns the bound passed to the latest ListTasks call.
func (f *FakeService) LastUntil() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if len(f.until) == 0 {
		return time.Time{}
	}
	return f.until[len(f.until)-1]
}

func (f *FakeService) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, method)
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, until time.Time) ([]service.Task, error) {
	f.record("ListTasks")
	if f.OnListTasks != nil {
		f.OnListTasks()
	}
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.until = append(f.until, until)

	var result []service.Task
	for _, t := range f.tasks {
		if !t.EstimateAt.After(until) {
			result = append(result, t)
		}
	}
	return result, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, task service.NewTask) error {
	f.record("CreateTask")
	if f.CreateTaskErr != nil {
		return f.CreateTaskErr
	}
	f.AddTask(task.Desc, task.EstimateAt, nil)
	return nil
}

// ToggleTask implements service.Service.
func (f *FakeService) ToggleTask(ctx context.Context, id string) error {
	f.record("ToggleTask")
	if f.ToggleTaskErr != nil {
		return f.ToggleTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID != id {
			continue
		}
		if t.DoneAt == nil {
			now := f.Now()
			f.tasks[i].DoneAt = &now
		} else {
			f.tasks[i].DoneAt = nil
		}
		return nil
	}
	return service.ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.record("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return service.ErrNotFound
}
