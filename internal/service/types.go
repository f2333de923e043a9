// Package service defines the backend-agnostic interface for task operations.
package service

import "time"

// Task represents a single task item.
type Task struct {
	ID         string
	Desc       string
	EstimateAt time.Time
	DoneAt     *time.Time // nil while pending
}

// Pending reports whether the task has no completion timestamp.
func (t Task) Pending() bool {
	return t.DoneAt == nil
}

// NewTask is the payload for creating a task.
type NewTask struct {
	Desc       string
	EstimateAt time.Time
}
