// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnauthorized is returned when the backend rejects the credential.
	ErrUnauthorized = errors.New("token expired or revoked (run: agenda login)")

	// ErrNotFound is returned when the referenced task does not exist.
	ErrNotFound = errors.New("not found")
)

// Service defines the interface for task backend operations.
// Commands and screens never import a backend directly.
type Service interface {
	// ListTasks returns every task estimated at or before until, in
	// backend order.
	ListTasks(ctx context.Context, until time.Time) ([]Task, error)

	// CreateTask creates a new task.
	CreateTask(ctx context.Context, task NewTask) error

	// ToggleTask flips the completion state of a task.
	ToggleTask(ctx context.Context, id string) error

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id string) error
}
