// Package nav keeps the navigation history of the client.
package nav

import "sync"

// Route names a top-level flow.
type Route string

const (
	// RouteAuth is the unauthenticated login flow.
	RouteAuth Route = "Auth"

	// RouteHome is the authenticated application.
	RouteHome Route = "Home"
)

// Entry is one element of the navigation history.
type Entry struct {
	Route  Route
	Params any
}

// Navigator moves forward to a route.
type Navigator interface {
	Navigate(route Route, params any)
}

// Resetter replaces the whole history with a single root.
type Resetter interface {
	Reset(route Route)
}

// Stack is a navigation history. The zero value is an empty stack.
type Stack struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewStack returns a stack with root as its only entry.
func NewStack(root Route) *Stack {
	return &Stack{entries: []Entry{{Route: root}}}
}

// Navigate pushes route on top of the history.
func (s *Stack) Navigate(route Route, params any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, Entry{Route: route, Params: params})
}

// Reset discards every entry and leaves route as the single root.
func (s *Stack) Reset(route Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = []Entry{{Route: route}}
}

// Back pops the top entry. The root entry is never popped.
func (s *Stack) Back() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) <= 1 {
		return false
	}
	s.entries = s.entries[:len(s.entries)-1]
	return true
}

// Current returns the top entry, or the zero Entry for an empty stack.
func (s *Stack) Current() Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.entries) == 0 {
		return Entry{}
	}
	return s.entries[len(s.entries)-1]
}

// Root returns the bottom entry, or the zero Entry for an empty stack.
func (s *Stack) Root() Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.entries) == 0 {
		return Entry{}
	}
	return s.entries[0]
}

// Depth returns the number of entries.
func (s *Stack) Depth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
