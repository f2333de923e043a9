package testutil

import "sync"

// Reporter records everything surfaced by a tasklist.Screen.
type Reporter struct {
	mu     sync.Mutex
	errors []error
	alerts []string
}

// ShowError implements tasklist.Reporter.
func (r *Reporter) ShowError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err)
}

// Alert implements tasklist.Reporter.
func (r *Reporter) Alert(title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, title+": "+message)
}

// Errors returns the reported errors.
func (r *Reporter) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errors...)
}

// Alerts returns the reported alerts as "title: message".
func (r *Reporter) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.alerts...)
}
