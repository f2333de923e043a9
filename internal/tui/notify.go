package tui

import (
	"strings"
	"sync"
)

// notifier collects screen reports until the next update drains them.
type notifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *notifier) ShowError(err error) {
	n.add(err.Error())
}

func (n *notifier) Alert(title, message string) {
	n.add(title + ": " + message)
}

func (n *notifier) add(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

// take returns and clears the pending reports.
func (n *notifier) take() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	msg := strings.Join(n.msgs, "; ")
	n.msgs = nil
	return msg
}
