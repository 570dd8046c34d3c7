package memtest

import (
	"sync"

	"github.com/medplus/clinic-scheduler/internal/audit"
	"github.com/medplus/clinic-scheduler/internal/notification"
)

// AuditRecorder keeps dispatched audit events in memory.
type AuditRecorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *AuditRecorder) Dispatch(ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *AuditRecorder) Actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Action)
	}
	return out
}

// Notifier keeps dispatched notices in memory.
type Notifier struct {
	mu      sync.Mutex
	notices []notification.Notice
}

func (n *Notifier) Dispatch(notice notification.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *Notifier) Notices() []notification.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]notification.Notice, len(n.notices))
	copy(out, n.notices)
	return out
}
