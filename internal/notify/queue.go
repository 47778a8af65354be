// Package notify provides an ephemeral, self-expiring notification queue.
// Every pushed notification is removed after a fixed TTL by an independent
// timer; there is no coalescing and no per-notification cancellation hook.
package notify

import (
	"sync"
	"time"
)

// Kind classifies a notification for presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 3 * time.Second

// Notification is a short-lived message surfaced by engine actions.
type Notification struct {
	ID      int64     `json:"id"`
	Message string    `json:"message"`
	Kind    Kind      `json:"kind"`
	Pushed  time.Time `json:"pushed"`
}

// Queue is a thread-safe self-expiring notification queue.
type Queue struct {
	mu     sync.Mutex
	items  []Notification
	ttl    time.Duration
	nextID int64
	closed bool
}

// NewQueue creates a Queue with the given TTL (DefaultTTL when zero).
func NewQueue(ttl time.Duration) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{
		ttl: ttl,
		// wall-clock base keeps IDs monotonic across queue instances
		nextID: time.Now().UnixMilli(),
	}
}

// Push appends a notification and schedules its removal after the TTL.
// The expiry timer is fire-and-forget: if the queue is closed or already
// drained when it fires, the removal is a no-op.
func (q *Queue) Push(message string, kind Kind) Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.nextID++
	n := Notification{
		ID:      q.nextID,
		Message: message,
		Kind:    kind,
		Pushed:  time.Now(),
	}
	if q.closed {
		// closed queues accept nothing, but callers need not care
		return n
	}
	q.items = append(q.items, n)

	time.AfterFunc(q.ttl, func() { q.remove(n.ID) })
	return n
}

func (q *Queue) remove(id int64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}

// Active returns a copy of the currently visible notifications, oldest first.
func (q *Queue) Active() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Close drops all pending notifications and rejects further pushes.
// Outstanding expiry timers still fire, harmlessly, against the empty queue.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.items = nil
}
