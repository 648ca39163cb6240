// Package alert keeps the ephemeral notifications shown to a user. Each
// notification expires on its own after a display duration.
package alert

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultDuration is how long a notification stays when the caller gives none.
const DefaultDuration = 5000 * time.Millisecond

type Severity string

const (
	Success Severity = "success"
	Danger  Severity = "danger"
)

type Alert struct {
	ID        string    `json:"id"`
	Msg       string    `json:"msg"`
	Type      Severity  `json:"alertType"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Queue holds the active notifications in push order. Expiry is idempotent:
// removing an id that is already gone does nothing, so a manual dismissal
// and the scheduled expiry may both run.
type Queue struct {
	sched *Scheduler
	newID func() string

	mu    sync.RWMutex
	items []Alert

	// OnChange, when set, receives a snapshot after every change. It runs on
	// the goroutine that made the change.
	OnChange func([]Alert)
}

func NewQueue(sched *Scheduler) *Queue {
	return &Queue{sched: sched, newID: uuid.NewString}
}

// Push adds a notification and schedules its expiry. An optional duration
// overrides DefaultDuration.
func (q *Queue) Push(msg string, sev Severity, duration ...time.Duration) string {
	d := DefaultDuration
	if len(duration) > 0 && duration[0] > 0 {
		d = duration[0]
	}
	id := q.newID()

	q.mu.Lock()
	q.items = append(q.items, Alert{ID: id, Msg: msg, Type: sev, ExpiresAt: q.sched.Clock().Now().Add(d)})
	snap := q.snapshotLocked()
	q.mu.Unlock()
	q.notify(snap)

	q.sched.After(d, func() { q.Expire(id) })
	return id
}

// Expire removes the notification with id. It reports whether anything was
// removed.
func (q *Queue) Expire(id string) bool {
	q.mu.Lock()
	idx := -1
	for i, a := range q.items {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items[:idx:idx], q.items[idx+1:]...)
	snap := q.snapshotLocked()
	q.mu.Unlock()
	q.notify(snap)
	return true
}

// List returns the active notifications, oldest first.
func (q *Queue) List() []Alert {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.snapshotLocked()
}

func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.items)
}

func (q *Queue) snapshotLocked() []Alert {
	out := make([]Alert, len(q.items))
	copy(out, q.items)
	return out
}

func (q *Queue) notify(snap []Alert) {
	if q.OnChange != nil {
		q.OnChange(snap)
	}
}
