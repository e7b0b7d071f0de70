// Package notify holds the widget's user-facing error notifications.
package notify

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when dismissing an unknown or expired notification.
	ErrNotFound = errors.New("notification not found")
)

// Level is the severity of a notification.
type Level string

const LevelError Level = "error"

// Notification is one toast-style message.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Feed is a concurrency-safe, bounded, auto-expiring list of notifications.
type Feed struct {
	mu sync.RWMutex

	items []Notification

	// retention configuration
	maxHistory int           // max number of notifications kept (0 = unlimited)
	ttl        time.Duration // display time before a notification expires (0 = never)

	now func() time.Time
}

// NewFeed creates a Feed. If maxHistory is <= 0 it is treated as unlimited;
// a ttl <= 0 keeps notifications until dismissed.
func NewFeed(maxHistory int, ttl time.Duration) *Feed {
	return &Feed{
		maxHistory: maxHistory,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Error records an error notification. It satisfies weather.Notifier.
func (f *Feed) Error(message string) {
	f.Push(LevelError, message)
}

// Push appends a notification and enforces retention.
func (f *Feed) Push(level Level, message string) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: f.now().UTC(),
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, n)

	// Enforce retention by count.
	if f.maxHistory > 0 && len(f.items) > f.maxHistory {
		over := len(f.items) - f.maxHistory
		f.items = f.items[over:]
	}

	f.pruneLocked()
	return n
}

// pruneLocked drops expired notifications from the front of the list.
func (f *Feed) pruneLocked() {
	if f.ttl <= 0 {
		return
	}
	cutoff := f.now().Add(-f.ttl)
	i := 0
	for ; i < len(f.items); i++ {
		if f.items[i].CreatedAt.After(cutoff) {
			break
		}
	}
	if i > 0 {
		f.items = append([]Notification(nil), f.items[i:]...)
	}
}

// Active returns the notifications that have not expired or been dismissed,
// oldest first.
func (f *Feed) Active() []Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var cutoff time.Time
	if f.ttl > 0 {
		cutoff = f.now().Add(-f.ttl)
	}

	out := make([]Notification, 0, len(f.items))
	for _, n := range f.items {
		if f.ttl > 0 && !n.CreatedAt.After(cutoff) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Dismiss removes a notification by ID.
func (f *Feed) Dismiss(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, n := range f.items {
		if n.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
