// Package notify is the storefront's notification center: short-lived
// messages produced by cart and configurator operations, drained by the UI.
// Each visitor session owns its own Center; notifications never cross
// sessions.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level classifies a notification.
type Level string

const (
	Success Level = "success"
	Info    Level = "info"
	Warning Level = "warning"
	Error   Level = "error"
)

// DefaultDuration is how long a notification stays active when the
// publisher does not say otherwise.
const DefaultDuration = 3 * time.Second

// Notification is one message with an expiry.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Level     Level     `json:"level"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Center holds active notifications and fans them out to subscribers.
// Safe for concurrent use.
type Center struct {
	mu     sync.Mutex
	active []Notification
	subs   map[int]chan Notification
	nextID int

	now func() time.Time
}

// NewCenter returns an empty notification center.
func NewCenter() *Center {
	return &Center{
		subs: make(map[int]chan Notification),
		now:  time.Now,
	}
}

// Publish adds a notification and returns its id. A non-positive duration
// falls back to DefaultDuration.
func (c *Center) Publish(level Level, message string, duration time.Duration) string {
	if duration <= 0 {
		duration = DefaultDuration
	}
	n := Notification{
		ID:        uuid.New().String(),
		Message:   message,
		Level:     level,
		ExpiresAt: c.now().Add(duration),
	}

	c.mu.Lock()
	c.prune(c.now())
	c.active = append(c.active, n)
	for _, ch := range c.subs {
		select {
		case ch <- n:
		default: // slow subscriber, drop
		}
	}
	c.mu.Unlock()
	return n.ID
}

// Active returns notifications that have not yet expired.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune(c.now())
	out := make([]Notification, len(c.active))
	copy(out, c.active)
	return out
}

// Dismiss removes a notification by id before its expiry.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.active {
		if c.active[i].ID == id {
			c.active = append(c.active[:i], c.active[i+1:]...)
			return
		}
	}
}

// Subscribe returns a channel receiving future notifications and a cancel
// function releasing it.
func (c *Center) Subscribe() (<-chan Notification, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	ch := make(chan Notification, 16)
	c.subs[id] = ch
	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
}

// prune drops expired notifications. Callers must hold c.mu.
func (c *Center) prune(now time.Time) {
	kept := c.active[:0]
	for _, n := range c.active {
		if n.ExpiresAt.After(now) {
			kept = append(kept, n)
		}
	}
	c.active = kept
}
