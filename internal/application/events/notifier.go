// Package events delivers change notifications from the planner core to the
// presentation layer, which re-renders in response instead of being driven
// by the core.
package events

import (
	"sort"
	"sync"
)

// Op names a mutation kind
type Op string

const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpRemove Op = "remove"
	OpToggle Op = "toggle"
)

// Change describes one committed mutation of a persisted collection
type Change struct {
	Collection string `json:"collection"`
	Op         Op     `json:"op"`
	ID         string `json:"id,omitempty"`
}

// Notifier fans out changes to subscribers synchronously, in subscription
// order, after the write has been committed. A nil *Notifier drops everything.
type Notifier struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[uint64]func(Change)
}

func NewNotifier() *Notifier {
	return &Notifier{handlers: make(map[uint64]func(Change))}
}

// Subscribe registers fn and returns a function that removes it.
func (n *Notifier) Subscribe(fn func(Change)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	n.handlers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.handlers, id)
		})
	}
}

// Publish delivers c to every current subscriber.
func (n *Notifier) Publish(c Change) {
	if n == nil {
		return
	}

	n.mu.RLock()
	ids := make([]uint64, 0, len(n.handlers))
	for id := range n.handlers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	targets := make([]func(Change), 0, len(ids))
	for _, id := range ids {
		targets = append(targets, n.handlers[id])
	}
	n.mu.RUnlock()

	for _, fn := range targets {
		fn(c)
	}
}

// SubscriberCount is intended for tests and diagnostics.
func (n *Notifier) SubscriberCount() int {
	if n == nil {
		return 0
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.handlers)
}
