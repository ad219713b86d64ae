// Package tasklist holds the authoritative local copy of the user's
// tasks and the pure functions that derive filtered views and
// analytics from it. The collection is mutated only from confirmed
// server responses; it never fabricates ids, timestamps or completion
// state.
package tasklist

import (
	"sync"

	"github.com/sadopc/elevate/internal/api"
)

// Collection is an insertion-ordered task set with exactly one entry
// per id. Tasks are stored in a map for O(1) lookup and a separate
// slice to preserve insertion order for stable iteration.
type Collection struct {
	mu   sync.Mutex
	byID map[string]api.Task
	ord  []string
	subs []func()
}

func NewCollection() *Collection {
	return &Collection{
		byID: make(map[string]api.Task),
	}
}

// Subscribe registers fn to run after every successful mutation.
// Subscribers are invoked synchronously, outside the collection lock.
func (c *Collection) Subscribe(fn func()) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

// ReplaceAll swaps the entire collection for the server's list. Used
// after a full refetch, so conflicting local state always loses to the
// server. Duplicate ids in the input keep the last occurrence.
func (c *Collection) ReplaceAll(tasks []api.Task) {
	c.mu.Lock()
	c.byID = make(map[string]api.Task, len(tasks))
	c.ord = c.ord[:0]
	for _, t := range tasks {
		if _, seen := c.byID[t.ID]; !seen {
			c.ord = append(c.ord, t.ID)
		}
		c.byID[t.ID] = t
	}
	c.mu.Unlock()
	c.notify()
}

// Upsert inserts the task if its id is absent, otherwise overwrites
// the existing entry in place, preserving its position.
func (c *Collection) Upsert(t api.Task) {
	c.mu.Lock()
	if _, ok := c.byID[t.ID]; !ok {
		c.ord = append(c.ord, t.ID)
	}
	c.byID[t.ID] = t
	c.mu.Unlock()
	c.notify()
}

// RemoveByID drops a task after the server acknowledged its deletion.
// Returns false if the id was not present.
func (c *Collection) RemoveByID(id string) bool {
	c.mu.Lock()
	if _, ok := c.byID[id]; !ok {
		c.mu.Unlock()
		return false
	}
	delete(c.byID, id)
	for i, oid := range c.ord {
		if oid == id {
			c.ord = append(c.ord[:i], c.ord[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	c.notify()
	return true
}

// Tasks returns a copy of the collection in insertion order.
func (c *Collection) Tasks() []api.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.Task, 0, len(c.ord))
	for _, id := range c.ord {
		out = append(out, c.byID[id])
	}
	return out
}

// Get returns the task with the given id, if present.
func (c *Collection) Get(id string) (api.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.byID[id]
	return t, ok
}

func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ord)
}

func (c *Collection) notify() {
	c.mu.Lock()
	subs := make([]func(), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
