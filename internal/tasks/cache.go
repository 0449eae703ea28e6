// Package tasks holds the client-side task cache and the operations
// that keep it consistent with the hosted store.
package tasks

import (
	"sync"

	"taskdeck/internal/service"
)

// Cache is the in-memory mirror of the signed-in user's tasks. One
// cache exists per authenticated session; every surface reads through
// it so all of them observe the same state. Mutations swap whole
// entries, never patch them in place, so a snapshot handed out earlier
// stays a valid point-in-time view.
type Cache struct {
	mu     sync.RWMutex
	tasks  []service.Task
	subs   map[int]func()
	nextID int
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{subs: make(map[int]func())}
}

// Snapshot returns a copy of the cached tasks in stored order. It
// never triggers a fetch.
func (c *Cache) Snapshot() []service.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]service.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Len returns the number of cached tasks.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tasks)
}

// Get returns the cached task with the given id.
func (c *Cache) Get(id string) (service.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// Subscribe registers fn to run after every cache mutation. The
// returned function deregisters it. Listeners fire synchronously
// before the mutating call returns, without the cache lock held.
func (c *Cache) Subscribe(fn func()) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Replace swaps the entire cached collection, then notifies. Used
// after a full fetch and when switching users.
func (c *Cache) Replace(ts []service.Task) {
	c.mu.Lock()
	c.tasks = make([]service.Task, len(ts))
	copy(c.tasks, ts)
	c.mu.Unlock()
	c.notify()
}

// Upsert inserts t at the front if its id is new, or replaces the
// entry with the same id, then notifies.
func (c *Cache) Upsert(t service.Task) {
	c.mu.Lock()
	replaced := false
	next := make([]service.Task, 0, len(c.tasks)+1)
	for _, cur := range c.tasks {
		if cur.ID == t.ID {
			next = append(next, t)
			replaced = true
		} else {
			next = append(next, cur)
		}
	}
	if !replaced {
		next = append([]service.Task{t}, next...)
	}
	c.tasks = next
	c.mu.Unlock()
	c.notify()
}

// Remove deletes the entry with the given id if present, then
// notifies. Removing an absent id is a no-op that still notifies.
func (c *Cache) Remove(id string) {
	c.mu.Lock()
	next := make([]service.Task, 0, len(c.tasks))
	for _, cur := range c.tasks {
		if cur.ID != id {
			next = append(next, cur)
		}
	}
	c.tasks = next
	c.mu.Unlock()
	c.notify()
}

func (c *Cache) notify() {
	c.mu.RLock()
	listeners := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		listeners = append(listeners, fn)
	}
	c.mu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}
