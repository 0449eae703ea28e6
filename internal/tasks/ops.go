package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"taskdeck/internal/dates"
	"taskdeck/internal/service"
)

// Notifier receives user-facing notifications from operations.
// Command surfaces print them; the interactive surface shows a status
// toast.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

// NopNotifier discards all notifications.
var NopNotifier Notifier = nopNotifier{}

// Ops translates user intents into store calls and keeps the cache
// consistent with the store's authoritative responses. The store's
// returned row always replaces the cache entry wholesale; the store
// may normalize fields, so a local merge of the patch would drift.
//
// Mutations against the same task id are serialized in call order, so
// the cache reflects the logically-last action even when round-trips
// overlap. Operations on different ids stay fully independent.
type Ops struct {
	store  service.Store
	cache  *Cache
	owner  string
	notify Notifier
	log    *log.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewOps creates the operations layer for one authenticated session.
func NewOps(store service.Store, cache *Cache, owner string, notify Notifier, logger *log.Logger) *Ops {
	if notify == nil {
		notify = NopNotifier
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Ops{
		store:  store,
		cache:  cache,
		owner:  owner,
		notify: notify,
		log:    logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Cache returns the cache this operations layer mutates.
func (o *Ops) Cache() *Cache {
	return o.cache
}

// Owner returns the id of the user this operations layer is scoped to.
func (o *Ops) Owner() string {
	return o.owner
}

// FetchAll replaces the cache with the owner's full task collection.
// On failure the cache keeps its last good snapshot: stale data beats
// a blank view.
func (o *Ops) FetchAll(ctx context.Context) error {
	rows, err := o.store.QueryTasks(ctx, o.owner)
	if err != nil {
		o.log.Error("fetch tasks", "err", err)
		return err
	}
	o.cache.Replace(rows)
	o.log.Debug("fetched tasks", "count", len(rows))
	return nil
}

// Add creates a task. The title must be non-empty after trimming; an
// empty description is normalized to absent and a missing priority
// defaults to medium. The stored row lands at the front of the cache.
func (o *Ops) Add(ctx context.Context, title, description string, priority service.Priority, due dates.Date) (service.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return service.Task{}, &service.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if priority == "" {
		priority = service.PriorityMedium
	}
	row, err := o.store.InsertTask(ctx, service.NewTask{
		Owner:       o.owner,
		Title:       title,
		Description: strings.TrimSpace(description),
		Priority:    priority,
		DueDate:     due,
	})
	if err != nil {
		o.log.Error("add task", "err", err)
		return service.Task{}, err
	}
	o.cache.Upsert(row)
	o.notify.Success(fmt.Sprintf("%s added successfully", row.Title))
	return row, nil
}

// Update applies patch to one task and replaces the cache entry with
// the stored row. There is no optimistic local mutation here; callers
// treat the operation as pending until the round-trip completes.
func (o *Ops) Update(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error) {
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		if trimmed == "" {
			return service.Task{}, &service.ValidationError{Field: "title", Reason: "must not be empty"}
		}
		patch.Title = &trimmed
	}
	unlock := o.lockID(id)
	defer unlock()

	return o.update(ctx, id, patch)
}

// update issues the store call and refreshes the cache. The caller
// holds the id's lock.
func (o *Ops) update(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error) {
	row, err := o.store.UpdateTask(ctx, id, o.owner, patch)
	if err != nil {
		o.log.Error("update task", "id", id, "err", err)
		return service.Task{}, err
	}
	o.cache.Upsert(row)
	return row, nil
}

// Delete removes one task remotely and from the cache.
func (o *Ops) Delete(ctx context.Context, id string) error {
	title := "Task"
	if t, ok := o.cache.Get(id); ok {
		title = t.Title
	}
	unlock := o.lockID(id)
	defer unlock()

	if err := o.store.DeleteTask(ctx, id, o.owner); err != nil {
		o.log.Error("delete task", "id", id, "err", err)
		return err
	}
	o.cache.Remove(id)
	o.notify.Success(fmt.Sprintf("%s deleted", title))
	return nil
}

// ToggleComplete flips a task's completed flag. The cache read and
// the store round-trip happen under the task's lock, so overlapping
// toggles land in call order instead of both negating the same
// starting value. An id that is not cached fails locally with
// NotFoundError and never reaches the store.
func (o *Ops) ToggleComplete(ctx context.Context, id string) (service.Task, error) {
	unlock := o.lockID(id)
	defer unlock()

	t, ok := o.cache.Get(id)
	if !ok {
		o.log.Warn("toggle on uncached task", "id", id)
		return service.Task{}, &service.NotFoundError{ID: id}
	}
	completed := !t.Completed
	row, err := o.update(ctx, id, service.TaskPatch{Completed: &completed})
	if err != nil {
		return service.Task{}, err
	}
	if row.Completed {
		o.notify.Success(fmt.Sprintf("%s completed!", t.Title))
	} else {
		o.notify.Success(fmt.Sprintf("%s marked as incomplete!", t.Title))
	}
	return row, nil
}

// lockID serializes mutations per task id.
func (o *Ops) lockID(id string) (unlock func()) {
	o.mu.Lock()
	l, ok := o.locks[id]
	if !ok {
		l = &sync.Mutex{}
		o.locks[id] = l
	}
	o.mu.Unlock()
	l.Lock()
	return l.Unlock
}
