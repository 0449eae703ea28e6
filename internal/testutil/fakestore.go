// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskdeck/internal/service"
)

// FakeStore is an in-memory implementation of service.Store for
// testing. It mimics the hosted store's behavior: server-assigned ids
// and timestamps, owner-scoped filters, canonical query order.
type FakeStore struct {
	mu      sync.RWMutex
	session *service.Session
	tasks   map[string][]service.Task // owner -> tasks
	clock   time.Time

	// Error injection for testing.
	SignInErr         error
	SignUpErr         error
	SignOutErr        error
	CurrentSessionErr error
	QueryTasksErr     error
	InsertTaskErr     error
	UpdateTaskErr     error
	DeleteTaskErr     error

	// SignOutSessionMissing makes SignOut behave as if the remote
	// session is already gone.
	SignOutSessionMissing bool

	// Call counters, for asserting which remote calls happened.
	InsertCalls int
	UpdateCalls int
	DeleteCalls int
	QueryCalls  int
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		tasks: make(map[string][]service.Task),
		clock: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// SetSession sets the current session, as if signed in.
func (f *FakeStore) SetSession(userID, email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = &service.Session{UserID: userID, Email: email, ExpiresAt: f.clock.Add(time.Hour)}
}

// Seed inserts a task directly, bypassing the Store interface. Zero
// ID gets a generated one; timestamps advance per call so creation
// order is observable.
func (f *FakeStore) Seed(t service.Task) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	f.clock = f.clock.Add(time.Minute)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = f.clock
	}
	t.UpdatedAt = f.clock
	if t.Priority == "" {
		t.Priority = service.PriorityMedium
	}
	f.tasks[t.Owner] = append(f.tasks[t.Owner], t)
	return t
}

// SignIn implements service.Store.
func (f *FakeStore) SignIn(ctx context.Context, email, password string) (service.Session, error) {
	if f.SignInErr != nil {
		return service.Session{}, f.SignInErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = &service.Session{UserID: "user-" + email, Email: email, ExpiresAt: f.clock.Add(time.Hour)}
	return *f.session, nil
}

// SignUp implements service.Store.
func (f *FakeStore) SignUp(ctx context.Context, email, password string) (service.Session, error) {
	if f.SignUpErr != nil {
		return service.Session{}, f.SignUpErr
	}
	return f.SignIn(ctx, email, password)
}

// SignOut implements service.Store.
func (f *FakeStore) SignOut(ctx context.Context) error {
	if f.SignOutErr != nil && !f.SignOutSessionMissing {
		return f.SignOutErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = nil
	return nil
}

// CurrentSession implements service.Store.
func (f *FakeStore) CurrentSession(ctx context.Context) (service.Session, error) {
	if f.CurrentSessionErr != nil {
		return service.Session{}, f.CurrentSessionErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.session == nil {
		return service.Session{}, &service.AuthSessionError{Reason: "not signed in"}
	}
	return *f.session, nil
}

// QueryTasks implements service.Store. Results follow the canonical
// fetch order: due date ascending with unscheduled tasks last, ties
// by creation descending.
func (f *FakeStore) QueryTasks(ctx context.Context, owner string) ([]service.Task, error) {
	f.mu.Lock()
	f.QueryCalls++
	f.mu.Unlock()
	if f.QueryTasksErr != nil {
		return nil, f.QueryTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks[owner]))
	copy(out, f.tasks[owner])
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.DueDate.IsZero() != b.DueDate.IsZero():
			return !a.DueDate.IsZero()
		case !a.DueDate.IsZero() && a.DueDate != b.DueDate:
			return a.DueDate.Before(b.DueDate)
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
	return out, nil
}

// InsertTask implements service.Store.
func (f *FakeStore) InsertTask(ctx context.Context, t service.NewTask) (service.Task, error) {
	f.mu.Lock()
	f.InsertCalls++
	f.mu.Unlock()
	if f.InsertTaskErr != nil {
		return service.Task{}, f.InsertTaskErr
	}
	return f.Seed(service.Task{
		Owner:       t.Owner,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
	}), nil
}

// UpdateTask implements service.Store.
func (f *FakeStore) UpdateTask(ctx context.Context, id, owner string, patch service.TaskPatch) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	for i, t := range f.tasks[owner] {
		if t.ID != id {
			continue
		}
		if patch.Title != nil {
			t.Title = *patch.Title
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.Priority != nil {
			t.Priority = *patch.Priority
		}
		if patch.Completed != nil {
			t.Completed = *patch.Completed
		}
		if patch.DueDate != nil {
			t.DueDate = *patch.DueDate
		}
		f.clock = f.clock.Add(time.Minute)
		t.UpdatedAt = f.clock
		f.tasks[owner][i] = t
		return t, nil
	}
	return service.Task{}, &service.RemoteError{Status: 404, Message: "no matching row"}
}

// DeleteTask implements service.Store.
func (f *FakeStore) DeleteTask(ctx context.Context, id, owner string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	ts := f.tasks[owner]
	for i, t := range ts {
		if t.ID == id {
			f.tasks[owner] = append(ts[:i], ts[i+1:]...)
			return nil
		}
	}
	return &service.RemoteError{Status: 404, Message: "no matching row"}
}
