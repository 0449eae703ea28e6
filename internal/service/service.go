// Package service defines the store-agnostic interface for the hosted
// task store.
package service

import "context"

// Store is the request/response contract with the hosted
// authentication and data service. All remote calls go through this
// interface; commands and the UI never talk HTTP directly.
type Store interface {
	// SignIn authenticates with email and password and persists the
	// resulting session.
	SignIn(ctx context.Context, email, password string) (Session, error)

	// SignUp registers a new account (no email confirmation) and
	// persists the resulting session.
	SignUp(ctx context.Context, email, password string) (Session, error)

	// SignOut revokes the current session. A remote "session not
	// found" is treated as success: the user is effectively signed
	// out either way.
	SignOut(ctx context.Context) error

	// CurrentSession returns the persisted session, refreshing the
	// token if it has expired. Returns AuthSessionError if there is
	// no usable session.
	CurrentSession(ctx context.Context) (Session, error)

	// QueryTasks returns all tasks belonging to owner, ordered by
	// due date ascending with unscheduled tasks last, ties broken by
	// creation time descending.
	QueryTasks(ctx context.Context, owner string) ([]Task, error)

	// InsertTask creates a task and returns the stored row.
	InsertTask(ctx context.Context, t NewTask) (Task, error)

	// UpdateTask applies patch to the row matching both id and owner
	// and returns the stored row. The owner filter is part of every
	// update so one user can never touch another's rows.
	UpdateTask(ctx context.Context, id, owner string, patch TaskPatch) (Task, error)

	// DeleteTask removes the row matching both id and owner.
	DeleteTask(ctx context.Context, id, owner string) error
}
