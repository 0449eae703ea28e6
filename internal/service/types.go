// Package service defines the store-agnostic interface for the hosted
// task store.
package service

import (
	"time"

	"taskdeck/internal/dates"
)

// Priority is a task's priority tag.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank returns the severity rank used for priority sorting:
// low(1) < medium(2) < high(3).
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityHigh:
		return 3
	default:
		return 2
	}
}

// Valid reports whether p is one of the three known priorities.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task is a row of the remote tasks collection. The store assigns ID,
// CreatedAt and UpdatedAt; the client never fabricates them.
type Task struct {
	ID          string
	Owner       string
	Title       string
	Description string // empty means absent
	Priority    Priority
	Completed   bool
	DueDate     dates.Date // zero means unscheduled
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTask holds the client-supplied fields of an insert call.
type NewTask struct {
	Owner       string
	Title       string
	Description string
	Priority    Priority
	DueDate     dates.Date
}

// TaskPatch is a partial update. Nil fields are left untouched by the
// store. A non-nil DueDate pointing at the zero Date clears the due
// date; a non-nil empty Description clears the description.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *Priority
	Completed   *bool
	DueDate     *dates.Date
}

// Session identifies the authenticated user.
type Session struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}
