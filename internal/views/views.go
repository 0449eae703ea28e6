// Package views derives presentation projections from a cache
// snapshot. Every function is pure: inputs are never mutated and the
// result is a fresh slice.
package views

import (
	"sort"

	"taskdeck/internal/dates"
	"taskdeck/internal/service"
)

// SortMode selects the sort key for list views.
type SortMode string

const (
	SortNone     SortMode = "none"
	SortDate     SortMode = "date"
	SortPriority SortMode = "priority"
)

// SortDir selects the sort direction.
type SortDir string

const (
	Asc  SortDir = "asc"
	Desc SortDir = "desc"
)

// Incomplete returns the tasks still to do, in input order.
func Incomplete(ts []service.Task) []service.Task {
	out := make([]service.Task, 0, len(ts))
	for _, t := range ts {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// Completed returns the finished tasks, in input order.
func Completed(ts []service.Task) []service.Task {
	out := make([]service.Task, 0, len(ts))
	for _, t := range ts {
		if t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// Sort orders a copy of ts by the given mode and direction. SortNone
// keeps input order, which is the fetch order: due date ascending
// with unscheduled tasks last, ties by creation descending.
//
// Date sorts always place unscheduled tasks last; Desc only reverses
// the comparison between two scheduled dates, not the placement of
// missing ones. The sort is stable, so equal keys keep input order.
func Sort(ts []service.Task, mode SortMode, dir SortDir) []service.Task {
	out := make([]service.Task, len(ts))
	copy(out, ts)
	switch mode {
	case SortDate:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].DueDate, out[j].DueDate
			if a.IsZero() || b.IsZero() {
				// A scheduled task always precedes an unscheduled one.
				return !a.IsZero() && b.IsZero()
			}
			if dir == Desc {
				return b.Before(a)
			}
			return a.Before(b)
		})
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			if dir == Desc {
				return out[i].Priority.Rank() > out[j].Priority.Rank()
			}
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		})
	}
	return out
}

// ForDate returns the bucket of tasks due exactly on d.
func ForDate(ts []service.Task, d dates.Date) []service.Task {
	out := make([]service.Task, 0, 4)
	for _, t := range ts {
		if !t.DueDate.IsZero() && t.DueDate == d {
			out = append(out, t)
		}
	}
	return out
}

// IsOverdue reports whether t is past due as of today: a due date
// strictly before today and not completed. Completed tasks are never
// overdue; unscheduled tasks are never overdue.
func IsOverdue(t service.Task, today dates.Date) bool {
	if t.Completed || t.DueDate.IsZero() {
		return false
	}
	return t.DueDate.Before(today)
}

// DayStats are the per-day aggregate counts shown in calendar cells.
type DayStats struct {
	Total      int
	Completed  int
	Incomplete int
	HasOverdue bool
}

// StatsForDate computes the aggregate over d's bucket.
func StatsForDate(ts []service.Task, d, today dates.Date) DayStats {
	var s DayStats
	for _, t := range ForDate(ts, d) {
		s.Total++
		if t.Completed {
			s.Completed++
		} else {
			s.Incomplete++
		}
		if IsOverdue(t, today) {
			s.HasOverdue = true
		}
	}
	return s
}

// Sorter memoizes the last Sort result by snapshot identity plus sort
// parameters, so re-renders over an unchanged snapshot don't re-sort.
// The cache advances to a new slice identity on every mutation, which
// is what invalidates the memo.
type Sorter struct {
	in   []service.Task
	mode SortMode
	dir  SortDir
	out  []service.Task
}

// Sort returns the memoized order when called with the same snapshot
// and parameters as last time, otherwise recomputes.
func (s *Sorter) Sort(ts []service.Task, mode SortMode, dir SortDir) []service.Task {
	if s.out != nil && mode == s.mode && dir == s.dir && sameSlice(ts, s.in) {
		return s.out
	}
	s.in, s.mode, s.dir = ts, mode, dir
	s.out = Sort(ts, mode, dir)
	return s.out
}

// sameSlice reports whether two slices share identity (same backing
// array and length), not element equality.
func sameSlice(a, b []service.Task) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
