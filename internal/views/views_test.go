package views

import (
	"testing"
	"time"

	"taskdeck/internal/dates"
	"taskdeck/internal/service"
)

func date(y int, m time.Month, d int) dates.Date {
	return dates.Date{Year: y, Month: m, Day: d}
}

func TestIncompleteAndCompleted(t *testing.T) {
	ts := []service.Task{
		{ID: "a", Completed: false},
		{ID: "b", Completed: true},
		{ID: "c", Completed: false},
	}

	open := Incomplete(ts)
	if len(open) != 2 || open[0].ID != "a" || open[1].ID != "c" {
		t.Errorf("unexpected incomplete view: %v", open)
	}

	done := Completed(ts)
	if len(done) != 1 || done[0].ID != "b" {
		t.Errorf("unexpected completed view: %v", done)
	}
}

func TestSort_DateAscNullsLast(t *testing.T) {
	ts := []service.Task{
		{ID: "late", DueDate: date(2024, time.March, 5)},
		{ID: "never"},
		{ID: "soon", DueDate: date(2024, time.March, 1)},
	}

	got := Sort(ts, SortDate, Asc)
	want := []string{"soon", "late", "never"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestSort_DateDescKeepsNullsLast(t *testing.T) {
	ts := []service.Task{
		{ID: "never"},
		{ID: "soon", DueDate: date(2024, time.March, 1)},
		{ID: "late", DueDate: date(2024, time.March, 5)},
	}

	got := Sort(ts, SortDate, Desc)
	want := []string{"late", "soon", "never"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestSort_Priority(t *testing.T) {
	ts := []service.Task{
		{ID: "m", Priority: service.PriorityMedium},
		{ID: "h", Priority: service.PriorityHigh},
		{ID: "l", Priority: service.PriorityLow},
	}

	asc := Sort(ts, SortPriority, Asc)
	if asc[0].ID != "l" || asc[1].ID != "m" || asc[2].ID != "h" {
		t.Errorf("unexpected asc priority order: %v", asc)
	}

	desc := Sort(ts, SortPriority, Desc)
	if desc[0].ID != "h" || desc[1].ID != "m" || desc[2].ID != "l" {
		t.Errorf("unexpected desc priority order: %v", desc)
	}
}

func TestSort_NoneKeepsInputOrder(t *testing.T) {
	ts := []service.Task{{ID: "b"}, {ID: "a"}, {ID: "c"}}
	got := Sort(ts, SortNone, Asc)
	for i := range ts {
		if got[i].ID != ts[i].ID {
			t.Errorf("position %d changed: %s -> %s", i, ts[i].ID, got[i].ID)
		}
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	ts := []service.Task{
		{ID: "b", Priority: service.PriorityHigh},
		{ID: "a", Priority: service.PriorityLow},
	}
	Sort(ts, SortPriority, Asc)
	if ts[0].ID != "b" {
		t.Error("input slice was mutated")
	}
}

func TestSort_StableOnEqualKeys(t *testing.T) {
	d := date(2024, time.March, 1)
	ts := []service.Task{
		{ID: "first", DueDate: d},
		{ID: "second", DueDate: d},
	}
	got := Sort(ts, SortDate, Asc)
	if got[0].ID != "first" || got[1].ID != "second" {
		t.Errorf("equal keys should keep input order, got %v", got)
	}
}

func TestSort_Idempotent(t *testing.T) {
	ts := []service.Task{
		{ID: "never", Priority: service.PriorityLow},
		{ID: "late", DueDate: date(2024, time.March, 5), Priority: service.PriorityHigh},
		{ID: "soon", DueDate: date(2024, time.March, 1), Priority: service.PriorityMedium},
		{ID: "tied", DueDate: date(2024, time.March, 1), Priority: service.PriorityMedium},
	}

	for _, mode := range []SortMode{SortNone, SortDate, SortPriority} {
		for _, dir := range []SortDir{Asc, Desc} {
			once := Sort(ts, mode, dir)
			twice := Sort(once, mode, dir)
			for i := range once {
				if twice[i].ID != once[i].ID {
					t.Errorf("%s %s: position %d changed on re-sort: %s -> %s",
						mode, dir, i, once[i].ID, twice[i].ID)
				}
			}
		}
	}
}

func TestForDate(t *testing.T) {
	target := date(2024, time.March, 5)
	ts := []service.Task{
		{ID: "hit", DueDate: target},
		{ID: "other", DueDate: date(2024, time.March, 6)},
		{ID: "never"},
	}

	bucket := ForDate(ts, target)
	if len(bucket) != 1 || bucket[0].ID != "hit" {
		t.Errorf("unexpected bucket: %v", bucket)
	}
}

func TestIsOverdue(t *testing.T) {
	today := date(2024, time.March, 10)

	cases := []struct {
		name string
		task service.Task
		want bool
	}{
		{"past due", service.Task{DueDate: date(2024, time.March, 5)}, true},
		{"due today", service.Task{DueDate: today}, false},
		{"future", service.Task{DueDate: date(2024, time.March, 15)}, false},
		{"unscheduled", service.Task{}, false},
		{"completed past due", service.Task{DueDate: date(2024, time.March, 5), Completed: true}, false},
	}
	for _, tc := range cases {
		if got := IsOverdue(tc.task, today); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestStatsForDate(t *testing.T) {
	d := date(2024, time.March, 5)
	today := date(2024, time.March, 10)
	ts := []service.Task{
		{ID: "open", DueDate: d},
		{ID: "done", DueDate: d, Completed: true},
		{ID: "elsewhere", DueDate: date(2024, time.March, 6)},
	}

	s := StatsForDate(ts, d, today)
	if s.Total != 2 || s.Completed != 1 || s.Incomplete != 1 {
		t.Errorf("unexpected stats: %+v", s)
	}
	if !s.HasOverdue {
		t.Error("expected HasOverdue for an open task past due")
	}

	future := date(2024, time.March, 6)
	if StatsForDate(ts, future, date(2024, time.March, 1)).HasOverdue {
		t.Error("future bucket should not be overdue")
	}
}

func TestSorter_MemoizesSameSnapshot(t *testing.T) {
	snap := []service.Task{
		{ID: "b", Priority: service.PriorityHigh},
		{ID: "a", Priority: service.PriorityLow},
	}

	var s Sorter
	first := s.Sort(snap, SortPriority, Asc)
	second := s.Sort(snap, SortPriority, Asc)
	if &first[0] != &second[0] {
		t.Error("same snapshot and params should return the memoized slice")
	}
}

func TestSorter_RecomputesOnChange(t *testing.T) {
	snap := []service.Task{
		{ID: "b", Priority: service.PriorityHigh},
		{ID: "a", Priority: service.PriorityLow},
	}

	var s Sorter
	first := s.Sort(snap, SortPriority, Asc)

	// New parameters invalidate the memo.
	desc := s.Sort(snap, SortPriority, Desc)
	if desc[0].ID != "b" {
		t.Errorf("expected high first, got %s", desc[0].ID)
	}

	// A fresh snapshot slice invalidates it too, even with equal contents.
	next := make([]service.Task, len(snap))
	copy(next, snap)
	again := s.Sort(next, SortPriority, Asc)
	if again[0].ID != first[0].ID {
		t.Errorf("recomputed order differs: %s vs %s", again[0].ID, first[0].ID)
	}
	if &again[0] == &desc[0] {
		t.Error("expected a recomputed slice after snapshot change")
	}
}
