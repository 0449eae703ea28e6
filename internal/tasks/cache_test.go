package tasks

import (
	"testing"

	"taskdeck/internal/service"
)

func TestCache_SnapshotIsACopy(t *testing.T) {
	c := NewCache()
	c.Replace([]service.Task{{ID: "a", Title: "one"}})

	snap := c.Snapshot()
	snap[0].Title = "mutated"

	if got, _ := c.Get("a"); got.Title != "one" {
		t.Errorf("cache entry changed through snapshot: %q", got.Title)
	}
}

func TestCache_UpsertInsertsAtFront(t *testing.T) {
	c := NewCache()
	c.Replace([]service.Task{{ID: "a"}, {ID: "b"}})

	c.Upsert(service.Task{ID: "c"})

	snap := c.Snapshot()
	if len(snap) != 3 || snap[0].ID != "c" {
		t.Errorf("expected new task at front, got %v", snap)
	}
}

func TestCache_UpsertReplacesInPlace(t *testing.T) {
	c := NewCache()
	c.Replace([]service.Task{{ID: "a", Title: "old"}, {ID: "b"}})

	c.Upsert(service.Task{ID: "a", Title: "new"})

	snap := c.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(snap))
	}
	if snap[0].ID != "a" || snap[0].Title != "new" {
		t.Errorf("expected replaced entry to keep its position, got %v", snap)
	}
}

func TestCache_Remove(t *testing.T) {
	c := NewCache()
	c.Replace([]service.Task{{ID: "a"}, {ID: "b"}})

	c.Remove("a")
	if c.Len() != 1 {
		t.Errorf("expected 1 task, got %d", c.Len())
	}

	// Removing an absent id is a no-op.
	c.Remove("a")
	if c.Len() != 1 {
		t.Errorf("expected 1 task after repeat remove, got %d", c.Len())
	}
}

func TestCache_SubscribersRunBeforeMutationReturns(t *testing.T) {
	c := NewCache()

	var seen int
	c.Subscribe(func() {
		// The listener observes the already-applied mutation.
		seen = c.Len()
	})

	c.Upsert(service.Task{ID: "a"})
	if seen != 1 {
		t.Errorf("listener should see the mutation, saw len %d", seen)
	}
}

func TestCache_NotifiesEverySubscriber(t *testing.T) {
	c := NewCache()

	calls := make([]int, 2)
	c.Subscribe(func() { calls[0]++ })
	c.Subscribe(func() { calls[1]++ })

	c.Replace(nil)
	c.Upsert(service.Task{ID: "a"})
	c.Remove("missing")

	for i, n := range calls {
		if n != 3 {
			t.Errorf("subscriber %d: expected 3 notifications, got %d", i, n)
		}
	}
}

func TestCache_Unsubscribe(t *testing.T) {
	c := NewCache()

	var calls int
	unsubscribe := c.Subscribe(func() { calls++ })

	c.Upsert(service.Task{ID: "a"})
	unsubscribe()
	c.Upsert(service.Task{ID: "b"})

	if calls != 1 {
		t.Errorf("expected 1 notification after unsubscribe, got %d", calls)
	}
}

func TestCache_ListenerMayReadCache(t *testing.T) {
	c := NewCache()

	// Snapshot from inside the listener must not deadlock.
	var snapLen int
	c.Subscribe(func() {
		snapLen = len(c.Snapshot())
	})

	c.Replace([]service.Task{{ID: "a"}, {ID: "b"}})
	if snapLen != 2 {
		t.Errorf("expected listener snapshot of 2, got %d", snapLen)
	}
}
