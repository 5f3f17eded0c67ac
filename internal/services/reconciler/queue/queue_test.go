package queue

import (
	"sync"
	"testing"
	"time"

	"tally/internal/core/contribution"
	"tally/internal/services/reconciler/domain"
)

func qa(id string) domain.QueuedAction {
	return domain.QueuedAction{
		Act:        contribution.Validate{ID: contribution.ID(id)},
		EnqueuedAt: time.Now(),
	}
}

func TestFIFOOrdering(t *testing.T) {
	t.Parallel()

	q := New()
	q.Push(qa("a"))
	q.Push(qa("b"))
	q.Push(qa("c"))

	if q.Len() != 3 {
		t.Fatalf("len = %d, want 3", q.Len())
	}
	for _, want := range []string{"a", "b", "c"} {
		got, ok := q.PopFront()
		if !ok {
			t.Fatalf("PopFront empty, want %q", want)
		}
		if string(got.Act.ContributionID()) != want {
			t.Fatalf("popped %q, want %q", got.Act.ContributionID(), want)
		}
	}
	if _, ok := q.PopFront(); ok {
		t.Fatal("PopFront on empty queue returned ok")
	}
}

func TestDrainAll(t *testing.T) {
	t.Parallel()

	q := New()
	q.Push(qa("a"))
	q.Push(qa("b"))

	got := q.DrainAll()
	if len(got) != 2 || string(got[0].Act.ContributionID()) != "a" {
		t.Fatalf("drained %v", got)
	}
	if q.Len() != 0 {
		t.Fatalf("len after drain = %d", q.Len())
	}
}

func TestConcurrentPush(t *testing.T) {
	t.Parallel()

	q := New()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				q.Push(qa("x"))
			}
		}()
	}
	wg.Wait()
	if q.Len() != 800 {
		t.Fatalf("len = %d, want 800", q.Len())
	}
}
