// Package queue holds pending transitions in arrival order
package queue

import (
	"sync"

	"tally/internal/services/reconciler/domain"
)

// Queue is a mutex guarded FIFO of pending actions.
// Producers are HTTP handlers; the single worker is the only consumer
type Queue struct {
	mu    sync.Mutex
	items []domain.QueuedAction
}

// New constructs an empty Queue
func New() *Queue { return &Queue{} }

// Push appends one action to the tail
func (q *Queue) Push(a domain.QueuedAction) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, a)
}

// PopFront removes and returns the oldest action
func (q *Queue) PopFront() (domain.QueuedAction, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return domain.QueuedAction{}, false
	}
	a := q.items[0]
	q.items = q.items[1:]
	return a, true
}

// Len reports the number of pending actions
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// DrainAll removes and returns everything pending in order
func (q *Queue) DrainAll() []domain.QueuedAction {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}
