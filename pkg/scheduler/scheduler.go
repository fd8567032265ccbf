package scheduler

import (
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/turnsignal/pkg/registry"
)

// DefaultMaxRenders caps how often one consumer may be evaluated in a
// single drain before the drain is considered unstable.
const DefaultMaxRenders = 100

var ErrRenderLoop = errors.New("scheduler: re-render loop")

// LoopError reports the consumer that kept getting re-queued. Dropped
// lists every id that was still waiting when the drain gave up, ID first.
type LoopError struct {
	ID      registry.ID
	Renders int
	Dropped []registry.ID
}

func (e *LoopError) Error() string {
	return fmt.Sprintf("scheduler: re-render loop: consumer %d evaluated %d times in one drain", e.ID, e.Renders)
}

func (e *LoopError) Is(target error) bool {
	return target == ErrRenderLoop
}

// Queue is a deduplicated FIFO of dirty consumers.
type Queue struct {
	items      []registry.ID
	pending    mapset.Set[registry.ID]
	maxRenders int
	draining   bool
}

func NewQueue(maxRenders int) *Queue {
	if maxRenders <= 0 {
		maxRenders = DefaultMaxRenders
	}
	return &Queue{
		pending:    mapset.NewThreadUnsafeSet[registry.ID](),
		maxRenders: maxRenders,
	}
}

// Enqueue appends id unless it is already waiting.
func (q *Queue) Enqueue(id registry.ID) bool {
	if !q.pending.Add(id) {
		return false
	}
	q.items = append(q.items, id)
	return true
}

// Remove drops a waiting id, the slot is skipped when popped.
func (q *Queue) Remove(id registry.ID) {
	q.pending.Remove(id)
}

func (q *Queue) Pending(id registry.ID) bool {
	return q.pending.Contains(id)
}

func (q *Queue) Len() int {
	return q.pending.Cardinality()
}

func (q *Queue) Draining() bool {
	return q.draining
}

func (q *Queue) MaxRenders() int {
	return q.maxRenders
}

// Drain evaluates queued ids in order until the queue is empty. Ids queued
// by eval are appended to this drain. It returns how many evaluations ran.
func (q *Queue) Drain(eval func(id registry.ID) error) (int, error) {
	q.draining = true
	defer func() { q.draining = false }()

	var (
		evaluated int
		errs      []error
		renders   = map[registry.ID]int{}
	)
	for len(q.items) > 0 {
		id := q.items[0]
		q.items = q.items[1:]
		if !q.pending.Contains(id) {
			continue
		}

		if renders[id] >= q.maxRenders {
			errs = append(errs, &LoopError{
				ID:      id,
				Renders: renders[id],
				Dropped: q.reset(id),
			})
			break
		}
		q.pending.Remove(id)
		renders[id]++
		evaluated++

		if err := eval(id); err != nil {
			errs = append(errs, err)
		}
	}
	q.items = q.items[:0]

	return evaluated, errors.Join(errs...)
}

// reset empties the queue and returns the ids that were waiting, head
// first followed by the rest in queue order.
func (q *Queue) reset(head registry.ID) []registry.ID {
	dropped := []registry.ID{head}
	q.pending.Remove(head)
	for _, id := range q.items {
		if q.pending.Contains(id) {
			q.pending.Remove(id)
			dropped = append(dropped, id)
		}
	}
	q.items = q.items[:0]
	q.pending.Clear()
	return dropped
}
