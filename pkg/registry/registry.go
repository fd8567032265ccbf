package registry

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// ID identifies a signal or a consumer inside one reactive system.
type ID uint64

// Registry keeps both directions of the read graph: which consumers read a
// signal during their last evaluation, and which signals a consumer read.
type Registry struct {
	// signal -> consumers that read it
	subscribers map[ID]mapset.Set[ID]
	// consumer -> signals it read
	sources map[ID]mapset.Set[ID]
	// signals that no longer take subscribers
	forgotten mapset.Set[ID]
}

func New() *Registry {
	return &Registry{
		subscribers: map[ID]mapset.Set[ID]{},
		sources:     map[ID]mapset.Set[ID]{},
		forgotten:   mapset.NewThreadUnsafeSet[ID](),
	}
}

// Track records that consumer read signal. It returns false when the pair
// is already known, so repeated reads in one pass register once, and when
// signal has been forgotten.
func (r *Registry) Track(signal, consumer ID) bool {
	if r.forgotten.Contains(signal) {
		return false
	}
	subs, ok := r.subscribers[signal]
	if !ok {
		subs = mapset.NewThreadUnsafeSet[ID]()
		r.subscribers[signal] = subs
	}
	if !subs.Add(consumer) {
		return false
	}

	srcs, ok := r.sources[consumer]
	if !ok {
		srcs = mapset.NewThreadUnsafeSet[ID]()
		r.sources[consumer] = srcs
	}
	srcs.Add(signal)
	return true
}

// Reset clears every subscription of consumer ahead of a re-evaluation.
func (r *Registry) Reset(consumer ID) {
	srcs, ok := r.sources[consumer]
	if !ok {
		return
	}
	for _, signal := range srcs.ToSlice() {
		if subs, ok := r.subscribers[signal]; ok {
			subs.Remove(consumer)
			if subs.Cardinality() == 0 {
				delete(r.subscribers, signal)
			}
		}
	}
	delete(r.sources, consumer)
}

// Release drops consumer from the registry entirely.
func (r *Registry) Release(consumer ID) {
	r.Reset(consumer)
}

// Forget drops signal and unlinks it from every consumer that read it.
// Later reads of signal are not tracked.
func (r *Registry) Forget(signal ID) {
	r.forgotten.Add(signal)
	subs, ok := r.subscribers[signal]
	if !ok {
		return
	}
	for _, consumer := range subs.ToSlice() {
		if srcs, ok := r.sources[consumer]; ok {
			srcs.Remove(signal)
			if srcs.Cardinality() == 0 {
				delete(r.sources, consumer)
			}
		}
	}
	delete(r.subscribers, signal)
}

// Subscribers returns the consumers of signal in ascending id order.
func (r *Registry) Subscribers(signal ID) []ID {
	return sorted(r.subscribers[signal])
}

// Sources returns the signals consumer read, in ascending id order.
func (r *Registry) Sources(consumer ID) []ID {
	return sorted(r.sources[consumer])
}

func (r *Registry) SubscriberCount(signal ID) int {
	subs, ok := r.subscribers[signal]
	if !ok {
		return 0
	}
	return subs.Cardinality()
}

func (r *Registry) Forgotten(signal ID) bool {
	return r.forgotten.Contains(signal)
}

func (r *Registry) IsSubscribed(signal, consumer ID) bool {
	subs, ok := r.subscribers[signal]
	return ok && subs.Contains(consumer)
}

// Len reports the number of live signal -> consumer links.
func (r *Registry) Len() int {
	n := 0
	for _, subs := range r.subscribers {
		n += subs.Cardinality()
	}
	return n
}

func sorted(set mapset.Set[ID]) []ID {
	if set == nil {
		return nil
	}
	ids := set.ToSlice()
	slices.Sort(ids)
	return ids
}
