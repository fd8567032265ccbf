package turn

import "github.com/delaneyj/turnsignal/pkg/registry"

// Signal is a value that subscribes the consumer reading it and re-queues
// those consumers when it is written.
type Signal[T any] struct {
	sys   *System
	id    registry.ID
	value T
	// nil means every write notifies
	equal func(a, b T) bool
}

// NewSignal creates a signal that ignores writes equal to its current value.
func NewSignal[T comparable](sys *System, initialValue T) *Signal[T] {
	return NewSignalFunc(sys, initialValue, func(a, b T) bool {
		return a == b
	})
}

// NewSignalFunc creates a signal with a custom equality check. A nil equal
// makes every write notify subscribers.
func NewSignalFunc[T any](sys *System, initialValue T, equal func(a, b T) bool) *Signal[T] {
	return &Signal[T]{
		sys:   sys,
		id:    sys.nextID(),
		value: initialValue,
		equal: equal,
	}
}

func (s *Signal[T]) ID() registry.ID {
	return s.id
}

// Read returns the value and subscribes the consumer being evaluated.
func (s *Signal[T]) Read() T {
	s.sys.track(s.id)
	return s.value
}

// Peek returns the value without subscribing anyone.
func (s *Signal[T]) Peek() T {
	return s.value
}

func (s *Signal[T]) Write(v T) {
	if s.equal != nil && s.equal(s.value, v) {
		return
	}
	s.value = v
	s.sys.notify(s.id)
}

// Update writes fn applied to the current value. It does not subscribe.
func (s *Signal[T]) Update(fn func(oldValue T) T) {
	s.Write(fn(s.value))
}

// Subscribers reports how many consumers read s during their last pass.
func (s *Signal[T]) Subscribers() int {
	return s.sys.registry.SubscriberCount(s.id)
}
