package turn

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Key names a context slot. Keys built from the same name address the same
// slot, whatever their type parameter.
type Key[T any] struct {
	id   uint64
	name string
}

func NewKey[T any](name string) Key[T] {
	return Key[T]{
		id:   xxhash.Sum64String(name),
		name: name,
	}
}

func (k Key[T]) ID() uint64 {
	return k.id
}

func (k Key[T]) Name() string {
	return k.name
}

// Provide stores value in c's slot for key. c and every descendant see it
// through Lookup until c unmounts or provides again.
func Provide[T any](c *Consumer, key Key[T], value T) {
	if c.contexts == nil {
		c.contexts = map[uint64]any{}
	}
	c.contexts[key.id] = value
}

// UseContextProvider provides the value built by init on c's first
// evaluation and returns it unchanged afterwards.
func UseContextProvider[T any](c *Consumer, key Key[T], init func() T) T {
	return slot(c, HookContext, func() T {
		v := init()
		Provide(c, key, v)
		return v
	})
}

// Lookup returns the value from the nearest provider, starting at c itself
// and walking up its ancestors.
func Lookup[T any](c *Consumer, key Key[T]) (T, error) {
	var zero T
	for o := c; o != nil; o = o.parent {
		v, ok := o.contexts[key.id]
		if !ok {
			continue
		}
		t, ok := v.(T)
		if !ok {
			return zero, fmt.Errorf("%w: %q provided by %q", ErrContextType, key.name, o.name)
		}
		return t, nil
	}
	return zero, fmt.Errorf("%w: %q from %q", ErrMissingProvider, key.name, c.name)
}

// LookupOr is Lookup with a fallback for a missing or mistyped provider.
func LookupOr[T any](c *Consumer, key Key[T], fallback T) T {
	v, err := Lookup(c, key)
	if err != nil {
		return fallback
	}
	return v
}
