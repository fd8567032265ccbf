package turn

import (
	"errors"
	"fmt"

	"github.com/delaneyj/turnsignal/pkg/scheduler"
)

var (
	// ErrMissingProvider is returned by Lookup when no ancestor provided the key.
	ErrMissingProvider = errors.New("turn: no provider found")

	// ErrContextType is returned by Lookup when the nearest provider stored a
	// value of another type under the same key name.
	ErrContextType = errors.New("turn: context value has unexpected type")

	// ErrHookOrder is matched by *HookOrderError.
	ErrHookOrder = errors.New("turn: hook order changed")

	// ErrUnmounted is returned by Mount when the parent was unmounted.
	ErrUnmounted = errors.New("turn: consumer is not mounted")

	// ErrRenderLoop is reported when a drain does not reach a fixed point.
	ErrRenderLoop = scheduler.ErrRenderLoop
)

// HookOrderError describes the first hook call that differed from the
// consumer's first evaluation.
type HookOrderError struct {
	Consumer string
	Index    int
	Expected HookKind
	Got      HookKind
}

func (e *HookOrderError) Error() string {
	switch {
	case e.Expected == 0:
		return fmt.Sprintf("turn: hook order changed in %q: extra %s hook at index %d", e.Consumer, e.Got, e.Index)
	case e.Got == 0:
		return fmt.Sprintf("turn: hook order changed in %q: expected %s hook at index %d, got none", e.Consumer, e.Expected, e.Index)
	default:
		return fmt.Sprintf("turn: hook order changed in %q at index %d: expected %s, got %s", e.Consumer, e.Index, e.Expected, e.Got)
	}
}

func (e *HookOrderError) Is(target error) bool {
	return target == ErrHookOrder
}
