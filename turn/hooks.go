package turn

// HookKind identifies a hook call for order validation.
type HookKind uint8

const (
	HookState HookKind = iota + 1
	HookSignal
	HookCleanup
	HookContext
)

func (k HookKind) String() string {
	switch k {
	case HookState:
		return "State"
	case HookSignal:
		return "Signal"
	case HookCleanup:
		return "Cleanup"
	case HookContext:
		return "Context"
	default:
		return "Unknown"
	}
}

type hookSlot struct {
	kind  HookKind
	value any
}

func (c *Consumer) beginHooks() {
	c.hookIdx = 0
	c.hookErr = nil
}

// endHooks reports hooks that the first evaluation called but this one
// skipped. Slot count is fixed after the first evaluation.
func (c *Consumer) endHooks() error {
	if c.hookErr == nil && c.renders > 1 && c.hookIdx < len(c.hooks) {
		c.hookErr = &HookOrderError{
			Consumer: c.name,
			Index:    c.hookIdx,
			Expected: c.hooks[c.hookIdx].kind,
		}
	}
	if c.hookErr != nil {
		c.sys.log.Warn().Err(c.hookErr).Str("consumer", c.name).Msg("hook order")
	}
	return c.hookErr
}

// slot returns the stored value for the next hook call, creating it with
// init on the first evaluation. A call that does not match the first
// evaluation records a HookOrderError and re-creates the slot.
func slot[T any](c *Consumer, kind HookKind, init func() T) T {
	idx := c.hookIdx
	c.hookIdx++

	if idx < len(c.hooks) {
		s := c.hooks[idx]
		if s.kind == kind {
			if v, ok := s.value.(T); ok {
				return v
			}
		}
		c.hookMismatch(idx, s.kind, kind)
		v := init()
		c.hooks[idx] = hookSlot{kind: kind, value: v}
		return v
	}

	if c.renders > 0 {
		c.hookMismatch(idx, 0, kind)
	}
	c.hooks = append(c.hooks, hookSlot{kind: kind})
	v := init()
	c.hooks[idx].value = v
	return v
}

func (c *Consumer) hookMismatch(idx int, expected, got HookKind) {
	if c.hookErr != nil {
		return
	}
	c.hookErr = &HookOrderError{
		Consumer: c.name,
		Index:    idx,
		Expected: expected,
		Got:      got,
	}
}

// UseHook keeps a value across evaluations of c. init runs on the first
// evaluation only and must not call other hooks. Hooks must be called in
// the same order every time.
func UseHook[T any](c *Consumer, init func() T) T {
	return slot(c, HookState, init)
}

// UseSignal returns the same signal on every evaluation of c. The signal is
// forgotten when c unmounts: it keeps its value, but reads no longer
// subscribe and writes notify nobody, wherever the reader sits in the tree.
func UseSignal[T comparable](c *Consumer, init func() T) *Signal[T] {
	return slot(c, HookSignal, func() *Signal[T] {
		s := NewSignal(c.sys, init())
		c.owned = append(c.owned, s.id)
		return s
	})
}

// OnCleanup registers fn to run when c unmounts. Cleanups run in reverse
// registration order.
func OnCleanup(c *Consumer, fn func()) {
	slot(c, HookCleanup, func() struct{} {
		c.cleanups = append(c.cleanups, fn)
		return struct{}{}
	})
}
