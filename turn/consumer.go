package turn

import (
	"errors"
	"fmt"
	"slices"

	"github.com/delaneyj/turnsignal/pkg/registry"
)

// RenderFunc produces a consumer's output. Signals read through c's system
// while it runs become the consumer's subscriptions.
type RenderFunc func(c *Consumer) string

// Consumer is one node of the render tree.
type Consumer struct {
	sys    *System
	id     registry.ID
	name   string
	render RenderFunc

	parent   *Consumer
	children []*Consumer
	contexts map[uint64]any

	mounted bool
	dirty   bool
	output  string
	renders int

	hooks    []hookSlot
	hookIdx  int
	hookErr  error
	cleanups []func()
	// signals created through hooks, forgotten on unmount
	owned []registry.ID
}

// Mount attaches a new consumer under parent (nil for a root) and evaluates
// it once. The consumer is returned even when that first evaluation fails.
func (sys *System) Mount(parent *Consumer, name string, render RenderFunc) (*Consumer, error) {
	if parent != nil && !parent.mounted {
		return nil, fmt.Errorf("mount %q under %q: %w", name, parent.name, ErrUnmounted)
	}

	c := &Consumer{
		sys:     sys,
		id:      sys.nextID(),
		name:    name,
		render:  render,
		parent:  parent,
		mounted: true,
	}
	if parent != nil {
		parent.children = append(parent.children, c)
	}
	sys.consumers[c.id] = c
	sys.log.Debug().Str("consumer", name).Uint64("id", uint64(c.id)).Msg("mounted")
	sys.host.Mounted(c)

	var evalErr error
	err := sys.Turn(func() {
		evalErr = sys.evaluate(c)
	})
	if err := errors.Join(evalErr, err); err != nil {
		return c, fmt.Errorf("mount %q: %w", name, err)
	}
	return c, nil
}

// Unmount removes c and its descendants from the tree. Children go first,
// then c's cleanups run, its subscriptions are released and the signals its
// hooks created are forgotten.
func (c *Consumer) Unmount() {
	if !c.mounted {
		return
	}
	sys := c.sys

	children := slices.Clone(c.children)
	for i := len(children) - 1; i >= 0; i-- {
		children[i].Unmount()
	}

	c.mounted = false
	c.dirty = false
	sys.queue.Remove(c.id)
	sys.registry.Release(c.id)

	for i := len(c.cleanups) - 1; i >= 0; i-- {
		c.cleanups[i]()
	}
	c.cleanups = nil

	for _, id := range c.owned {
		sys.registry.Forget(id)
	}
	c.owned = nil
	c.contexts = nil
	c.hooks = nil

	if c.parent != nil {
		c.parent.children = slices.DeleteFunc(c.parent.children, func(o *Consumer) bool {
			return o == c
		})
	}
	delete(sys.consumers, c.id)

	sys.log.Debug().Str("consumer", c.name).Uint64("id", uint64(c.id)).Msg("unmounted")
	sys.host.Unmounted(c)
}

// Invalidate queues c for re-evaluation regardless of its subscriptions.
func (c *Consumer) Invalidate() {
	if !c.mounted {
		return
	}
	c.sys.withImplicitTurn(func() {
		c.sys.enqueue(c)
	})
}

func (c *Consumer) System() *System {
	return c.sys
}

func (c *Consumer) ID() registry.ID {
	return c.id
}

func (c *Consumer) Name() string {
	return c.name
}

func (c *Consumer) Parent() *Consumer {
	return c.parent
}

func (c *Consumer) Children() []*Consumer {
	return slices.Clone(c.children)
}

// Output is what the last evaluation returned.
func (c *Consumer) Output() string {
	return c.output
}

// Renders counts evaluations since mount.
func (c *Consumer) Renders() int {
	return c.renders
}

// Dirty reports whether c waits for the current drain.
func (c *Consumer) Dirty() bool {
	return c.dirty
}

func (c *Consumer) Mounted() bool {
	return c.mounted
}

// Sources lists the ids of the signals c subscribed to during its last
// evaluation.
func (c *Consumer) Sources() []registry.ID {
	return c.sys.registry.Sources(c.id)
}
