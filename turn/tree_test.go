package turn_test

import (
	"fmt"
	"testing"

	"github.com/delaneyj/turnsignal/turn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHost struct {
	events []string
}

func (h *recordingHost) Mounted(c *turn.Consumer) {
	h.events = append(h.events, "mount "+c.Name())
}

func (h *recordingHost) Rendered(c *turn.Consumer) {
	h.events = append(h.events, fmt.Sprintf("render %s %d", c.Name(), c.Renders()))
}

func (h *recordingHost) Unmounted(c *turn.Consumer) {
	h.events = append(h.events, "unmount "+c.Name())
}

func TestTree(t *testing.T) {
	t.Run("unmount releases every subscription", func(t *testing.T) {
		sys := turn.NewSystem()
		a := turn.NewSignal(sys, 0)
		b := turn.NewSignal(sys, 0)

		root, err := sys.Mount(nil, "root", func(c *turn.Consumer) string {
			return fmt.Sprint(a.Read())
		})
		require.NoError(t, err)
		child, err := sys.Mount(root, "child", func(c *turn.Consumer) string {
			return fmt.Sprint(a.Read() + b.Read())
		})
		require.NoError(t, err)
		assert.Equal(t, 3, sys.Links())
		assert.Equal(t, 2, sys.Consumers())
		assert.Equal(t, []*turn.Consumer{child}, root.Children())

		root.Unmount()

		assert.False(t, root.Mounted())
		assert.False(t, child.Mounted())
		assert.Equal(t, 0, sys.Links())
		assert.Equal(t, 0, sys.Consumers())
		assert.Equal(t, 0, a.Subscribers())
		assert.Equal(t, 0, b.Subscribers())

		a.Write(1)
		b.Write(1)
		assert.Equal(t, 1, root.Renders())
		assert.Equal(t, 1, child.Renders())
	})

	t.Run("unmounting a child detaches it from its parent", func(t *testing.T) {
		sys := turn.NewSystem()
		root, err := sys.Mount(nil, "root", func(c *turn.Consumer) string { return "" })
		require.NoError(t, err)
		left, err := sys.Mount(root, "left", func(c *turn.Consumer) string { return "" })
		require.NoError(t, err)
		right, err := sys.Mount(root, "right", func(c *turn.Consumer) string { return "" })
		require.NoError(t, err)

		left.Unmount()
		left.Unmount()
		assert.Equal(t, []*turn.Consumer{right}, root.Children())
		assert.Same(t, root, right.Parent())
	})

	t.Run("pending consumer unmounted mid turn is not evaluated", func(t *testing.T) {
		sys := turn.NewSystem()
		s := turn.NewSignal(sys, 0)
		c, err := sys.Mount(nil, "reader", func(c *turn.Consumer) string {
			return fmt.Sprint(s.Read())
		})
		require.NoError(t, err)

		err = sys.Turn(func() {
			s.Write(1)
			assert.Equal(t, 1, sys.Pending())
			c.Unmount()
			assert.Equal(t, 0, sys.Pending())
		})
		require.NoError(t, err)
		assert.Equal(t, 1, c.Renders())
	})

	t.Run("mount under an unmounted parent fails", func(t *testing.T) {
		sys := turn.NewSystem()
		root, err := sys.Mount(nil, "root", func(c *turn.Consumer) string { return "" })
		require.NoError(t, err)
		root.Unmount()

		child, err := sys.Mount(root, "child", func(c *turn.Consumer) string { return "" })
		assert.Nil(t, child)
		assert.ErrorIs(t, err, turn.ErrUnmounted)
	})

	t.Run("invalidate forces one re-render", func(t *testing.T) {
		sys := turn.NewSystem()
		c, err := sys.Mount(nil, "static", func(c *turn.Consumer) string { return "x" })
		require.NoError(t, err)

		c.Invalidate()
		assert.Equal(t, 2, c.Renders())

		err = sys.Turn(func() {
			c.Invalidate()
			c.Invalidate()
		})
		require.NoError(t, err)
		assert.Equal(t, 3, c.Renders())

		c.Unmount()
		c.Invalidate()
		assert.Equal(t, 3, c.Renders())
	})

	t.Run("host sees the lifecycle", func(t *testing.T) {
		host := &recordingHost{}
		sys := turn.NewSystem(turn.WithHost(host))
		s := turn.NewSignal(sys, 0)

		root, err := sys.Mount(nil, "root", func(c *turn.Consumer) string {
			return fmt.Sprint(s.Read())
		})
		require.NoError(t, err)
		_, err = sys.Mount(root, "leaf", func(c *turn.Consumer) string { return "" })
		require.NoError(t, err)
		s.Write(1)
		root.Unmount()

		assert.Equal(t, []string{
			"mount root",
			"render root 1",
			"mount leaf",
			"render leaf 1",
			"render root 2",
			"unmount leaf",
			"unmount root",
		}, host.events)
	})

	t.Run("cleanups run children first", func(t *testing.T) {
		sys := turn.NewSystem()
		var order []string

		root, err := sys.Mount(nil, "root", func(c *turn.Consumer) string {
			turn.OnCleanup(c, func() { order = append(order, "root a") })
			turn.OnCleanup(c, func() { order = append(order, "root b") })
			return ""
		})
		require.NoError(t, err)
		_, err = sys.Mount(root, "child", func(c *turn.Consumer) string {
			turn.OnCleanup(c, func() { order = append(order, "child") })
			return ""
		})
		require.NoError(t, err)

		root.Invalidate()
		root.Unmount()
		assert.Equal(t, []string{"child", "root b", "root a"}, order)
	})
}
