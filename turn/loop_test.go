package turn_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/delaneyj/turnsignal/pkg/registry"
	"github.com/delaneyj/turnsignal/pkg/scheduler"
	"github.com/delaneyj/turnsignal/turn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a consumer that writes what it reads never settles
func TestRenderLoopOnMount(t *testing.T) {
	sys := turn.NewSystem(turn.WithMaxRenders(10))
	n := turn.NewSignal(sys, 0)

	c, err := sys.Mount(nil, "runaway", func(c *turn.Consumer) string {
		v := n.Read()
		n.Write(v + 1)
		return fmt.Sprint(v)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, turn.ErrRenderLoop)
	assert.Contains(t, err.Error(), `"runaway"`)

	var loopErr *scheduler.LoopError
	require.ErrorAs(t, err, &loopErr)
	assert.Equal(t, c.ID(), loopErr.ID)
	assert.Equal(t, 10, loopErr.Renders)
	assert.Equal(t, 11, c.Renders())
	assert.Equal(t, []registry.ID{c.ID()}, loopErr.Dropped)
	assert.False(t, c.Dirty())
	assert.Equal(t, 0, sys.Pending())
}

/*
	ping reads x, writes y
	pong reads y, writes x
*/
func TestRenderLoopReportedFromImplicitTurn(t *testing.T) {
	var logs bytes.Buffer
	var errs []error
	sys := turn.NewSystem(
		turn.WithMaxRenders(5),
		turn.WithLogger(zerolog.New(&logs)),
		turn.WithErrorHandler(func(err error) {
			errs = append(errs, err)
		}),
	)
	armed := turn.NewSignal(sys, false)
	x := turn.NewSignal(sys, 0)
	y := turn.NewSignal(sys, 0)

	ping, err := sys.Mount(nil, "ping", func(c *turn.Consumer) string {
		v := x.Read()
		if armed.Read() {
			y.Write(v + 1)
		}
		return ""
	})
	require.NoError(t, err)
	pong, err := sys.Mount(nil, "pong", func(c *turn.Consumer) string {
		v := y.Read()
		if armed.Peek() {
			x.Write(v + 1)
		}
		return ""
	})
	require.NoError(t, err)

	armed.Write(true)

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], turn.ErrRenderLoop)
	assert.Contains(t, logs.String(), "re-render loop")
	assert.Equal(t, 0, sys.Pending())
	assert.False(t, ping.Dirty())
	assert.False(t, pong.Dirty())

	// the system keeps working once the cycle is broken
	err = sys.Turn(func() {
		armed.Write(false)
	})
	require.NoError(t, err)
}

/*
	runaway reads n and armed, writes n+1 while armed
	bystander reads n
*/
func TestRenderLoopLeavesNothingDirty(t *testing.T) {
	sys := turn.NewSystem(turn.WithMaxRenders(3))
	armed := turn.NewSignal(sys, false)
	n := turn.NewSignal(sys, 0)

	runaway, err := sys.Mount(nil, "runaway", func(c *turn.Consumer) string {
		v := n.Read()
		if armed.Read() {
			n.Write(v + 1)
		}
		return fmt.Sprint(v)
	})
	require.NoError(t, err)
	bystander, err := sys.Mount(nil, "bystander", func(c *turn.Consumer) string {
		return fmt.Sprint(n.Read())
	})
	require.NoError(t, err)

	err = sys.Turn(func() {
		armed.Write(true)
	})
	require.ErrorIs(t, err, turn.ErrRenderLoop)

	var loopErr *scheduler.LoopError
	require.ErrorAs(t, err, &loopErr)
	assert.Equal(t, []registry.ID{runaway.ID(), bystander.ID()}, loopErr.Dropped)
	assert.Equal(t, 3, n.Peek())
	assert.Equal(t, "2", bystander.Output())
	assert.False(t, runaway.Dirty())
	assert.False(t, bystander.Dirty())
	assert.Equal(t, 0, sys.Pending())

	err = sys.Turn(func() {
		armed.Write(false)
	})
	require.NoError(t, err)
	assert.False(t, runaway.Dirty())
	assert.False(t, bystander.Dirty())
	assert.Equal(t, "2", bystander.Output())

	bystander.Invalidate()
	assert.False(t, bystander.Dirty())
	assert.Equal(t, "3", bystander.Output())
}
