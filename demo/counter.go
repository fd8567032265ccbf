package demo

import (
	"strconv"

	"github.com/delaneyj/turnsignal/turn"
	"github.com/valyala/quicktemplate"
)

// Counter shows a count with increment, decrement and reset buttons.
type Counter struct {
	component
	count *turn.Signal[int]
}

func MountCounter(sys *turn.System, parent *turn.Consumer) (*Counter, error) {
	ctr := &Counter{}
	node, err := sys.Mount(parent, "Count", func(c *turn.Consumer) string {
		ctr.count = turn.UseSignal(c, func() int { return 0 })
		n := ctr.count.Read()

		return markup(func(qw *quicktemplate.Writer) {
			qw.N().S(`<div class="counter-container"><h1>Count: `)
			qw.N().D(n)
			qw.N().S(`</h1><div class="button-group">`)
			button(qw, "btn btn-increment", "Increment")
			button(qw, "btn btn-decrement", "Decrement")
			button(qw, "btn btn-reset", "Reset")
			qw.N().S(`</div><p>Current count: `)
			qw.N().D(n)
			qw.N().S(`</p></div>`)
		})
	})
	if err != nil {
		return nil, err
	}
	ctr.node = node
	return ctr, nil
}

func (ctr *Counter) Increment() error {
	return ctr.handle(func() {
		ctr.count.Update(func(v int) int { return v + 1 })
	})
}

func (ctr *Counter) Decrement() error {
	return ctr.handle(func() {
		ctr.count.Update(func(v int) int { return v - 1 })
	})
}

func (ctr *Counter) Reset() error {
	return ctr.handle(func() {
		ctr.count.Write(0)
	})
}

func (ctr *Counter) Count() int {
	return ctr.count.Peek()
}

// StatsCounter derives parity and a doubled value from the count on every
// render.
type StatsCounter struct {
	component
	count *turn.Signal[int]
}

func MountStatsCounter(sys *turn.System, parent *turn.Consumer) (*StatsCounter, error) {
	ctr := &StatsCounter{}
	node, err := sys.Mount(parent, "CounterWithStats", func(c *turn.Consumer) string {
		ctr.count = turn.UseSignal(c, func() int { return 0 })
		n := ctr.count.Read()
		isEven := n%2 == 0
		doubled := n * 2

		return markup(func(qw *quicktemplate.Writer) {
			qw.N().S(`<div><h2>Advanced Counter</h2><p>Value: `)
			qw.N().D(n)
			qw.N().S(`</p><p>Even: `)
			qw.N().S(strconv.FormatBool(isEven))
			qw.N().S(`</p><p>Doubled: `)
			qw.N().D(doubled)
			qw.N().S(`</p>`)
			button(qw, "", "+")
			button(qw, "", "-")
			qw.N().S(`</div>`)
		})
	})
	if err != nil {
		return nil, err
	}
	ctr.node = node
	return ctr, nil
}

func (ctr *StatsCounter) Increment() error {
	return ctr.handle(func() {
		ctr.count.Update(func(v int) int { return v + 1 })
	})
}

func (ctr *StatsCounter) Decrement() error {
	return ctr.handle(func() {
		ctr.count.Update(func(v int) int { return v - 1 })
	})
}
