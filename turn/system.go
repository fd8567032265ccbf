// Package turn is a small reactive core: signals that remember who read
// them, consumers that re-render when those signals change, and a scheduler
// that batches every write made during one event turn into a single pass.
package turn

import (
	"errors"
	"fmt"

	"github.com/delaneyj/turnsignal/pkg/registry"
	"github.com/delaneyj/turnsignal/pkg/scheduler"
	"github.com/rs/zerolog"
)

// System owns every signal, consumer and subscription created through it.
// It is not safe for concurrent use.
type System struct {
	log     zerolog.Logger
	host    Host
	onError func(error)

	registry  *registry.Registry
	queue     *scheduler.Queue
	consumers map[registry.ID]*Consumer
	lastID    registry.ID

	turnDepth  int
	turns      uint64
	activeSub  *Consumer
	pauseStack []*Consumer
}

// NewSystem returns an empty system with a no-op logger and host.
func NewSystem(opts ...Option) *System {
	cfg := &config{
		log:  zerolog.Nop(),
		host: NopHost{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &System{
		log:       cfg.log,
		host:      cfg.host,
		onError:   cfg.onError,
		registry:  registry.New(),
		queue:     scheduler.NewQueue(cfg.maxRenders),
		consumers: map[registry.ID]*Consumer{},
	}
}

func (sys *System) nextID() registry.ID {
	sys.lastID++
	return sys.lastID
}

// StartTurn opens a turn. Writes made before the matching EndTurn only
// queue their subscribers.
func (sys *System) StartTurn() {
	sys.turnDepth++
}

// EndTurn closes a turn. Closing the outermost turn drains the queue.
func (sys *System) EndTurn() error {
	sys.turnDepth--
	if sys.turnDepth > 0 || sys.queue.Draining() {
		return nil
	}
	return sys.drain()
}

// Turn runs handler as one event turn and then re-renders every consumer
// it dirtied, each once. Nested turns fold into the outermost one.
func (sys *System) Turn(handler func()) (err error) {
	sys.StartTurn()
	defer func() {
		err = sys.EndTurn()
	}()
	handler()
	return nil
}

func (sys *System) drain() error {
	if sys.queue.Len() == 0 {
		return nil
	}
	sys.turns++

	n, err := sys.queue.Drain(sys.evaluateID)
	sys.log.Debug().
		Uint64("turn", sys.turns).
		Int("evaluated", n).
		Msg("drained")
	if err == nil {
		return nil
	}

	var loopErr *scheduler.LoopError
	if errors.As(err, &loopErr) {
		// dropped consumers keep their last output
		for _, id := range loopErr.Dropped {
			if c, ok := sys.consumers[id]; ok {
				c.dirty = false
			}
		}
		name := ""
		if c, ok := sys.consumers[loopErr.ID]; ok {
			name = c.name
		}
		sys.log.Error().
			Uint64("turn", sys.turns).
			Str("consumer", name).
			Int("renders", loopErr.Renders).
			Int("dropped", len(loopErr.Dropped)).
			Msg("re-render loop")
		return fmt.Errorf("turn %d: consumer %q: %w", sys.turns, name, err)
	}
	return fmt.Errorf("turn %d: %w", sys.turns, err)
}

func (sys *System) reportError(err error) {
	sys.log.Error().Err(err).Msg("unhandled turn error")
	if sys.onError != nil {
		sys.onError(err)
	}
}

// PauseTracking stops reads from subscribing the active consumer until the
// matching ResumeTracking.
func (sys *System) PauseTracking() {
	sys.pauseStack = append(sys.pauseStack, sys.activeSub)
	sys.activeSub = nil
}

// ResumeTracking restores the consumer saved by the last PauseTracking.
func (sys *System) ResumeTracking() {
	lastIdx := len(sys.pauseStack) - 1
	sys.activeSub = sys.pauseStack[lastIdx]
	sys.pauseStack = sys.pauseStack[:lastIdx]
}

// Untracked runs fn without subscribing the active consumer.
func (sys *System) Untracked(fn func()) {
	sys.PauseTracking()
	defer sys.ResumeTracking()
	fn()
}

func (sys *System) track(signal registry.ID) {
	c := sys.activeSub
	if c == nil || !c.mounted {
		return
	}
	sys.registry.Track(signal, c.id)
}

// notify queues every subscriber of signal. A write outside any turn
// becomes its own turn.
func (sys *System) notify(signal registry.ID) {
	subs := sys.registry.Subscribers(signal)
	if len(subs) == 0 {
		return
	}
	sys.withImplicitTurn(func() {
		for _, id := range subs {
			sys.enqueue(sys.consumers[id])
		}
	})
}

func (sys *System) withImplicitTurn(fn func()) {
	if sys.turnDepth > 0 || sys.queue.Draining() {
		fn()
		return
	}
	if err := sys.Turn(fn); err != nil {
		sys.reportError(err)
	}
}

func (sys *System) enqueue(c *Consumer) {
	if c == nil || !c.mounted {
		return
	}
	c.dirty = true
	sys.queue.Enqueue(c.id)
}

func (sys *System) evaluateID(id registry.ID) error {
	c, ok := sys.consumers[id]
	if !ok || !c.mounted {
		return nil
	}
	return sys.evaluate(c)
}

// evaluate re-runs c's render with c as the active consumer, rebuilding its
// subscriptions from the reads made during this pass.
func (sys *System) evaluate(c *Consumer) error {
	c.dirty = false
	sys.registry.Reset(c.id)

	prevSub := sys.activeSub
	sys.activeSub = c
	c.beginHooks()
	defer func() {
		sys.activeSub = prevSub
	}()

	c.output = c.render(c)
	c.renders++
	err := c.endHooks()

	sys.host.Rendered(c)
	return err
}

// Turns reports how many drains have run.
func (sys *System) Turns() uint64 {
	return sys.turns
}

// Consumers reports how many consumers are mounted.
func (sys *System) Consumers() int {
	return len(sys.consumers)
}

// Links reports the number of live signal to consumer subscriptions.
func (sys *System) Links() int {
	return sys.registry.Len()
}

// Pending reports how many consumers wait for the next drain.
func (sys *System) Pending() int {
	return sys.queue.Len()
}

func (sys *System) Logger() zerolog.Logger {
	return sys.log
}
