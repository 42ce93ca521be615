package app

import (
	"sync"
	"time"

	"hotspot-quiz-service/internal/domain"
)

// DefaultFeedbackDelay is how long correct/incorrect feedback stays visible.
const DefaultFeedbackDelay = 1500 * time.Millisecond

// Scheduler runs f once after d. Implementations must not call f
// synchronously from AfterFunc.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, f func())

func (fn SchedulerFunc) AfterFunc(d time.Duration, f func()) {
	fn(d, f)
}

var timerScheduler = SchedulerFunc(func(d time.Duration, f func()) {
	time.AfterFunc(d, f)
})

// Option customizes a Controller.
type Option func(*Controller)

// WithScheduler replaces the time.AfterFunc based scheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.sched = s }
}

// WithSource injects the random source used for shuffling.
func WithSource(src Source) Option {
	locked := &lockedSource{src: src}
	return func(c *Controller) { c.src = locked }
}

// WithFeedbackDelay overrides DefaultFeedbackDelay.
func WithFeedbackDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.delay = d
		}
	}
}

// Controller owns one player's round and serializes every transition.
type Controller struct {
	catalog domain.Catalog
	texts   domain.Texts
	delay   time.Duration
	sched   Scheduler
	src     Source

	mu          sync.RWMutex
	state       RoundState
	subscribers map[chan domain.View]struct{}
}

// NewController builds a controller in the loading phase; call Start to
// compute the first order.
func NewController(catalog domain.Catalog, opts ...Option) *Controller {
	c := &Controller{
		catalog:     catalog,
		texts:       catalog.Texts.WithDefaults(),
		delay:       DefaultFeedbackDelay,
		sched:       timerScheduler,
		subscribers: make(map[chan domain.View]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.src == nil {
		c.src = newSource()
	}
	return c
}

// Catalog returns the catalog this controller plays.
func (c *Controller) Catalog() domain.Catalog {
	return c.catalog
}

// Start leaves the loading phase. Calling it again is a no-op.
func (c *Controller) Start() domain.View {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Order != nil {
		return c.viewLocked()
	}
	c.state = NewRound(c.state.Round+1, Shuffle(c.catalog.IDs(), c.src))
	return c.broadcastLocked()
}

// HandleClick judges a click on the hotspot with the given identity.
func (c *Controller) HandleClick(id int) (Outcome, domain.View) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, outcome := Judge(c.state, id, c.texts)
	if outcome == OutcomeIgnored {
		return outcome, c.viewLocked()
	}
	c.state = next

	round := next.Round
	c.sched.AfterFunc(c.delay, func() {
		c.settle(round)
	})
	return outcome, c.broadcastLocked()
}

// Reset starts a fresh round from any phase. Callbacks scheduled by the
// previous round become no-ops.
func (c *Controller) Reset() domain.View {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = NewRound(c.state.Round+1, Shuffle(c.catalog.IDs(), c.src))
	return c.broadcastLocked()
}

func (c *Controller) settle(round uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, ok := Settle(c.state, round, c.texts)
	if !ok {
		return
	}
	c.state = next
	c.broadcastLocked()
}

// View returns the current snapshot.
func (c *Controller) View() domain.View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.viewLocked()
}

// State returns a copy of the round state.
func (c *Controller) State() RoundState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// IsEmpty reports whether no subscriber is watching the controller.
func (c *Controller) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subscribers) == 0
}

// Subscribe returns a channel of snapshots, starting with the current one.
// The caller must invoke the returned cancel function to avoid leaks.
func (c *Controller) Subscribe() (<-chan domain.View, func()) {
	ch := make(chan domain.View, 8)

	c.mu.Lock()
	c.subscribers[ch] = struct{}{}
	ch <- c.viewLocked()
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		if _, ok := c.subscribers[ch]; ok {
			delete(c.subscribers, ch)
			close(ch)
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

func (c *Controller) viewLocked() domain.View {
	return Project(c.state, c.catalog)
}

func (c *Controller) broadcastLocked() domain.View {
	view := c.viewLocked()
	for ch := range c.subscribers {
		select {
		case ch <- view:
		default:
			// slow reader: replace the oldest pending snapshot
			select {
			case <-ch:
			default:
			}
			ch <- view
		}
	}
	return view
}
