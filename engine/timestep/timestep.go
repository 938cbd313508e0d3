package timestep

import (
	"time"

	"github.com/loov/hrtime"
)

const (
	// DefaultTickRate is the fixed update interval, 60 updates per second.
	DefaultTickRate = 16_666_666 * time.Nanosecond

	// DefaultMaxFrameTime caps the time added per loop so a stall (a dragged window, a
	// debugger break) runs a bounded number of catch-up ticks.
	DefaultMaxFrameTime = 250 * time.Millisecond
)

// clock is the implementation of the Clock interface.
type clock struct {
	now          func() time.Duration
	last         time.Duration
	started      bool
	accumulator  time.Duration
	tickRate     time.Duration
	maxFrameTime time.Duration
}

// Clock is a fixed-timestep accumulator. Each loop iteration calls BeginLoop once, then runs
// Update for as long as ShouldUpdate reports true; rendering then interpolates with
// BlendFactor.
type Clock interface {
	// BeginLoop adds the time elapsed since the previous call to the accumulator. The first
	// call only starts the clock.
	BeginLoop()

	// ShouldUpdate reports whether at least one tick of time is accumulated.
	//
	// Returns:
	//   - bool: true if a fixed update is due
	ShouldUpdate() bool

	// Update consumes one tick from the accumulator.
	Update()

	// BlendFactor returns the accumulated fraction of the next tick, in [0, 1) once all due
	// updates have run.
	//
	// Returns:
	//   - float64: accumulator / tick rate
	BlendFactor() float64

	// TickRate returns the fixed update interval.
	//
	// Returns:
	//   - time.Duration: the interval
	TickRate() time.Duration
}

var _ Clock = &clock{}

// NewClock creates a clock driven by hrtime.Now.
//
// Parameters:
//   - opts: a variadic list of ClockBuilderOption functions
//
// Returns:
//   - Clock: the clock
func NewClock(opts ...ClockBuilderOption) Clock {
	c := &clock{
		now:          hrtime.Now,
		tickRate:     DefaultTickRate,
		maxFrameTime: DefaultMaxFrameTime,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tickRate <= 0 {
		c.tickRate = DefaultTickRate
	}
	return c
}

func (c *clock) BeginLoop() {
	now := c.now()
	if !c.started {
		c.last = now
		c.started = true
		return
	}

	elapsed := now - c.last
	c.last = now
	if elapsed < 0 {
		return
	}
	if c.maxFrameTime > 0 && elapsed > c.maxFrameTime {
		elapsed = c.maxFrameTime
	}
	c.accumulator += elapsed
}

func (c *clock) ShouldUpdate() bool {
	return c.accumulator >= c.tickRate
}

func (c *clock) Update() {
	c.accumulator -= c.tickRate
}

func (c *clock) BlendFactor() float64 {
	return float64(c.accumulator) / float64(c.tickRate)
}

func (c *clock) TickRate() time.Duration {
	return c.tickRate
}
