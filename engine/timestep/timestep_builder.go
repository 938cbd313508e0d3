package timestep

import "time"

// ClockBuilderOption is a functional option used to configure a Clock during construction.
type ClockBuilderOption func(*clock)

// WithTickRate sets the fixed update interval. Non-positive values keep the default.
//
// Parameters:
//   - rate: the interval between updates
//
// Returns:
//   - ClockBuilderOption: a function that sets the tick rate
func WithTickRate(rate time.Duration) ClockBuilderOption {
	return func(c *clock) {
		c.tickRate = rate
	}
}

// WithMaxFrameTime sets the most time a single BeginLoop may add. Zero disables the cap.
//
// Parameters:
//   - d: the cap
//
// Returns:
//   - ClockBuilderOption: a function that sets the cap
func WithMaxFrameTime(d time.Duration) ClockBuilderOption {
	return func(c *clock) {
		c.maxFrameTime = d
	}
}

// WithTimeSource replaces hrtime.Now as the monotonic time source.
//
// Parameters:
//   - now: a function returning monotonic time since an arbitrary origin
//
// Returns:
//   - ClockBuilderOption: a function that sets the time source
func WithTimeSource(now func() time.Duration) ClockBuilderOption {
	return func(c *clock) {
		c.now = now
	}
}
