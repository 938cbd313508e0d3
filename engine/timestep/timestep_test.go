package timestep

import (
	"math"
	"testing"
	"time"
)

type fakeTime struct {
	t time.Duration
}

func (f *fakeTime) now() time.Duration { return f.t }

func runTicks(c Clock) int {
	n := 0
	for c.ShouldUpdate() {
		c.Update()
		n++
	}
	return n
}

func TestClockAccumulates(t *testing.T) {
	ft := &fakeTime{}
	c := NewClock(WithTimeSource(ft.now), WithTickRate(10*time.Millisecond))

	c.BeginLoop()
	if c.ShouldUpdate() {
		t.Fatalf("first loop: expected no update before time passes")
	}

	ft.t += 25 * time.Millisecond
	c.BeginLoop()
	if n := runTicks(c); n != 2 {
		t.Errorf("ticks: expected 2, got %d", n)
	}
	if bf := c.BlendFactor(); math.Abs(bf-0.5) > 1e-9 {
		t.Errorf("blend factor: expected 0.5, got %v", bf)
	}

	ft.t += 5 * time.Millisecond
	c.BeginLoop()
	if n := runTicks(c); n != 1 {
		t.Errorf("carry over: expected 1 tick, got %d", n)
	}
	if bf := c.BlendFactor(); bf != 0 {
		t.Errorf("blend factor: expected 0, got %v", bf)
	}
}

func TestClockCapsStalls(t *testing.T) {
	ft := &fakeTime{}
	c := NewClock(WithTimeSource(ft.now), WithTickRate(10*time.Millisecond), WithMaxFrameTime(50*time.Millisecond))

	c.BeginLoop()
	ft.t += 5 * time.Second
	c.BeginLoop()
	if n := runTicks(c); n != 5 {
		t.Errorf("stall: expected the cap to allow 5 ticks, got %d", n)
	}

	uncapped := NewClock(WithTimeSource(ft.now), WithTickRate(10*time.Millisecond), WithMaxFrameTime(0))
	uncapped.BeginLoop()
	ft.t += time.Second
	uncapped.BeginLoop()
	if n := runTicks(uncapped); n != 100 {
		t.Errorf("uncapped: expected 100 ticks, got %d", n)
	}
}

func TestClockDefaults(t *testing.T) {
	c := NewClock(WithTickRate(-1))
	if c.TickRate() != DefaultTickRate {
		t.Errorf("tick rate: expected %v, got %v", DefaultTickRate, c.TickRate())
	}
	if DefaultTickRate != 16666666*time.Nanosecond {
		t.Errorf("default tick rate: got %v", DefaultTickRate)
	}
}

func TestClockIgnoresBackwardsTime(t *testing.T) {
	ft := &fakeTime{t: time.Second}
	c := NewClock(WithTimeSource(ft.now), WithTickRate(10*time.Millisecond))
	c.BeginLoop()
	ft.t = 0
	c.BeginLoop()
	if c.ShouldUpdate() || c.BlendFactor() != 0 {
		t.Errorf("backwards: expected nothing accumulated")
	}
}
