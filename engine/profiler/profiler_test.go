package profiler

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestTickLogsOncePerInterval(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	now := time.Unix(0, 0)
	p := NewProfiler(WithLogger(logger), WithClock(func() time.Time { return now }))

	for i := 0; i < 59; i++ {
		now = now.Add(time.Second/60 + time.Microsecond)
		if p.Tick() {
			t.Fatalf("tick %d: logged before the interval elapsed", i)
		}
	}
	now = now.Add(time.Second/60 + time.Microsecond)
	if !p.Tick() {
		t.Fatalf("expected a sample after one second")
	}

	if got := p.Last().FPS; got < 59.9 || got > 60.1 {
		t.Errorf("fps: expected 60, got %v", got)
	}
	if !strings.Contains(buf.String(), "msg=profiler") || !strings.Contains(buf.String(), "fps=60") {
		t.Errorf("log: expected a profiler line with fps=60, got %q", buf.String())
	}
	if strings.Count(buf.String(), "msg=profiler") != 1 {
		t.Errorf("log: expected one line, got %q", buf.String())
	}
}

func TestWithInterval(t *testing.T) {
	now := time.Unix(0, 0)
	p := NewProfiler(
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
		WithClock(func() time.Time { return now }),
		WithInterval(100*time.Millisecond),
	)
	now = now.Add(100 * time.Millisecond)
	if !p.Tick() {
		t.Errorf("expected a sample after the custom interval")
	}

	p = NewProfiler(WithInterval(-1))
	if p.interval != time.Second {
		t.Errorf("interval: expected default 1s, got %v", p.interval)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{59.996, 60},
		{12.344, 12.34},
		{0, 0},
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}
