package profiler

import (
	"log/slog"
	"runtime"
	"time"
)

// Stats is one profiler sample covering the frames since the previous sample.
type Stats struct {
	FPS         float64
	HeapMB      float64
	AllocRateMB float64
	SysMB       float64
	GCCount     uint32
	LastPause   time.Duration
	MaxPause    time.Duration
}

// Profiler counts rendered frames and logs frame rate and memory statistics once per interval.
type Profiler struct {
	logger   *slog.Logger
	now      func() time.Time
	interval time.Duration

	frameCount     int
	lastTime       time.Time
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
}

// NewProfiler creates a Profiler that logs to slog.Default() every second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		now:      time.Now,
		interval: time.Second,
	}
	for _, option := range options {
		option(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.lastTime = p.now()
	return p
}

// Tick records one rendered frame. Once the interval has elapsed it samples the runtime memory
// statistics and logs them together with the frame rate.
//
// Returns:
//   - bool: true if stats were logged this tick
func (p *Profiler) Tick() bool {
	p.frameCount++
	current := p.now()
	elapsed := current.Sub(p.lastTime)
	if elapsed < p.interval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	seconds := elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPause, maxPause uint64
	if gcCount > 0 {
		// PauseNs is a ring of the most recent 256 pauses
		lastPause = p.memStats.PauseNs[(gcCount+255)%256]
		start := p.lastGCCount
		if gcCount-start > 256 {
			start = gcCount - 256
		}
		for i := start; i < gcCount; i++ {
			maxPause = max(maxPause, p.memStats.PauseNs[i%256])
		}
	}

	p.last = Stats{
		FPS:         float64(p.frameCount) / seconds,
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / seconds,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
		GCCount:     gcCount,
		LastPause:   time.Duration(lastPause),
		MaxPause:    time.Duration(maxPause),
	}
	p.logger.Info("profiler",
		"fps", round2(p.last.FPS),
		"heap_mb", round2(p.last.HeapMB),
		"alloc_rate_mb_s", round2(p.last.AllocRateMB),
		"gc", p.last.GCCount,
		"gc_last_pause", p.last.LastPause,
		"gc_max_pause", p.last.MaxPause,
		"sys_mb", round2(p.last.SysMB),
	)

	p.frameCount = 0
	p.lastTime = current
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recently logged sample.
func (p *Profiler) Last() Stats {
	return p.last
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
