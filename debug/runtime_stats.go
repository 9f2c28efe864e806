package debug

// Runtime stats logger, started only when config.Debug is true. Every working
// canvas, preview and patch is a full image buffer, so heap growth across a long
// session is the thing worth watching.

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"
)

// Stats is one sample of the runtime counters that are logged.
type Stats struct {
	Goroutines uint64
	HeapAlloc  uint64
	HeapInuse  uint64
	NumGC      uint32
}

// ReadStats samples the current runtime counters.
func ReadStats() Stats {
	samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
	metrics.Read(samples)
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s := Stats{HeapAlloc: ms.HeapAlloc, HeapInuse: ms.HeapInuse, NumGC: ms.NumGC}
	if samples[0].Value.Kind() == metrics.KindUint64 {
		s.Goroutines = samples[0].Value.Uint64()
	}
	return s
}

// StartStatsLogger logs runtime stats every interval until ctx is done.
func StartStatsLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if logger == nil {
		return
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s := ReadStats()
				logger.Debug("runtime-stats",
					slog.Uint64("goroutines", s.Goroutines),
					slog.Uint64("heap_alloc", s.HeapAlloc),
					slog.Uint64("heap_inuse", s.HeapInuse),
					slog.Uint64("num_gc", uint64(s.NumGC)),
				)
			}
		}
	}()
}
