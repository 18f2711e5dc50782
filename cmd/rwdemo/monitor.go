package main

import (
	"context"
	"runtime"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/bastionzero/rabinwilliams/log"
)

// memStats is the subset of runtime.MemStats worth watching during a benchmark
// source: https://scene-si.org/2018/08/06/basic-monitoring-of-go-apps-with-the-runtime-package/
type memStats struct {
	Alloc,
	TotalAlloc,
	Sys,
	Mallocs,
	Frees,
	LiveObjects,
	PauseTotalNs uint64

	NumGC        uint32
	NumGoroutine int
}

func readMemStats() memStats {
	var rtm runtime.MemStats
	runtime.ReadMemStats(&rtm)

	return memStats{
		Alloc:        rtm.Alloc,
		TotalAlloc:   rtm.TotalAlloc,
		Sys:          rtm.Sys,
		Mallocs:      rtm.Mallocs,
		Frees:        rtm.Frees,
		LiveObjects:  rtm.Mallocs - rtm.Frees,
		PauseTotalNs: rtm.PauseTotalNs,
		NumGC:        rtm.NumGC,
		NumGoroutine: runtime.NumGoroutine(),
	}
}

// monitor logs memory statistics every interval until ctx is done
func monitor(ctx context.Context, clock clockwork.Clock, interval time.Duration, logger log.Logger) {
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			m := readMemStats()
			logger.Infow("runtime",
				"alloc", m.Alloc,
				"total_alloc", m.TotalAlloc,
				"sys", m.Sys,
				"live_objects", m.LiveObjects,
				"pause_total_ns", m.PauseTotalNs,
				"num_gc", m.NumGC,
				"goroutines", m.NumGoroutine,
			)
		}
	}
}
