package metrics

import (
	"sync/atomic"
	"time"

	"hrsync/internal/bus"
)

// Collector keeps cheap process-wide counters: HTTP traffic plus how often
// page loads fell back to the local store.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	totalDurationMs uint64
	pageLoads       uint64
	fallbacks       uint64
}

func New() *Collector {
	return &Collector{}
}

// Record counts one served HTTP request.
func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// Watch subscribes the collector to the page-load topics and returns an
// unsubscribe func.
func (c *Collector) Watch(b *bus.Bus) func() {
	unsubLoaded := b.Subscribe(bus.TopicPageLoaded, func(any) {
		atomic.AddUint64(&c.pageLoads, 1)
	})
	unsubFailed := b.Subscribe(bus.TopicPageLoadFailed, func(any) {
		atomic.AddUint64(&c.pageLoads, 1)
		atomic.AddUint64(&c.fallbacks, 1)
	})
	return func() {
		unsubLoaded()
		unsubFailed()
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":  total,
		"errorsTotal":    errs,
		"avgDurationMs":  avg,
		"pageLoadsTotal": atomic.LoadUint64(&c.pageLoads),
		"fallbacksTotal": atomic.LoadUint64(&c.fallbacks),
	}
}
