package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/particlefield/parameter"
)

// TickerScheduler pumps frame requests from its own goroutine at a fixed interval
// Drift is not corrected; a late tick simply shows up as a larger frame delta
type TickerScheduler struct {
	queue    *ManualScheduler
	clock    TimeProvider
	interval time.Duration

	ticks atomic.Uint64

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// NewTickerScheduler creates a stopped scheduler; interval 0 uses parameter.FrameUpdateInterval
func NewTickerScheduler(interval time.Duration, clock TimeProvider) *TickerScheduler {
	if interval <= 0 {
		interval = parameter.FrameUpdateInterval
	}
	if clock == nil {
		clock = NewMonotonicTimeProvider()
	}
	return &TickerScheduler{
		queue:    NewManualScheduler(),
		clock:    clock,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (ts *TickerScheduler) RequestFrame(fn FrameFunc) FrameID {
	return ts.queue.RequestFrame(fn)
}

func (ts *TickerScheduler) CancelFrame(id FrameID) {
	ts.queue.CancelFrame(id)
}

func (ts *TickerScheduler) Pending() int {
	return ts.queue.Pending()
}

// Ticks counts loop iterations, including those with nothing queued
func (ts *TickerScheduler) Ticks() uint64 {
	return ts.ticks.Load()
}

// Start launches the loop; later calls are no-ops
func (ts *TickerScheduler) Start() {
	if ts.running.CompareAndSwap(false, true) {
		ts.wg.Add(1)
		go ts.loop()
	}
}

// Close stops the loop and waits for an in-progress batch to finish
// Must not be called from inside a frame callback
func (ts *TickerScheduler) Close() {
	ts.stopOnce.Do(func() {
		close(ts.stopChan)
		if ts.running.Load() {
			ts.wg.Wait()
		}
	})
}

func (ts *TickerScheduler) loop() {
	defer ts.wg.Done()

	ticker := time.NewTicker(ts.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ts.stopChan:
			return
		case <-ticker.C:
			ts.ticks.Add(1)
			ts.queue.RunFrame(ts.clock.Now())
		}
	}
}
