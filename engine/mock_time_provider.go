package engine

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/particlefield/parameter"
)

// MockTimeProvider is a virtual clock for tests and headless snapshots
// Time only moves when Advance, AdvanceFrames or SetTime is called
type MockTimeProvider struct {
	origin time.Time
	offset atomic.Int64
}

func NewMockTimeProvider(origin time.Time) *MockTimeProvider {
	return &MockTimeProvider{origin: origin}
}

func (m *MockTimeProvider) Now() time.Time {
	return m.origin.Add(time.Duration(m.offset.Load()))
}

// SetTime jumps to t, which may lie before the current time
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.offset.Store(int64(t.Sub(m.origin)))
}

// Advance moves the clock forward by d and returns the new time
func (m *MockTimeProvider) Advance(d time.Duration) time.Time {
	return m.origin.Add(time.Duration(m.offset.Add(int64(d))))
}

// AdvanceFrames moves the clock by n default frame intervals
func (m *MockTimeProvider) AdvanceFrames(n int) time.Time {
	return m.Advance(time.Duration(n) * parameter.FrameUpdateInterval)
}
