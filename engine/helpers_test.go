package engine

import (
	"image/color"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lixenwraith/particlefield/config"
	"github.com/lixenwraith/particlefield/parameter"
	"github.com/lixenwraith/particlefield/status"
	"github.com/lixenwraith/particlefield/vmath"
)

var frameStep = parameter.FrameUpdateInterval

// fakeSurface counts draw calls and flags any particle drawn out of bounds
type fakeSurface struct {
	mu           sync.Mutex
	w, h         int
	clears       int
	lines        int
	circles      int
	glows        int
	outside      int
	panicOnClear bool
}

func (s *fakeSurface) setSize(w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w, s.h = w, h
}

func (s *fakeSurface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w, s.h
}

func (s *fakeSurface) Clear(color.NRGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panicOnClear {
		panic("surface lost")
	}
	s.clears++
}

func (s *fakeSurface) StrokeLine(_, _, _, _, _ float64, _ color.NRGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines++
}

func (s *fakeSurface) FillCircle(cx, cy, _ float64, _ color.NRGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.circles++
	s.check(cx, cy)
}

func (s *fakeSurface) FillGlow(cx, cy, _, _ float64, _ color.NRGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.glows++
	s.check(cx, cy)
}

func (s *fakeSurface) check(x, y float64) {
	if x < 0 || y < 0 || x > float64(s.w) || y > float64(s.h) {
		s.outside++
	}
}

func (s *fakeSurface) counts() (clears, circles, glows, lines, outside int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears, s.circles, s.glows, s.lines, s.outside
}

func (s *fakeSurface) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears, s.lines, s.circles, s.glows, s.outside = 0, 0, 0, 0, 0
}

type harness struct {
	c       *Controller
	surface *fakeSurface
	sched   *ManualScheduler
	clock   *MockTimeProvider
	events  *Dispatcher
	reg     *status.Registry
	logs    *observer.ObservedLogs
}

func newHarness(t *testing.T, w, h int, cfg config.EngineConfig, opts ...Option) *harness {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	hs := &harness{
		surface: &fakeSurface{w: w, h: h},
		sched:   NewManualScheduler(),
		clock:   NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		events:  NewDispatcher(),
		reg:     status.NewRegistry(),
		logs:    logs,
	}
	base := []Option{
		WithScheduler(hs.sched),
		WithTimeProvider(hs.clock),
		WithRand(vmath.NewFastRand(7)),
		WithLogger(zap.New(core)),
		WithStatus(hs.reg),
		WithEvents(hs.events),
	}
	hs.c = NewController(hs.surface, cfg, append(base, opts...)...)
	return hs
}

// tick advances one nominal frame and pumps the scheduler
func (hs *harness) tick() int {
	return hs.sched.RunFrame(hs.clock.Advance(frameStep))
}

func (hs *harness) ticks(n int) {
	for range n {
		hs.tick()
	}
}
