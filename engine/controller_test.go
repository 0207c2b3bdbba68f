package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/particlefield/config"
	"github.com/lixenwraith/particlefield/status"
)

func TestMountStartsRunning(t *testing.T) {
	hs := newHarness(t, 1200, 800, config.DefaultConfig())
	assert.Equal(t, StateIdle, hs.c.State())
	assert.Zero(t, hs.sched.Pending(), "nothing scheduled before mount")

	hs.c.Mount()
	assert.Equal(t, StateRunning, hs.c.State())
	assert.Equal(t, 1, hs.sched.Pending())

	require.Equal(t, 1, hs.tick())
	st := hs.c.Stats()
	assert.Equal(t, uint64(1), st.Frames)
	assert.Equal(t, 250, st.Particles)
	assert.Equal(t, config.ClassLarge, st.Class)
	assert.Equal(t, 1, hs.sched.Pending(), "each frame schedules exactly one successor")

	clears, circles, _, _, _ := hs.surface.counts()
	assert.Equal(t, 1, clears)
	assert.Equal(t, 250, circles)
}

func TestMountTwiceIsNoop(t *testing.T) {
	hs := newHarness(t, 800, 600, config.DefaultConfig())
	hs.c.Mount()
	hs.c.Mount()
	assert.Equal(t, 1, hs.sched.Pending())
	assert.Equal(t, 3, hs.events.Listeners())
}

func TestStopLeavesNoPendingCallbacks(t *testing.T) {
	hs := newHarness(t, 800, 600, config.DefaultConfig())
	hs.c.Mount()
	hs.ticks(5)

	hs.c.Stop()
	assert.Equal(t, StateStopped, hs.c.State())
	assert.Zero(t, hs.sched.Pending())
	assert.Zero(t, hs.tick())
	assert.Equal(t, uint64(5), hs.c.Stats().Frames)

	hs.c.Stop()
	hs.c.Mount()
	hs.c.SetVisible(true)
	hs.c.Resize(ResizeEvent{Width: 100, Height: 100})
	assert.Equal(t, StateStopped, hs.c.State())
	assert.Zero(t, hs.sched.Pending())
}

func TestStopCancelsDequeuedFrame(t *testing.T) {
	hs := newHarness(t, 800, 600, config.DefaultConfig())
	hs.sched.RequestFrame(func(time.Time) { hs.c.Stop() })
	hs.c.Mount()

	require.Equal(t, 2, hs.sched.Pending())
	assert.Equal(t, 1, hs.tick(), "the controller frame in the same batch never runs")
	assert.Zero(t, hs.sched.Pending())
	assert.Zero(t, hs.c.Stats().Frames)
}

func TestVisibilityPausesAndResumes(t *testing.T) {
	hs := newHarness(t, 800, 600, config.DefaultConfig())
	hs.c.Mount()
	hs.ticks(3)

	hs.c.SetVisible(false)
	assert.Equal(t, StatePaused, hs.c.State())
	assert.Zero(t, hs.sched.Pending())
	hs.ticks(3)
	assert.Equal(t, uint64(3), hs.c.Stats().Frames)

	hs.clock.Advance(10 * time.Second)
	hs.c.SetVisible(true)
	assert.Equal(t, StateRunning, hs.c.State())
	assert.Equal(t, 1, hs.sched.Pending())

	hs.tick()
	assert.Equal(t, 1.0, hs.reg.Gauges.Cell(status.KeyFrameDelta).Value(), "first frame after resume is one frame long")
	assert.Equal(t, uint64(4), hs.c.Stats().Frames)
}

func TestIntersectionPausesAndResumes(t *testing.T) {
	hs := newHarness(t, 800, 600, config.DefaultConfig())
	hs.c.Mount()

	hs.events.DispatchIntersection(false)
	assert.Equal(t, StatePaused, hs.c.State())

	hs.events.DispatchVisibility(false)
	hs.events.DispatchIntersection(true)
	assert.Equal(t, StatePaused, hs.c.State(), "both signals must be true to run")

	hs.events.DispatchVisibility(true)
	assert.Equal(t, StateRunning, hs.c.State())
	assert.Equal(t, 1, hs.sched.Pending())
}

func TestMountWhileHidden(t *testing.T) {
	hs := newHarness(t, 800, 600, config.DefaultConfig())
	hs.c.SetVisible(false)
	hs.c.Mount()
	assert.Equal(t, StatePaused, hs.c.State())
	assert.Zero(t, hs.sched.Pending())
	assert.Equal(t, 250, hs.c.Stats().Particles)
}

func TestResizeAcrossViewportClasses(t *testing.T) {
	hs := newHarness(t, 1200, 800, config.DefaultConfig())
	hs.c.Mount()
	hs.tick()
	require.Equal(t, 250, hs.c.Stats().Particles)

	steps := []struct {
		width, height int
		want          int
		class         config.ViewportClass
	}{
		{700, 500, 120, config.ClassMedium},
		{600, 500, 120, config.ClassMedium},
		{400, 300, 60, config.ClassSmall},
		{1200, 800, 250, config.ClassLarge},
	}
	for _, s := range steps {
		hs.surface.setSize(s.width, s.height)
		hs.events.DispatchResize(ResizeEvent{ViewportWidth: s.width, Width: s.width, Height: s.height})
		st := hs.c.Stats()
		assert.Equal(t, s.want, st.Particles, "width %d", s.width)
		assert.Equal(t, s.class, st.Class, "width %d", s.width)
		assert.Equal(t, StateRunning, st.State, "resize causes no state transition")

		hs.surface.reset()
		hs.ticks(10)
		_, circles, _, _, outside := hs.surface.counts()
		assert.Equal(t, 10*s.want, circles)
		assert.Zero(t, outside, "width %d: particles drawn outside the surface", s.width)
	}
}

func TestResizeWithinClassKeepsCount(t *testing.T) {
	hs := newHarness(t, 1000, 800, config.DefaultConfig())
	hs.c.Mount()
	for _, w := range []int{900, 1400, 800, 2000} {
		hs.surface.setSize(w, 600)
		hs.c.Resize(ResizeEvent{ViewportWidth: w, Width: w, Height: 600})
		assert.Equal(t, 250, hs.c.Stats().Particles)
	}
}

func TestSurfaceDriftRebounds(t *testing.T) {
	hs := newHarness(t, 800, 600, config.DefaultConfig())
	hs.c.Mount()
	hs.tick()

	hs.surface.setSize(300, 200)
	hs.surface.reset()
	hs.ticks(5)
	_, _, _, _, outside := hs.surface.counts()
	assert.Zero(t, outside)
}

func TestReconfigureAppliesNextFrame(t *testing.T) {
	hs := newHarness(t, 1200, 800, config.DefaultConfig())
	hs.c.Mount()
	hs.tick()
	_, _, glows, lines, _ := hs.surface.counts()
	assert.Zero(t, glows)
	assert.Positive(t, lines)

	cfg := config.DefaultConfig()
	cfg.EnableShadows = true
	cfg.ConnectionFrequency = 0
	hs.c.Reconfigure(cfg)

	hs.surface.reset()
	hs.tick()
	_, circles, glows, lines, _ := hs.surface.counts()
	assert.Equal(t, 250, glows)
	assert.Zero(t, circles)
	assert.Zero(t, lines, "frequency 0 draws no connections")
	assert.Zero(t, hs.c.Stats().Edges)
}

func TestReconfigureCount(t *testing.T) {
	hs := newHarness(t, 1200, 800, config.DefaultConfig())
	hs.c.Mount()

	cfg := config.DefaultConfig()
	cfg.ParticleCount = 90
	hs.c.Reconfigure(cfg)
	assert.Equal(t, 90, hs.c.Stats().Particles)

	cfg.ParticleCount = 9000
	hs.c.Reconfigure(cfg)
	assert.Equal(t, 500, hs.c.Stats().Particles, "count clamps to the maximum")
	assert.Equal(t, 500, hs.c.Config().ParticleCount)
	assert.Equal(t, 1, hs.logs.FilterMessage("engine config clamped").Len())
}

func TestNewControllerNormalizesConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ParticleCount = -5
	hs := newHarness(t, 800, 600, cfg)

	assert.Equal(t, 0, hs.c.Config().ParticleCount)
	entries := hs.logs.FilterMessage("engine config clamped").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "particle_count")

	hs.c.Mount()
	hs.tick()
	assert.Equal(t, StateRunning, hs.c.State(), "an empty field still runs")
	assert.Zero(t, hs.c.Stats().Particles)
}

func TestZeroSurfaceRetries(t *testing.T) {
	hs := newHarness(t, 0, 0, config.DefaultConfig())
	hs.c.Mount()
	assert.Equal(t, StateIdle, hs.c.State())
	assert.Equal(t, 1, hs.sched.Pending(), "mount schedules a retry")

	hs.ticks(3)
	assert.Equal(t, StateIdle, hs.c.State())
	assert.Equal(t, 1, hs.sched.Pending())

	deferred := hs.logs.FilterMessage("start deferred").All()
	require.NotEmpty(t, deferred)
	assert.Contains(t, deferred[0].ContextMap()["error"], "surface unavailable")

	hs.surface.setSize(640, 480)
	hs.tick()
	assert.Equal(t, StateRunning, hs.c.State())
	assert.Equal(t, 120, hs.c.Stats().Particles)
}

func TestZeroSurfaceHiddenDoesNotPoll(t *testing.T) {
	hs := newHarness(t, 0, 0, config.DefaultConfig())
	hs.c.SetVisible(false)
	hs.c.Mount()
	assert.Equal(t, StateIdle, hs.c.State())
	assert.Zero(t, hs.sched.Pending(), "hidden field schedules no retry")

	hs.c.SetVisible(true)
	assert.Equal(t, 1, hs.sched.Pending(), "becoming visible resumes the retry")

	hs.c.SetIntersecting(false)
	assert.Zero(t, hs.sched.Pending(), "scrolling away cancels the retry")
	hs.ticks(3)
	assert.Zero(t, hs.sched.Pending())

	hs.surface.setSize(800, 600)
	hs.c.SetIntersecting(true)
	assert.Equal(t, StateRunning, hs.c.State())
	assert.Equal(t, 250, hs.c.Stats().Particles)
	assert.Equal(t, 1, hs.sched.Pending())
}

func TestResizeWhileIdleHiddenStartsPaused(t *testing.T) {
	hs := newHarness(t, 0, 0, config.DefaultConfig())
	hs.c.SetVisible(false)
	hs.c.Mount()

	hs.surface.setSize(460, 300)
	hs.events.DispatchResize(ResizeEvent{ViewportWidth: 460, Width: 460, Height: 300})
	assert.Equal(t, StatePaused, hs.c.State())
	assert.Zero(t, hs.sched.Pending())
}

func TestResizeWhileIdleStarts(t *testing.T) {
	hs := newHarness(t, 0, 0, config.DefaultConfig())
	hs.c.Mount()

	hs.surface.setSize(460, 300)
	hs.events.DispatchResize(ResizeEvent{ViewportWidth: 460, Width: 460, Height: 300})
	assert.Equal(t, StateRunning, hs.c.State())
	assert.Equal(t, 60, hs.c.Stats().Particles)
	assert.Equal(t, 1, hs.sched.Pending())
}

func TestRunningSurfaceCollapse(t *testing.T) {
	hs := newHarness(t, 800, 600, config.DefaultConfig())
	hs.c.Mount()
	hs.tick()

	hs.surface.setSize(0, 0)
	hs.ticks(2)
	assert.Equal(t, StateRunning, hs.c.State())
	assert.Equal(t, uint64(1), hs.c.Stats().Frames, "zero-area frames are skipped")
	assert.Equal(t, 1, hs.sched.Pending())

	hs.surface.setSize(800, 600)
	hs.tick()
	assert.Equal(t, uint64(2), hs.c.Stats().Frames)
}

func TestListenersDetachOnStop(t *testing.T) {
	hs := newHarness(t, 800, 600, config.DefaultConfig())
	hs.c.Mount()
	assert.Equal(t, 3, hs.events.Listeners())

	hs.c.Stop()
	assert.Zero(t, hs.events.Listeners())
}

type degradedSource struct {
	detachErr error
	attachErr error
}

func (d degradedSource) attach() (DetachFunc, error) {
	if d.attachErr != nil {
		return nil, d.attachErr
	}
	return func() error { return d.detachErr }, nil
}

func (d degradedSource) OnResize(func(ResizeEvent)) (DetachFunc, error) { return d.attach() }
func (d degradedSource) OnVisibility(func(bool)) (DetachFunc, error)    { return d.attach() }
func (d degradedSource) OnIntersection(func(bool)) (DetachFunc, error)  { return d.attach() }

func TestUnavailableListenersKeepRunning(t *testing.T) {
	hs := newHarness(t, 800, 600, config.DefaultConfig(),
		WithEvents(degradedSource{attachErr: ErrListenerUnavailable}))
	hs.c.Mount()

	assert.Equal(t, StateRunning, hs.c.State())
	assert.Equal(t, 3, hs.logs.FilterMessage("listener unavailable, keeping initial configuration").Len())
	hs.ticks(2)
	assert.Equal(t, uint64(2), hs.c.Stats().Frames)

	hs.c.Stop()
	assert.Zero(t, hs.logs.FilterMessage("listener detach failed").Len())
}

func TestAttachFailureLogged(t *testing.T) {
	hs := newHarness(t, 800, 600, config.DefaultConfig(),
		WithEvents(degradedSource{attachErr: errors.New("no observer support")}))
	hs.c.Mount()
	assert.Equal(t, StateRunning, hs.c.State())
	assert.Equal(t, 3, hs.logs.FilterMessage("listener attach failed").Len())
}

func TestDetachErrorsCombined(t *testing.T) {
	hs := newHarness(t, 800, 600, config.DefaultConfig(),
		WithEvents(degradedSource{detachErr: errors.New("detach refused")}))
	hs.c.Mount()
	hs.c.Stop()

	assert.Equal(t, StateStopped, hs.c.State())
	entries := hs.logs.FilterMessage("listener detach failed").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "detach refused; detach refused; detach refused")
}

func TestFramePanicStopsField(t *testing.T) {
	hs := newHarness(t, 800, 600, config.DefaultConfig())
	hs.c.Mount()
	hs.tick()

	hs.surface.mu.Lock()
	hs.surface.panicOnClear = true
	hs.surface.mu.Unlock()

	assert.NotPanics(t, func() { hs.tick() })
	assert.Equal(t, StateStopped, hs.c.State())
	assert.Zero(t, hs.sched.Pending())
	assert.Zero(t, hs.events.Listeners())
	assert.Equal(t, 1, hs.logs.FilterMessage("frame panicked, stopping field").Len())
}

func TestStatusMetrics(t *testing.T) {
	hs := newHarness(t, 1200, 800, config.DefaultConfig())
	hs.c.Mount()
	hs.ticks(4)

	snap := hs.reg.Snapshot()
	assert.Equal(t, int64(4), snap.Counters[status.KeyFrames])
	assert.Equal(t, int64(250), snap.Counters[status.KeyParticles])
	assert.Equal(t, int64(1200), snap.Counters[status.KeyViewport])
	assert.Equal(t, "running", snap.Labels[status.KeyState])
	assert.InDelta(t, 60.0, snap.Gauges[status.KeyFPS], 1e-3)

	hs.c.SetVisible(false)
	assert.Equal(t, "paused", hs.reg.Snapshot().Labels[status.KeyState])
}

func TestSeedIsDeterministic(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Seed = 99

	run := func() int {
		core := &fakeSurface{w: 800, h: 600}
		sched := NewManualScheduler()
		clock := NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
		c := NewController(core, cfg, WithScheduler(sched), WithTimeProvider(clock))
		c.Mount()
		for range 20 {
			sched.RunFrame(clock.Advance(frameStep))
		}
		return c.Stats().Edges
	}
	assert.Equal(t, run(), run())
}

func TestDefaultSchedulerOwned(t *testing.T) {
	surface := &fakeSurface{w: 320, h: 200}
	c := NewController(surface, config.DefaultConfig())
	c.Mount()

	require.Eventually(t, func() bool { return c.Stats().Frames >= 2 }, 2*time.Second, 5*time.Millisecond)
	c.Stop()

	frames := c.Stats().Frames
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, frames, c.Stats().Frames, "no frames after Stop")
}
