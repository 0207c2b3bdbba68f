package engine

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lixenwraith/particlefield/config"
	"github.com/lixenwraith/particlefield/connection"
	"github.com/lixenwraith/particlefield/parameter"
	"github.com/lixenwraith/particlefield/particle"
	"github.com/lixenwraith/particlefield/physics"
	"github.com/lixenwraith/particlefield/render"
	"github.com/lixenwraith/particlefield/status"
	"github.com/lixenwraith/particlefield/vmath"
)

// Stats is a point-in-time view of a running field
type Stats struct {
	State     State
	Class     config.ViewportClass
	Particles int
	Edges     int
	Frames    uint64
	FPS       float64
}

// Controller owns one particle field from mount to teardown
// All methods are safe to call from any goroutine; frames and events serialize on one mutex
type Controller struct {
	mu sync.Mutex

	surface  render.Surface
	cfg      config.EngineConfig
	store    *particle.Store
	stepper  physics.Stepper
	builder  connection.Builder
	renderer render.Renderer

	sched         Scheduler
	ownedSched    *TickerScheduler
	clock         TimeProvider
	rng           *vmath.FastRand
	log           *zap.Logger
	reg           *status.Registry
	events        EventSource
	viewportWidth func() int
	detaches      []DetachFunc

	state        State
	mounted      bool
	visible      bool
	intersecting bool

	frameID  FrameID
	hasFrame bool
	// gen invalidates callbacks that were cancelled while already dequeued
	gen uint64

	mountTime time.Time
	lastFrame time.Time
	class     config.ViewportClass
	vw        int
	resolved  int
	edges     int
	frames    uint64

	statFrames    *atomic.Int64
	statFrameErrs *atomic.Int64
	statParticles *atomic.Int64
	statEdges     *atomic.Int64
	statViewport  *atomic.Int64
	statFPS       *status.Gauge
	statDelta     *status.Gauge
	statState     *status.Label
}

// NewController prepares a field over surface; nothing is drawn until Mount
// An out-of-range cfg is clamped and the clamp logged
func NewController(surface render.Surface, cfg config.EngineConfig, opts ...Option) *Controller {
	c := &Controller{
		surface:      surface,
		visible:      true,
		intersecting: true,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.clock == nil {
		c.clock = NewMonotonicTimeProvider()
	}
	if c.sched == nil {
		c.ownedSched = NewTickerScheduler(parameter.FrameUpdateInterval, c.clock)
		c.sched = c.ownedSched
	}
	if c.reg == nil {
		c.reg = status.NewRegistry()
	}
	if c.viewportWidth == nil {
		c.viewportWidth = func() int {
			w, _ := c.surface.Size()
			return w
		}
	}

	norm, err := config.Normalize(cfg)
	if err != nil {
		c.log.Warn("engine config clamped", zap.Error(err))
	}
	c.cfg = norm

	if c.rng == nil {
		if norm.Seed != 0 {
			c.rng = vmath.NewFastRand(norm.Seed)
		} else {
			c.rng = vmath.NewTimeSeededRand()
		}
	}
	c.store = particle.NewStore(c.rng, particle.DefaultOptions())

	c.statFrames = c.reg.Counters.Cell(status.KeyFrames)
	c.statFrameErrs = c.reg.Counters.Cell(status.KeyFrameErrs)
	c.statParticles = c.reg.Counters.Cell(status.KeyParticles)
	c.statEdges = c.reg.Counters.Cell(status.KeyEdges)
	c.statViewport = c.reg.Counters.Cell(status.KeyViewport)
	c.statFPS = c.reg.Gauges.Cell(status.KeyFPS)
	c.statDelta = c.reg.Gauges.Cell(status.KeyFrameDelta)
	c.statState = c.reg.Labels.Cell(status.KeyState)
	c.statState.Set(c.state.String())

	return c
}

// Mount attaches listeners and starts the field if the surface has area
// A zero-area surface leaves the controller Idle and retries every tick while active
func (c *Controller) Mount() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mounted || c.state == StateStopped {
		return
	}
	c.mounted = true
	c.mountTime = c.clock.Now()
	if c.ownedSched != nil {
		c.ownedSched.Start()
	}
	c.attachLocked()
	c.tryStartLocked("mount")
}

// SetVisible reports document visibility
func (c *Controller) SetVisible(visible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = visible
	c.updateRunLocked()
}

// SetIntersecting reports whether the host section is in the viewport
func (c *Controller) SetIntersecting(intersecting bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.intersecting = intersecting
	c.updateRunLocked()
}

// Resize fits the field to a new surface extent
// The count is re-resolved only when the viewport class changes
func (c *Controller) Resize(ev ResizeEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateStopped || !c.mounted {
		return
	}
	if !c.store.Initialized() {
		c.tryStartLocked("resize")
		return
	}

	w, h := ev.Width, ev.Height
	if w <= 0 || h <= 0 {
		w, h = c.surface.Size()
	}
	if w <= 0 || h <= 0 {
		c.log.Debug("resize deferred", zap.Error(&SurfaceUnavailableError{Op: "resize", Width: w, Height: h}))
		return
	}
	b := particle.Bounds{Width: float64(w), Height: float64(h)}
	c.store.Rebound(b)

	vw := ev.ViewportWidth
	if vw <= 0 {
		vw = c.viewportWidth()
	}
	c.vw = vw
	c.statViewport.Store(int64(vw))
	if class := config.ClassOf(vw); class != c.class {
		c.log.Debug("viewport class changed",
			zap.Stringer("from", c.class), zap.Stringer("to", class), zap.Int("viewport_width", vw))
		c.class = class
		c.recountLocked()
	}
}

// Reconfigure swaps the engine config; the next frame uses it
// A changed particle count is re-resolved immediately, a changed seed is ignored
func (c *Controller) Reconfigure(cfg config.EngineConfig) {
	norm, err := config.Normalize(cfg)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.log.Warn("engine config clamped", zap.Error(err))
	}
	if c.state == StateStopped {
		return
	}
	prev := c.cfg
	c.cfg = norm
	c.log.Debug("reconfigured",
		zap.Int("particle_count", norm.ParticleCount),
		zap.Bool("enable_shadows", norm.EnableShadows),
		zap.Float64("connection_frequency", norm.ConnectionFrequency))

	if c.store.Initialized() && norm.ParticleCount != prev.ParticleCount {
		c.recountLocked()
	}
}

// Stop cancels the pending frame, detaches listeners and moves to Stopped
// No frame callback runs after Stop returns; later calls are no-ops
func (c *Controller) Stop() {
	c.mu.Lock()
	closeSched := c.stopLocked("stop")
	c.mu.Unlock()

	if closeSched != nil {
		closeSched()
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Config returns the normalized config in effect
func (c *Controller) Config() config.EngineConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		State:     c.state,
		Class:     c.class,
		Particles: c.store.Len(),
		Edges:     c.edges,
		Frames:    c.frames,
		FPS:       c.statFPS.Value(),
	}
}

func (c *Controller) attachLocked() {
	if c.events == nil {
		return
	}
	attach := func(signal string, detach DetachFunc, err error) {
		switch {
		case errors.Is(err, ErrListenerUnavailable):
			c.log.Info("listener unavailable, keeping initial configuration", zap.String("signal", signal))
		case err != nil:
			c.log.Warn("listener attach failed", zap.String("signal", signal), zap.Error(err))
		case detach != nil:
			c.detaches = append(c.detaches, detach)
		}
	}

	d, err := c.events.OnResize(c.Resize)
	attach("resize", d, err)
	d, err = c.events.OnVisibility(c.SetVisible)
	attach("visibility", d, err)
	d, err = c.events.OnIntersection(c.SetIntersecting)
	attach("intersection", d, err)
}

// tryStartLocked initializes the store once the surface has area
func (c *Controller) tryStartLocked(op string) {
	w, h := c.surface.Size()
	if w <= 0 || h <= 0 {
		c.log.Debug("start deferred", zap.Error(&SurfaceUnavailableError{Op: op, Width: w, Height: h}))
		// hidden fields wait for SetVisible, SetIntersecting or Resize instead of polling
		if c.active() {
			c.requestFrameLocked()
		} else {
			c.cancelFrameLocked()
		}
		return
	}

	c.vw = c.viewportWidth()
	c.class = config.ClassOf(c.vw)
	c.resolved = config.Resolve(c.vw, c.cfg.ParticleCount)
	b := particle.Bounds{Width: float64(w), Height: float64(h)}
	if err := c.store.Initialize(c.resolved, b); err != nil {
		c.log.Error("store initialize failed", zap.Error(err))
		c.cancelFrameLocked()
		return
	}
	c.statParticles.Store(int64(c.resolved))
	c.statViewport.Store(int64(c.vw))
	c.log.Info("field mounted",
		zap.Int("particles", c.resolved),
		zap.Int("requested", c.cfg.ParticleCount),
		zap.Stringer("class", c.class),
		zap.Int("width", w), zap.Int("height", h))

	if c.active() {
		c.transitionLocked(StateRunning)
		c.lastFrame = time.Time{}
		c.requestFrameLocked()
	} else {
		c.transitionLocked(StatePaused)
		c.cancelFrameLocked()
	}
}

func (c *Controller) active() bool {
	return c.visible && c.intersecting
}

func (c *Controller) updateRunLocked() {
	switch c.state {
	case StateIdle:
		if !c.mounted {
			return
		}
		if !c.active() {
			c.cancelFrameLocked()
		} else if !c.hasFrame {
			c.tryStartLocked("visible")
		}
	case StateRunning:
		if !c.active() {
			c.transitionLocked(StatePaused)
			c.cancelFrameLocked()
		}
	case StatePaused:
		if c.active() {
			c.transitionLocked(StateRunning)
			c.lastFrame = time.Time{}
			c.requestFrameLocked()
		}
	}
}

// recountLocked re-resolves the count for the current class and resizes the store
func (c *Controller) recountLocked() {
	n := config.Resolve(c.vw, c.cfg.ParticleCount)
	if n == c.resolved {
		return
	}
	if err := c.store.Resize(n, c.store.Bounds()); err != nil {
		c.log.Error("store resize failed", zap.Error(err))
		return
	}
	c.log.Info("particle count changed", zap.Int("from", c.resolved), zap.Int("to", n))
	c.resolved = n
	c.statParticles.Store(int64(n))
}

func (c *Controller) transitionLocked(to State) bool {
	if c.state == to {
		return true
	}
	if !CanTransition(c.state, to) {
		c.log.Warn("illegal state transition", zap.Stringer("from", c.state), zap.Stringer("to", to))
		return false
	}
	c.log.Debug("state", zap.Stringer("from", c.state), zap.Stringer("to", to))
	c.state = to
	c.statState.Set(to.String())
	return true
}

// requestFrameLocked replaces any pending frame with a fresh request
func (c *Controller) requestFrameLocked() {
	c.cancelFrameLocked()
	gen := c.gen
	c.frameID = c.sched.RequestFrame(func(now time.Time) { c.frame(gen, now) })
	c.hasFrame = true
}

func (c *Controller) cancelFrameLocked() {
	c.gen++
	if c.hasFrame {
		c.sched.CancelFrame(c.frameID)
		c.hasFrame = false
	}
}

// stopLocked tears down and returns the owned scheduler's Close for the caller to run unlocked
func (c *Controller) stopLocked(reason string) func() {
	if c.state == StateStopped {
		return nil
	}
	c.cancelFrameLocked()
	c.state = StateStopped
	c.statState.Set(c.state.String())

	var err error
	for _, detach := range c.detaches {
		err = multierr.Append(err, detach())
	}
	c.detaches = nil
	if err != nil {
		c.log.Warn("listener detach failed", zap.Error(err))
	}
	c.log.Info("field stopped", zap.String("reason", reason), zap.Uint64("frames", c.frames))

	if c.ownedSched != nil {
		return c.ownedSched.Close
	}
	return nil
}

func (c *Controller) frame(gen uint64, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return
	}
	c.hasFrame = false

	defer func() {
		if r := recover(); r != nil {
			c.log.Error("frame panicked, stopping field", zap.Any("panic", r), zap.Stack("stack"))
			if closeSched := c.stopLocked("panic"); closeSched != nil {
				// Close waits for the loop this callback is running on
				go closeSched()
			}
		}
	}()

	switch c.state {
	case StateIdle:
		c.tryStartLocked("frame")
	case StateRunning:
		c.runFrameLocked(now)
	}
}

func (c *Controller) runFrameLocked(now time.Time) {
	w, h := c.surface.Size()
	if w <= 0 || h <= 0 {
		c.log.Debug("frame skipped", zap.Error(&SurfaceUnavailableError{Op: "frame", Width: w, Height: h}))
		c.requestFrameLocked()
		return
	}
	if b := (particle.Bounds{Width: float64(w), Height: float64(h)}); b != c.store.Bounds() {
		c.store.Rebound(b)
	}

	dt := physics.FrameDelta(c.lastFrame, now)
	c.lastFrame = now
	if err := c.stepper.Step(c.store, dt); err != nil {
		c.statFrameErrs.Add(1)
		c.log.Warn("step failed", zap.Error(err))
	}

	ps := c.store.Particles()
	edges := c.builder.Build(ps, c.cfg.MaxDistance, c.cfg.ConnectionFrequency)
	c.renderer.Render(c.surface, ps, edges, render.Options{
		EnableShadows: c.cfg.EnableShadows,
		Style:         c.cfg.Style,
		Time:          now.Sub(c.mountTime).Seconds(),
	})

	c.frames++
	c.edges = len(edges)
	c.statFrames.Store(int64(c.frames))
	c.statEdges.Store(int64(len(edges)))
	c.statParticles.Store(int64(len(ps)))
	c.statDelta.Set(dt)
	if dt > 0 {
		c.statFPS.Smooth(parameter.FrameRate/dt, parameter.FPSSmoothing)
	}

	c.requestFrameLocked()
}
