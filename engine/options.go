package engine

import (
	"go.uber.org/zap"

	"github.com/lixenwraith/particlefield/status"
	"github.com/lixenwraith/particlefield/vmath"
)

// Option customizes a Controller
type Option func(*Controller)

// WithScheduler sets the frame host; without it the controller runs and owns a TickerScheduler
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.sched = s }
}

func WithTimeProvider(tp TimeProvider) Option {
	return func(c *Controller) { c.clock = tp }
}

// WithRand fixes the spawn RNG, overriding EngineConfig.Seed
func WithRand(rng *vmath.FastRand) Option {
	return func(c *Controller) { c.rng = rng }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func WithStatus(reg *status.Registry) Option {
	return func(c *Controller) { c.reg = reg }
}

// WithEvents sets where Mount attaches resize, visibility and intersection listeners
func WithEvents(src EventSource) Option {
	return func(c *Controller) { c.events = src }
}

// WithViewportWidth overrides the viewport width used for class resolution
// The default is the surface width
func WithViewportWidth(fn func() int) Option {
	return func(c *Controller) { c.viewportWidth = fn }
}
