package status

import "sync/atomic"

// Metric keys written by the lifecycle controller
const (
	KeyFrames     = "engine.frames"
	KeyFrameErrs  = "engine.frame_errors"
	KeyParticles  = "engine.particles"
	KeyEdges      = "engine.edges"
	KeyFPS        = "engine.fps"
	KeyFrameDelta = "engine.dt"
	KeyState      = "engine.state"
	KeyViewport   = "engine.viewport_width"
)

// Registry holds engine metrics
// The frame loop caches cell pointers once and writes atomics each frame
type Registry struct {
	Counters *Family[atomic.Int64]
	Gauges   *Family[Gauge]
	Labels   *Family[Label]
}

func NewRegistry() *Registry {
	return &Registry{
		Counters: NewFamily[atomic.Int64](),
		Gauges:   NewFamily[Gauge](),
		Labels:   NewFamily[Label](),
	}
}

// Snapshot is a point-in-time copy of every registered metric
type Snapshot struct {
	Counters map[string]int64
	Gauges   map[string]float64
	Labels   map[string]string
}

func (r *Registry) Snapshot() Snapshot {
	s := Snapshot{
		Counters: make(map[string]int64, r.Counters.Len()),
		Gauges:   make(map[string]float64, r.Gauges.Len()),
		Labels:   make(map[string]string, r.Labels.Len()),
	}
	r.Counters.Each(func(k string, c *atomic.Int64) { s.Counters[k] = c.Load() })
	r.Gauges.Each(func(k string, g *Gauge) { s.Gauges[k] = g.Value() })
	r.Labels.Each(func(k string, l *Label) { s.Labels[k] = l.Value() })
	return s
}

// TotalCount returns the number of registered metrics
func (r *Registry) TotalCount() int {
	return r.Counters.Len() + r.Gauges.Len() + r.Labels.Len()
}
