package particle

import (
	"math"

	"github.com/lixenwraith/particlefield/config"
	"github.com/lixenwraith/particlefield/parameter"
	"github.com/lixenwraith/particlefield/vmath"
)

// Particle is one animated dot, fungible and identified only by store index
type Particle struct {
	Pos vmath.Vec2F
	Vel vmath.Vec2F

	// Radius is fixed for the particle's lifetime
	Radius float64

	// Opacity and Phase are render-only and never read by the stepper
	Opacity float64
	Phase   float64
}

// Bounds is the drawing surface extent in pixels
type Bounds struct {
	Width, Height float64
}

// Empty reports a zero-area surface
func (b Bounds) Empty() bool {
	return !(b.Width > 0 && b.Height > 0)
}

// Contains reports whether p lies in [0,Width]×[0,Height]
func (b Bounds) Contains(p vmath.Vec2F) bool {
	return p.X >= 0 && p.X <= b.Width && p.Y >= 0 && p.Y <= b.Height
}

// Options are the spawn ranges for new particles
type Options struct {
	MinSpeed, MaxSpeed     float64
	MinRadius, MaxRadius   float64
	MinOpacity, MaxOpacity float64
}

// DefaultOptions returns the spawn ranges from parameter
func DefaultOptions() Options {
	return Options{
		MinSpeed:   parameter.ParticleMinSpeed,
		MaxSpeed:   parameter.ParticleMaxSpeed,
		MinRadius:  parameter.ParticleMinRadius,
		MaxRadius:  parameter.ParticleMaxRadius,
		MinOpacity: parameter.ParticleMinOpacity,
		MaxOpacity: parameter.ParticleMaxOpacity,
	}
}

// Store owns the live particle set
// Only the lifecycle controller's frame loop mutates it; not safe for concurrent use
type Store struct {
	particles   []Particle
	bounds      Bounds
	rng         *vmath.FastRand
	opts        Options
	initialized bool
}

// NewStore creates an empty store drawing spawn values from rng
func NewStore(rng *vmath.FastRand, opts Options) *Store {
	if rng == nil {
		rng = vmath.NewTimeSeededRand()
	}
	return &Store{rng: rng, opts: opts}
}

// Initialize replaces the set with count freshly randomized particles
func (s *Store) Initialize(count int, b Bounds) error {
	if err := checkCount(count); err != nil {
		return err
	}
	s.bounds = b
	s.particles = s.particles[:0]
	s.spawn(count)
	s.initialized = true
	return nil
}

// Resize grows by appending random particles or shrinks by truncation
// Particles at overlapping indices keep their state
func (s *Store) Resize(count int, b Bounds) error {
	if err := checkCount(count); err != nil {
		return err
	}
	if !s.initialized {
		return s.Initialize(count, b)
	}
	if b != s.bounds {
		s.Rebound(b)
	}

	n := len(s.particles)
	switch {
	case count < n:
		clear(s.particles[count:])
		s.particles = s.particles[:count]
	case count > n:
		s.spawn(count - n)
	}
	return nil
}

// Rebound fits existing particles into new surface bounds
// Positions scale by the per-axis ratio, then clamp; a zero-sized old axis only clamps
func (s *Store) Rebound(b Bounds) {
	old := s.bounds
	s.bounds = b

	sx, sy := 1.0, 1.0
	if old.Width > 0 {
		sx = b.Width / old.Width
	}
	if old.Height > 0 {
		sy = b.Height / old.Height
	}

	w := math.Max(b.Width, 0)
	h := math.Max(b.Height, 0)
	for i := range s.particles {
		p := &s.particles[i]
		p.Pos.X = vmath.Clamp(p.Pos.X*sx, 0, w)
		p.Pos.Y = vmath.Clamp(p.Pos.Y*sy, 0, h)
	}
}

// Particles returns the live set
// The slice aliases store memory; only the stepper may write through it
func (s *Store) Particles() []Particle {
	return s.particles
}

func (s *Store) Len() int {
	return len(s.particles)
}

func (s *Store) Bounds() Bounds {
	return s.bounds
}

// Initialized reports whether Initialize has run
func (s *Store) Initialized() bool {
	return s.initialized
}

func (s *Store) spawn(n int) {
	o := s.opts
	for range n {
		s.particles = append(s.particles, Particle{
			Pos: vmath.Vec2F{
				X: s.rng.Float64() * s.bounds.Width,
				Y: s.rng.Float64() * s.bounds.Height,
			},
			Vel: vmath.Vec2F{
				X: s.rng.Sign() * s.rng.Range(o.MinSpeed, o.MaxSpeed),
				Y: s.rng.Sign() * s.rng.Range(o.MinSpeed, o.MaxSpeed),
			},
			Radius:  s.rng.Range(o.MinRadius, o.MaxRadius),
			Opacity: s.rng.Range(o.MinOpacity, o.MaxOpacity),
			Phase:   s.rng.Float64() * 2 * math.Pi,
		})
	}
}

func checkCount(count int) error {
	if count < 0 || count > parameter.MaxParticles {
		return config.NewCountError(count, parameter.MaxParticles)
	}
	return nil
}
