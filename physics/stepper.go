package physics

import (
	"errors"
	"time"

	"github.com/lixenwraith/particlefield/parameter"
	"github.com/lixenwraith/particlefield/particle"
)

// ErrNotInitialized is returned when stepping a store that was never initialized
var ErrNotInitialized = errors.New("physics: store not initialized")

// Stepper advances particle kinematics with elastic wall reflection
type Stepper struct {
	// MaxDelta caps dt in frame units, zero uses parameter.MaxFrameDelta
	MaxDelta float64
}

// Step advances every particle by vel*dt, dt in 60 Hz frame units
// A coordinate leaving the bounds is clamped to the wall and its velocity component turned inward,
// so particles stay visible indefinitely
func (st Stepper) Step(s *particle.Store, dt float64) error {
	if !s.Initialized() {
		return ErrNotInitialized
	}
	if dt <= 0 {
		return nil
	}
	if limit := st.maxDelta(); dt > limit {
		dt = limit
	}

	b := s.Bounds()
	ps := s.Particles()
	for i := range ps {
		p := &ps[i]
		p.Pos.X, p.Vel.X = reflect(p.Pos.X+p.Vel.X*dt, p.Vel.X, b.Width)
		p.Pos.Y, p.Vel.Y = reflect(p.Pos.Y+p.Vel.Y*dt, p.Vel.Y, b.Height)
	}
	return nil
}

func (st Stepper) maxDelta() float64 {
	if st.MaxDelta > 0 {
		return st.MaxDelta
	}
	return parameter.MaxFrameDelta
}

// reflect resolves one axis against [0, limit]
func reflect(pos, vel, limit float64) (float64, float64) {
	if limit < 0 {
		limit = 0
	}
	switch {
	case pos < 0:
		pos = 0
		if vel < 0 {
			vel = -vel
		}
	case pos > limit:
		pos = limit
		if vel > 0 {
			vel = -vel
		}
	}
	return pos, vel
}

// FrameDelta converts elapsed wall time into capped frame units
// A zero prev (first frame, or first frame after resume) yields exactly one frame
func FrameDelta(prev, now time.Time) float64 {
	if prev.IsZero() {
		return 1
	}
	elapsed := now.Sub(prev)
	if elapsed <= 0 {
		return 0
	}
	dt := elapsed.Seconds() * parameter.FrameRate
	if dt > parameter.MaxFrameDelta {
		return parameter.MaxFrameDelta
	}
	return dt
}
