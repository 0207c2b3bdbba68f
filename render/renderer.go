package render

import (
	"math"

	"github.com/lixenwraith/particlefield/config"
	"github.com/lixenwraith/particlefield/connection"
	"github.com/lixenwraith/particlefield/particle"
	"github.com/lixenwraith/particlefield/vmath"
)

// Options are the per-frame render inputs
type Options struct {
	EnableShadows bool
	Style         config.Style
	// Time drives twinkle in seconds since mount
	Time float64
}

// Renderer paints one frame of particles and connection lines
// Zero value is ready to use; it never mutates its inputs
type Renderer struct{}

// Render clears the surface and draws edges under particles
// Returns false without drawing when the surface has zero area
func (Renderer) Render(s Surface, ps []particle.Particle, edges []connection.Edge, opts Options) bool {
	if w, h := s.Size(); w <= 0 || h <= 0 {
		return false
	}
	st := &opts.Style

	s.Clear(st.Background.NRGBA(1))

	if st.LineAlpha > 0 && st.LineWidth > 0 {
		for _, e := range edges {
			if e.A < 0 || e.A >= len(ps) || e.B < 0 || e.B >= len(ps) || e.A == e.B {
				continue
			}
			alpha := st.LineAlpha * e.Strength
			if alpha <= 0 {
				continue
			}
			a, b := ps[e.A].Pos, ps[e.B].Pos
			s.StrokeLine(a.X, a.Y, b.X, b.Y, st.LineWidth, st.Line.NRGBA(alpha))
		}
	}

	painter := PainterFor(opts.EnableShadows)
	for i := range ps {
		p := &ps[i]
		op := Opacity(p, st.Twinkle, opts.Time)
		if op <= 0 {
			continue
		}
		painter.Paint(s, p, st.Particle.NRGBA(op), st)
	}

	if f, ok := s.(Flusher); ok {
		f.Flush()
	}
	return true
}

// Opacity returns the rendered opacity of p at time t
// Twinkle modulates between full and (1-twinkle) of the base opacity
func Opacity(p *particle.Particle, twinkle, t float64) float64 {
	base := vmath.Clamp01(p.Opacity)
	if twinkle <= 0 {
		return base
	}
	wave := 0.5 + 0.5*math.Sin(p.Phase+t)
	return base * (1 - vmath.Clamp01(twinkle)*wave)
}
