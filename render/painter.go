package render

import (
	"image/color"

	"github.com/lixenwraith/particlefield/config"
	"github.com/lixenwraith/particlefield/parameter"
	"github.com/lixenwraith/particlefield/particle"
)

// Painter draws one particle in its final color
type Painter interface {
	Paint(s Surface, p *particle.Particle, c color.NRGBA, st *config.Style)
}

var (
	flat Painter = flatPainter{}
	glow Painter = glowPainter{}
)

// PainterFor picks the per-frame paint strategy
func PainterFor(enableShadows bool) Painter {
	if enableShadows {
		return glow
	}
	return flat
}

type flatPainter struct{}

func (flatPainter) Paint(s Surface, p *particle.Particle, c color.NRGBA, _ *config.Style) {
	s.FillCircle(p.Pos.X, p.Pos.Y, p.Radius, c)
}

type glowPainter struct{}

func (glowPainter) Paint(s Surface, p *particle.Particle, c color.NRGBA, st *config.Style) {
	blur := st.GlowBlur
	if blur <= 0 {
		s.FillCircle(p.Pos.X, p.Pos.Y, p.Radius, c)
		return
	}
	if gs, ok := s.(GlowSurface); ok {
		gs.FillGlow(p.Pos.X, p.Pos.Y, p.Radius, blur, c)
		return
	}

	// Halo rings outermost first, alpha rising toward the core
	rings := parameter.GlowHaloRings
	for k := rings; k >= 1; k-- {
		frac := float64(k) / float64(rings)
		halo := c
		halo.A = uint8(float64(c.A)*parameter.GlowHaloAlpha*(1-frac) + 0.5)
		if halo.A == 0 {
			continue
		}
		s.FillCircle(p.Pos.X, p.Pos.Y, p.Radius+blur*frac, halo)
	}
	s.FillCircle(p.Pos.X, p.Pos.Y, p.Radius, c)
}
