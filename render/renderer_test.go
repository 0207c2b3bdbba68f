package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/particlefield/config"
	"github.com/lixenwraith/particlefield/connection"
	"github.com/lixenwraith/particlefield/parameter"
	"github.com/lixenwraith/particlefield/particle"
	"github.com/lixenwraith/particlefield/vmath"
)

type op struct {
	kind       string
	x, y, r    float64
	blur       float64
	c          color.NRGBA
	lineExtent [4]float64
}

// recorder captures draw calls in order
type recorder struct {
	w, h    int
	ops     []op
	flushes int
}

func (r *recorder) Size() (int, int) { return r.w, r.h }

func (r *recorder) Clear(bg color.NRGBA) {
	r.ops = append(r.ops, op{kind: "clear", c: bg})
}

func (r *recorder) StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA) {
	r.ops = append(r.ops, op{kind: "line", r: width, c: c, lineExtent: [4]float64{x0, y0, x1, y1}})
}

func (r *recorder) FillCircle(cx, cy, rad float64, c color.NRGBA) {
	r.ops = append(r.ops, op{kind: "circle", x: cx, y: cy, r: rad, c: c})
}

func (r *recorder) Flush() { r.flushes++ }

func (r *recorder) count(kind string) int {
	n := 0
	for _, o := range r.ops {
		if o.kind == kind {
			n++
		}
	}
	return n
}

type glowRecorder struct {
	recorder
}

func (g *glowRecorder) FillGlow(cx, cy, rad, blur float64, c color.NRGBA) {
	g.ops = append(g.ops, op{kind: "glow", x: cx, y: cy, r: rad, blur: blur, c: c})
}

func fixture() ([]particle.Particle, []connection.Edge) {
	ps := []particle.Particle{
		{Pos: vmath.Vec2F{X: 10, Y: 10}, Radius: 2, Opacity: 1},
		{Pos: vmath.Vec2F{X: 40, Y: 10}, Radius: 1.5, Opacity: 0.5},
		{Pos: vmath.Vec2F{X: 90, Y: 90}, Radius: 1, Opacity: 0.8},
	}
	return ps, connection.BuildEdges(ps, 50, 3)
}

func TestRenderOrder(t *testing.T) {
	ps, edges := fixture()
	require.Len(t, edges, 1)

	rec := &recorder{w: 100, h: 100}
	style := config.DefaultStyle()
	ok := Renderer{}.Render(rec, ps, edges, Options{Style: style})
	require.True(t, ok)

	require.Len(t, rec.ops, 1+1+3)
	assert.Equal(t, "clear", rec.ops[0].kind)
	assert.Equal(t, style.Background.NRGBA(1), rec.ops[0].c)
	assert.Equal(t, "line", rec.ops[1].kind)
	assert.Equal(t, [4]float64{10, 10, 40, 10}, rec.ops[1].lineExtent)
	for _, o := range rec.ops[2:] {
		assert.Equal(t, "circle", o.kind)
	}
	assert.Equal(t, 1, rec.flushes)
}

func TestRenderLineAlphaScalesWithStrength(t *testing.T) {
	ps, edges := fixture()
	rec := &recorder{w: 100, h: 100}
	style := config.DefaultStyle()
	style.LineAlpha = 1

	Renderer{}.Render(rec, ps, edges, Options{Style: style})

	want := style.Line.NRGBA(edges[0].Strength)
	assert.Equal(t, want, rec.ops[1].c)
	assert.InDelta(t, 0.4, edges[0].Strength, 1e-9)
}

func TestRenderParticleOpacity(t *testing.T) {
	ps, edges := fixture()
	rec := &recorder{w: 100, h: 100}
	style := config.DefaultStyle()

	Renderer{}.Render(rec, ps, edges, Options{Style: style})

	circles := rec.ops[2:]
	assert.Equal(t, uint8(255), circles[0].c.A)
	assert.Equal(t, uint8(128), circles[1].c.A)
	assert.Equal(t, 1.5, circles[1].r)
}

func TestRenderZeroAreaSkips(t *testing.T) {
	ps, edges := fixture()
	for _, size := range [][2]int{{0, 0}, {100, 0}, {0, 100}} {
		rec := &recorder{w: size[0], h: size[1]}
		assert.False(t, Renderer{}.Render(rec, ps, edges, Options{Style: config.DefaultStyle()}))
		assert.Empty(t, rec.ops)
		assert.Zero(t, rec.flushes)
	}
}

func TestRenderSkipsMalformedEdges(t *testing.T) {
	ps, _ := fixture()
	edges := []connection.Edge{
		{A: -1, B: 1, Strength: 1},
		{A: 0, B: -2, Strength: 1},
		{A: 3, B: 1, Strength: 1},
		{A: 0, B: 3, Strength: 1},
		{A: 1, B: 1, Strength: 1},
		{A: 0, B: 1, Strength: 1},
	}
	rec := &recorder{w: 100, h: 100}

	require.NotPanics(t, func() {
		Renderer{}.Render(rec, ps, edges, Options{Style: config.DefaultStyle()})
	})
	assert.Equal(t, 1, rec.count("line"), "only the in-range edge is stroked")
}

func TestRenderDoesNotMutateInputs(t *testing.T) {
	ps, edges := fixture()
	psCopy := append([]particle.Particle(nil), ps...)
	edgesCopy := append([]connection.Edge(nil), edges...)

	Renderer{}.Render(&recorder{w: 100, h: 100}, ps, edges, Options{EnableShadows: true, Style: config.DefaultStyle(), Time: 3})
	assert.Equal(t, psCopy, ps)
	assert.Equal(t, edgesCopy, edges)
}

func TestRenderSkipsLinesWhenDisabled(t *testing.T) {
	ps, edges := fixture()
	rec := &recorder{w: 100, h: 100}
	style := config.DefaultStyle()
	style.LineAlpha = 0

	Renderer{}.Render(rec, ps, edges, Options{Style: style})
	assert.Zero(t, rec.count("line"))
	assert.Equal(t, 3, rec.count("circle"))
}

func TestShadowsUseGlowSurface(t *testing.T) {
	ps, edges := fixture()
	rec := &glowRecorder{recorder{w: 100, h: 100}}
	style := config.DefaultStyle()

	Renderer{}.Render(rec, ps, edges, Options{EnableShadows: true, Style: style})
	assert.Equal(t, 3, rec.count("glow"))
	assert.Zero(t, rec.count("circle"))
	for _, o := range rec.ops {
		if o.kind == "glow" {
			assert.Equal(t, style.GlowBlur, o.blur)
		}
	}
}

func TestShadowsFallbackHalo(t *testing.T) {
	ps := []particle.Particle{{Pos: vmath.Vec2F{X: 50, Y: 50}, Radius: 2, Opacity: 1}}
	rec := &recorder{w: 100, h: 100}
	style := config.DefaultStyle()

	Renderer{}.Render(rec, ps, nil, Options{EnableShadows: true, Style: style})

	circles := rec.ops[1:]
	require.Len(t, circles, parameter.GlowHaloRings, "rings minus the empty outermost one, plus the core")
	core := circles[len(circles)-1]
	assert.Equal(t, 2.0, core.r)
	assert.Equal(t, uint8(255), core.c.A)
	for i := 1; i < len(circles); i++ {
		assert.Less(t, circles[i].r, circles[i-1].r, "halo drawn outermost first")
	}
}

func TestShadowsWithoutBlurPaintFlat(t *testing.T) {
	ps, edges := fixture()
	rec := &glowRecorder{recorder{w: 100, h: 100}}
	style := config.DefaultStyle()
	style.GlowBlur = 0

	Renderer{}.Render(rec, ps, edges, Options{EnableShadows: true, Style: style})
	assert.Zero(t, rec.count("glow"))
	assert.Equal(t, 3, rec.count("circle"))
}

func TestOpacityTwinkle(t *testing.T) {
	p := &particle.Particle{Opacity: 0.8, Phase: 0}

	assert.Equal(t, 0.8, Opacity(p, 0, 123))

	// sin(π/2) peaks the wave, dimming by the full amplitude
	assert.InDelta(t, 0.8*(1-0.5), Opacity(p, 0.5, math.Pi/2), 1e-9)
	// sin(-π/2) bottoms the wave, leaving base opacity
	assert.InDelta(t, 0.8, Opacity(p, 0.5, -math.Pi/2), 1e-9)

	for ts := 0.0; ts < 10; ts += 0.1 {
		o := Opacity(p, 1, ts)
		assert.GreaterOrEqual(t, o, 0.0)
		assert.LessOrEqual(t, o, 0.8)
	}
}
