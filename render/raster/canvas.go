// Package raster is an in-memory RGBA drawing surface
// Shapes are rasterized with anti-aliasing by golang.org/x/image/vector
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"

	"github.com/lixenwraith/particlefield/parameter"
	"github.com/lixenwraith/particlefield/vmath"
)

// kappa places cubic control points for a quarter-circle approximation
const kappa = 0.5522847498

// Canvas implements render.Surface and render.GlowSurface over an *image.RGBA
// Not safe for concurrent use
type Canvas struct {
	img *image.RGBA
	z   *vector.Rasterizer
}

func New(w, h int) *Canvas {
	w, h = max(w, 0), max(h, 0)
	return &Canvas{
		img: image.NewRGBA(image.Rect(0, 0, w, h)),
		z:   vector.NewRasterizer(0, 0),
	}
}

// Resize reallocates the backing image when the size changes, contents are discarded
func (c *Canvas) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	if cw, ch := c.Size(); cw == w && ch == h {
		return
	}
	c.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *Canvas) Image() *image.RGBA {
	return c.img
}

func (c *Canvas) At(x, y int) color.RGBA {
	return c.img.RGBAAt(x, y)
}

func (c *Canvas) Clear(bg color.NRGBA) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
}

func (c *Canvas) FillCircle(cx, cy, r float64, col color.NRGBA) {
	if !(r > 0) {
		return
	}
	box := boundsAround(cx, cy, r)
	c.fill(box, col, func(z *vector.Rasterizer, ox, oy float64) {
		circlePath(z, cx-ox, cy-oy, r)
	})
}

func (c *Canvas) StrokeLine(x0, y0, x1, y1, width float64, col color.NRGBA) {
	if !(width > 0) {
		return
	}
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l == 0 {
		c.FillCircle(x0, y0, width/2, col)
		return
	}
	hw := width / 2
	nx, ny := -dy/l*hw, dx/l*hw

	pts := [4][2]float64{
		{x0 + nx, y0 + ny},
		{x1 + nx, y1 + ny},
		{x1 - nx, y1 - ny},
		{x0 - nx, y0 - ny},
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	box := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))

	c.fill(box, col, func(z *vector.Rasterizer, ox, oy float64) {
		z.MoveTo(float32(pts[0][0]-ox), float32(pts[0][1]-oy))
		for _, p := range pts[1:] {
			z.LineTo(float32(p[0]-ox), float32(p[1]-oy))
		}
		z.ClosePath()
	})
}

// FillGlow composites a quadratic radial halo over the existing pixels, then fills the core
// The halo is blended source-over in premultiplied space, so translucent backgrounds stay valid
func (c *Canvas) FillGlow(cx, cy, r, blur float64, col color.NRGBA) {
	if blur > 0 && col.A > 0 {
		outer := r + blur
		box := boundsAround(cx, cy, outer).Intersect(c.img.Bounds())
		peak := float64(col.A) / 255 * parameter.GlowFalloffPeak

		for y := box.Min.Y; y < box.Max.Y; y++ {
			for x := box.Min.X; x < box.Max.X; x++ {
				d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
				if d <= r || d >= outer {
					continue
				}
				t := 1 - (d-r)/blur
				a := peak * t * t
				dst := c.img.RGBAAt(x, y)
				c.img.SetRGBA(x, y, color.RGBA{
					R: over(col.R, dst.R, a),
					G: over(col.G, dst.G, a),
					B: over(col.B, dst.B, a),
					A: over(255, dst.A, a),
				})
			}
		}
	}
	c.FillCircle(cx, cy, r, col)
}

// over is one premultiplied source-over channel for a straight source value at alpha a
func over(src, dst uint8, a float64) uint8 {
	v := float64(src)*a + float64(dst)*(1-a)
	return uint8(vmath.Clamp(v, 0, 255) + 0.5)
}

// WritePNG encodes the current frame
func (c *Canvas) WritePNG(w io.Writer) error {
	if err := png.Encode(w, c.img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// fill rasterizes path into box clipped to the canvas
// path coordinates are relative to the clipped box origin
func (c *Canvas) fill(box image.Rectangle, col color.NRGBA, path func(z *vector.Rasterizer, ox, oy float64)) {
	box = box.Intersect(c.img.Bounds())
	if box.Empty() || col.A == 0 {
		return
	}
	c.z.Reset(box.Dx(), box.Dy())
	c.z.DrawOp = draw.Over
	path(c.z, float64(box.Min.X), float64(box.Min.Y))
	c.z.Draw(c.img, box, image.NewUniform(col), image.Point{})
}

func circlePath(z *vector.Rasterizer, cx, cy, r float64) {
	k := kappa * r
	f := func(v float64) float32 { return float32(v) }
	z.MoveTo(f(cx+r), f(cy))
	z.CubeTo(f(cx+r), f(cy+k), f(cx+k), f(cy+r), f(cx), f(cy+r))
	z.CubeTo(f(cx-k), f(cy+r), f(cx-r), f(cy+k), f(cx-r), f(cy))
	z.CubeTo(f(cx-r), f(cy-k), f(cx-k), f(cy-r), f(cx), f(cy-r))
	z.CubeTo(f(cx+k), f(cy-r), f(cx+r), f(cy-k), f(cx+r), f(cy))
	z.ClosePath()
}

func boundsAround(cx, cy, r float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(cx-r)), int(math.Floor(cy-r)),
		int(math.Ceil(cx+r)), int(math.Ceil(cy+r)),
	)
}
