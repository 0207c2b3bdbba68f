// Package cell presents a raster frame on a terminal using half-block cells
// Each cell carries two vertically stacked pixels: the top one as foreground of '▀', the bottom as background
package cell

import (
	"image"
	"image/color"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/particlefield/parameter"
	"github.com/lixenwraith/particlefield/render/raster"
)

// HalfBlock is the upper half block glyph
const HalfBlock = '▀'

// Presenter is a render.Surface that draws into a raster canvas and copies it to the screen on Flush
// Fit may be called from the input goroutine; everything else runs on the frame goroutine
type Presenter struct {
	screen tcell.Screen
	canvas *raster.Canvas
	// scale is raster pixels per half-cell along each axis
	scale int

	mu       sync.Mutex
	pendingW int
	pendingH int
	cols     int
}

// New creates a presenter sized to the screen; scale below 1 is treated as 1
func New(screen tcell.Screen, scale int) *Presenter {
	p := &Presenter{
		screen: screen,
		canvas: raster.New(0, 0),
		scale:  max(scale, 1),
	}
	p.Fit()
	return p
}

// Fit reads the terminal size and schedules the canvas resize for the next frame
// Returns the viewport width used for class resolution and the new pixel extent
func (p *Presenter) Fit() (viewportWidth, w, h int) {
	cols, rows := p.screen.Size()
	cols, rows = max(cols, 0), max(rows, 0)
	w, h = cols*p.scale, rows*2*p.scale

	p.mu.Lock()
	p.pendingW, p.pendingH, p.cols = w, h, cols
	p.mu.Unlock()
	return cols * parameter.CellPixelWidth, w, h
}

// ViewportWidth is the terminal width expressed in nominal CSS pixels
func (p *Presenter) ViewportWidth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cols * parameter.CellPixelWidth
}

func (p *Presenter) Canvas() *raster.Canvas {
	return p.canvas
}

// Size applies any pending resize and reports the canvas extent
func (p *Presenter) Size() (int, int) {
	p.mu.Lock()
	w, h := p.pendingW, p.pendingH
	p.mu.Unlock()
	p.canvas.Resize(w, h)
	return p.canvas.Size()
}

func (p *Presenter) Clear(bg color.NRGBA) {
	p.canvas.Clear(bg)
}

func (p *Presenter) StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA) {
	p.canvas.StrokeLine(x0, y0, x1, y1, width, c)
}

func (p *Presenter) FillCircle(cx, cy, r float64, c color.NRGBA) {
	p.canvas.FillCircle(cx, cy, r, c)
}

func (p *Presenter) FillGlow(cx, cy, r, blur float64, c color.NRGBA) {
	p.canvas.FillGlow(cx, cy, r, blur, c)
}

// Flush downsamples the canvas into half-block cells and shows the screen
func (p *Presenter) Flush() {
	img := p.canvas.Image()
	b := img.Bounds()
	s := p.scale
	cols, rows := b.Dx()/s, b.Dy()/(2*s)

	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			top := average(img, cx*s, cy*2*s, s)
			bottom := average(img, cx*s, (cy*2+1)*s, s)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			p.screen.SetContent(cx, cy, HalfBlock, nil, style)
		}
	}
	p.screen.Show()
}

// average box-filters an s×s block with top-left (x0,y0)
func average(img *image.RGBA, x0, y0, s int) color.RGBA {
	if s == 1 {
		return img.RGBAAt(x0, y0)
	}
	var r, g, b, a int
	for y := y0; y < y0+s; y++ {
		for x := x0; x < x0+s; x++ {
			c := img.RGBAAt(x, y)
			r += int(c.R)
			g += int(c.G)
			b += int(c.B)
			a += int(c.A)
		}
	}
	n := s * s
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: uint8(a / n)}
}
