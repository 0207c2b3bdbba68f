// Package window presents the field in a desktop window through ebiten
package window

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Surface is an offscreen ebiten image the renderer paints into
// Only touch it from the ebiten game loop; glow falls back to halo rings
type Surface struct {
	img  *ebiten.Image
	w, h int
}

// Resize reallocates the offscreen image, a no-op when the size is unchanged
func (s *Surface) Resize(w, h int) {
	if w == s.w && h == s.h {
		return
	}
	if s.img != nil {
		s.img.Deallocate()
		s.img = nil
	}
	s.w, s.h = w, h
	if w > 0 && h > 0 {
		s.img = ebiten.NewImage(w, h)
	}
}

func (s *Surface) Size() (int, int) {
	return s.w, s.h
}

// Image returns the current frame, nil before the first non-empty layout
func (s *Surface) Image() *ebiten.Image {
	return s.img
}

func (s *Surface) Clear(bg color.NRGBA) {
	if s.img == nil {
		return
	}
	s.img.Fill(bg)
}

func (s *Surface) StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA) {
	if s.img == nil {
		return
	}
	vector.StrokeLine(s.img, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), c, true)
}

func (s *Surface) FillCircle(cx, cy, r float64, c color.NRGBA) {
	if s.img == nil || r <= 0 {
		return
	}
	vector.DrawFilledCircle(s.img, float32(cx), float32(cy), float32(r), c, true)
}
