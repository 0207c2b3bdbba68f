package render

import "image/color"

// Surface is the 2D drawing target the renderer paints into
// Coordinates are pixels with the origin at the top-left
type Surface interface {
	Size() (w, h int)
	Clear(bg color.NRGBA)
	StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA)
	FillCircle(cx, cy, r float64, c color.NRGBA)
}

// GlowSurface is optionally implemented by surfaces with a native soft-shadow fill
// FillGlow paints the core disc of radius r plus a halo fading out over blur pixels
type GlowSurface interface {
	FillGlow(cx, cy, r, blur float64, c color.NRGBA)
}

// Flusher is optionally implemented by surfaces that present a finished frame
type Flusher interface {
	Flush()
}
