package parameter

import "time"

// Frame Loop & Timing
const (
	// FrameRate is the reference rate velocities are expressed against (pixels per frame)
	FrameRate = 60

	// FrameUpdateInterval is the default frame scheduling interval (~60 FPS)
	// Integer division truncates it to 16666666ns, so one interval is slightly under one frame unit
	FrameUpdateInterval = time.Second / FrameRate

	// MaxFrameDelta caps a single step in frame units, equivalent to 3 dropped frames
	// Keeps a backgrounded tab or debugger pause from teleporting particles on resume
	MaxFrameDelta = 3.0

	// FPSSmoothing is the EMA weight of the newest frame in the fps gauge
	FPSSmoothing = 0.1
)

// Viewport Breakpoints
const (
	// BreakpointSmall is the viewport width (px) below which the small cap applies
	BreakpointSmall = 480

	// BreakpointMedium is the viewport width (px) below which the medium cap applies
	BreakpointMedium = 768

	// SmallViewportMaxParticles caps particle count on phone-class viewports
	SmallViewportMaxParticles = 60

	// MediumViewportMaxParticles caps particle count on tablet-class viewports
	MediumViewportMaxParticles = 120
)

// Particle Count Limits
const (
	// DefaultParticleCount is the count requested by hero sections
	DefaultParticleCount = 250

	// MaxParticles bounds worst-case per-frame cost regardless of request
	MaxParticles = 500
)

// Terminal Mapping
const (
	// CellPixelWidth converts terminal columns into viewport pixels for breakpoint selection
	CellPixelWidth = 8
)
