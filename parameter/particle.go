package parameter

// Particle Kinematics
// Speeds are per axis in pixels per 60 Hz frame, sign is randomized at spawn
const (
	// ParticleMinSpeed is the minimum absolute per-axis speed at spawn
	ParticleMinSpeed = 0.05

	// ParticleMaxSpeed is the maximum absolute per-axis speed at spawn
	ParticleMaxSpeed = 0.5
)

// Particle Appearance
const (
	// ParticleMinRadius/MaxRadius bound the fixed per-particle dot radius (px)
	ParticleMinRadius = 0.8
	ParticleMaxRadius = 2.4

	// ParticleMinOpacity/MaxOpacity bound the fixed per-particle base opacity
	ParticleMinOpacity = 0.3
	ParticleMaxOpacity = 0.85
)

// Connections
const (
	// DefaultConnectionFrequency matches hero usage
	DefaultConnectionFrequency = 3.0

	// ConnectionWindowScale is the number of forward neighbors examined per unit of frequency
	ConnectionWindowScale = 4.0

	// DefaultMaxDistance is the connection threshold (px), inclusive
	DefaultMaxDistance = 110.0
)

// Rendering
const (
	// DefaultLineAlpha is the stroke alpha of a full-strength (zero distance) connection
	DefaultLineAlpha = 0.35

	// DefaultLineWidth is the connection stroke width (px)
	DefaultLineWidth = 1.0

	// DefaultGlowBlur is the glow halo extent beyond the dot radius (px)
	DefaultGlowBlur = 6.0

	// GlowHaloRings is the ring count of the fallback glow on surfaces without native blur
	GlowHaloRings = 4

	// GlowHaloAlpha is the alpha of the innermost fallback halo ring, relative to the dot
	GlowHaloAlpha = 0.18
)

// Raster glow falloff
const (
	// GlowFalloffPeak is the halo alpha just outside the core, fading quadratically to 0 at core+blur
	GlowFalloffPeak = 0.55
)
