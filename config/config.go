package config

import (
	"math"

	"github.com/lixenwraith/particlefield/parameter"
	"github.com/lixenwraith/particlefield/vmath"
)

// EngineConfig is the caller-owned engine input
// The engine copies it and re-reads only on Reconfigure
type EngineConfig struct {
	// ParticleCount is the requested count, the resolver may lower it per viewport class
	ParticleCount int `yaml:"particle_count"`

	// EnableShadows selects the glow paint path
	EnableShadows bool `yaml:"enable_shadows"`

	// ConnectionFrequency scales the forward neighbor window of the connection builder, 0 disables lines
	ConnectionFrequency float64 `yaml:"connection_frequency"`

	// MaxDistance is the inclusive connection threshold (px)
	MaxDistance float64 `yaml:"max_distance"`

	// Seed fixes the spawn sequence, 0 seeds from the clock
	Seed uint64 `yaml:"seed"`

	Style Style `yaml:"style"`
}

// Style holds render-only design tokens
type Style struct {
	Background Color   `yaml:"background"`
	Particle   Color   `yaml:"particle"`
	Line       Color   `yaml:"line"`
	LineAlpha  float64 `yaml:"line_alpha"`
	LineWidth  float64 `yaml:"line_width"`
	GlowBlur   float64 `yaml:"glow_blur"`
	// Twinkle is the opacity modulation depth in [0,1], 0 keeps opacity fixed
	Twinkle float64 `yaml:"twinkle"`
}

// DefaultStyle mirrors the site's dark theme tokens
func DefaultStyle() Style {
	return Style{
		Background: MustHex("#0b1020"),
		Particle:   MustHex("#7dd3fc"),
		Line:       MustHex("#60a5fa"),
		LineAlpha:  parameter.DefaultLineAlpha,
		LineWidth:  parameter.DefaultLineWidth,
		GlowBlur:   parameter.DefaultGlowBlur,
	}
}

// DefaultConfig returns the hero section configuration
func DefaultConfig() EngineConfig {
	return EngineConfig{
		ParticleCount:       parameter.DefaultParticleCount,
		EnableShadows:       false,
		ConnectionFrequency: parameter.DefaultConnectionFrequency,
		MaxDistance:         parameter.DefaultMaxDistance,
		Style:               DefaultStyle(),
	}
}

// Normalize clamps cfg into valid bounds
// The returned config is always usable; the error lists what was clamped
func Normalize(cfg EngineConfig) (EngineConfig, error) {
	cerr := &ConfigurationError{}

	switch {
	case cfg.ParticleCount < 0:
		cerr.add("particle_count", cfg.ParticleCount, "must be non-negative")
		cfg.ParticleCount = 0
	case cfg.ParticleCount > parameter.MaxParticles:
		cerr.add("particle_count", cfg.ParticleCount, "exceeds maximum, clamped")
		cfg.ParticleCount = parameter.MaxParticles
	}

	switch {
	case math.IsNaN(cfg.ConnectionFrequency) || math.IsInf(cfg.ConnectionFrequency, 0):
		cerr.add("connection_frequency", cfg.ConnectionFrequency, "must be finite")
		cfg.ConnectionFrequency = 0
	case cfg.ConnectionFrequency < 0:
		cerr.add("connection_frequency", cfg.ConnectionFrequency, "must be non-negative")
		cfg.ConnectionFrequency = 0
	}

	if !(cfg.MaxDistance > 0) || math.IsInf(cfg.MaxDistance, 0) {
		cerr.add("max_distance", cfg.MaxDistance, "must be positive and finite")
		cfg.MaxDistance = parameter.DefaultMaxDistance
	}

	st := &cfg.Style
	if st.LineAlpha < 0 || st.LineAlpha > 1 || math.IsNaN(st.LineAlpha) {
		cerr.add("style.line_alpha", st.LineAlpha, "must be in [0,1]")
		st.LineAlpha = vmath.Clamp01(st.LineAlpha)
	}
	if !(st.LineWidth > 0) {
		cerr.add("style.line_width", st.LineWidth, "must be positive")
		st.LineWidth = parameter.DefaultLineWidth
	}
	if st.GlowBlur < 0 || math.IsNaN(st.GlowBlur) {
		cerr.add("style.glow_blur", st.GlowBlur, "must be non-negative")
		st.GlowBlur = 0
	}
	if st.Twinkle < 0 || st.Twinkle > 1 || math.IsNaN(st.Twinkle) {
		cerr.add("style.twinkle", st.Twinkle, "must be in [0,1]")
		st.Twinkle = vmath.Clamp01(st.Twinkle)
	}

	return cfg, cerr.errOrNil()
}
