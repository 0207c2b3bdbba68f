package config

import "github.com/lixenwraith/particlefield/parameter"

// ViewportClass is a breakpoint bucket, count resolution only changes across classes
type ViewportClass uint8

const (
	ClassSmall ViewportClass = iota
	ClassMedium
	ClassLarge
)

func (c ViewportClass) String() string {
	switch c {
	case ClassSmall:
		return "small"
	case ClassMedium:
		return "medium"
	default:
		return "large"
	}
}

// ClassOf buckets a viewport width (px)
func ClassOf(width int) ViewportClass {
	switch {
	case width < parameter.BreakpointSmall:
		return ClassSmall
	case width < parameter.BreakpointMedium:
		return ClassMedium
	default:
		return ClassLarge
	}
}

// Cap returns the particle ceiling for the class
func (c ViewportClass) Cap() int {
	switch c {
	case ClassSmall:
		return parameter.SmallViewportMaxParticles
	case ClassMedium:
		return parameter.MediumViewportMaxParticles
	default:
		return parameter.MaxParticles
	}
}

// Resolve returns the effective particle count for a viewport width and requested count
// Requests are clamped to [0, MaxParticles] before the class cap applies
func Resolve(viewportWidth, requested int) int {
	if requested < 0 {
		requested = 0
	}
	if requested > parameter.MaxParticles {
		requested = parameter.MaxParticles
	}
	return min(requested, ClassOf(viewportWidth).Cap())
}
