package vmath

import "math"

// Vec2F is a float64 2D vector for surface-space geometry
// Positions are in surface pixels, velocities in pixels per 60 Hz frame
type Vec2F struct {
	X, Y float64
}

func V2FAdd(a, b Vec2F) Vec2F {
	return Vec2F{a.X + b.X, a.Y + b.Y}
}

func V2FSub(a, b Vec2F) Vec2F {
	return Vec2F{a.X - b.X, a.Y - b.Y}
}

func V2FScale(v Vec2F, s float64) Vec2F {
	return Vec2F{v.X * s, v.Y * s}
}

func V2FMagSq(v Vec2F) float64 {
	return v.X*v.X + v.Y*v.Y
}

func V2FMag(v Vec2F) float64 {
	return math.Sqrt(V2FMagSq(v))
}

// V2FDistSq returns squared Euclidean distance, use for threshold tests to skip the sqrt
func V2FDistSq(a, b Vec2F) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// V2FDist returns Euclidean distance between two points
func V2FDist(a, b Vec2F) float64 {
	return math.Sqrt(V2FDistSq(a, b))
}

// ReflectAxisX returns velocity reflected off a vertical wall (X axis boundary)
func ReflectAxisX(v Vec2F) Vec2F {
	return Vec2F{-v.X, v.Y}
}

// ReflectAxisY returns velocity reflected off a horizontal wall (Y axis boundary)
func ReflectAxisY(v Vec2F) Vec2F {
	return Vec2F{v.X, -v.Y}
}
