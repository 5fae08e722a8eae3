// Package math provides the small vector and matrix types used by the tile pipeline.
package math

import "math"

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float32
}

// Splat returns a Vec2 with both components set to s.
func Splat(s float32) Vec2 {
	return Vec2{s, s}
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Mul returns the component-wise product.
func (v Vec2) Mul(other Vec2) Vec2 {
	return Vec2{v.X * other.X, v.Y * other.Y}
}

// Div returns the component-wise quotient. A zero divisor follows IEEE rules.
func (v Vec2) Div(other Vec2) Vec2 {
	return Vec2{v.X / other.X, v.Y / other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// OneMinusX returns (1-x, y).
func (v Vec2) OneMinusX() Vec2 {
	return Vec2{1 - v.X, v.Y}
}

// OneMinusY returns (x, 1-y).
func (v Vec2) OneMinusY() Vec2 {
	return Vec2{v.X, 1 - v.Y}
}

// Array returns the components as an array, handy for YAML and GL uniforms.
func (v Vec2) Array() [2]float32 {
	return [2]float32{v.X, v.Y}
}

// V2 builds a Vec2 from a two element array.
func V2(a [2]float32) Vec2 {
	return Vec2{a[0], a[1]}
}
