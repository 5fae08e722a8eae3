package math

// Vec4 is a 4-component vector. It doubles as an RGBA color and a homogeneous position.
type Vec4 [4]float32

// White is opaque white.
var White = Vec4{1, 1, 1, 1}

// Add returns v + other.
func (v Vec4) Add(other Vec4) Vec4 {
	return Vec4{v[0] + other[0], v[1] + other[1], v[2] + other[2], v[3] + other[3]}
}

// Mul returns the component-wise product.
func (v Vec4) Mul(other Vec4) Vec4 {
	return Vec4{v[0] * other[0], v[1] * other[1], v[2] * other[2], v[3] * other[3]}
}

// Scale returns v * s.
func (v Vec4) Scale(s float32) Vec4 {
	return Vec4{v[0] * s, v[1] * s, v[2] * s, v[3] * s}
}

// XY returns the first two components.
func (v Vec4) XY() Vec2 {
	return Vec2{v[0], v[1]}
}

// PerspectiveDivide returns xyz/w. A w of zero leaves the components untouched.
func (v Vec4) PerspectiveDivide() [3]float32 {
	if v[3] == 0 || v[3] == 1 {
		return [3]float32{v[0], v[1], v[2]}
	}
	return [3]float32{v[0] / v[3], v[1] / v[3], v[2] / v[3]}
}
