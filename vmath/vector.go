package vmath

import "math"

// Vec2 is a 2D vector in single precision world units
type Vec2 struct {
	X, Y float32
}

// Right is the unit vector along the positive X axis
var Right = Vec2{X: 1, Y: 0}

// V is a shorthand constructor for Vec2
func V(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by scalar s
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Length returns the Euclidean magnitude of v
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X)*float64(v.X) + float64(v.Y)*float64(v.Y)))
}

// Distance returns the Euclidean distance between v and o
func (v Vec2) Distance(o Vec2) float32 {
	return v.Sub(o).Length()
}

// Dot returns the dot product of v and o
func (v Vec2) Dot(o Vec2) float32 {
	return v.X*o.X + v.Y*o.Y
}

// Rotate rotates v counter-clockwise by a precomputed sin/cos pair
func (v Vec2) Rotate(sin, cos float32) Vec2 {
	return Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// RotateBy rotates v counter-clockwise by angle radians.
// The angle is converted to a sin/cos pair immediately before use;
// no rotation matrices are kept anywhere.
func (v Vec2) RotateBy(angle float32) Vec2 {
	sin, cos := SinCos(angle)
	return v.Rotate(sin, cos)
}

// SinCos returns the sine and cosine of angle radians in single precision
func SinCos(angle float32) (sin, cos float32) {
	s, c := math.Sincos(float64(angle))
	return float32(s), float32(c)
}
