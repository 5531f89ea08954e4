package collider

import (
	"github.com/lixenwraith/astro-blast/vmath"
)

// Collider is a 2D geometric primitive used for overlap testing.
// Shapes are defined in entity-local space; Transform produces the
// world-space shape for the current tick. The bounding radius is an
// upper bound on the shape's extent from its center and is used only
// for rejection, never for acceptance.
type Collider interface {
	// Transform translates the shape by position and rotates it by
	// rotation radians, returning the world-space collider
	Transform(position vmath.Vec2, rotation float32) Collider

	// Origin returns the shape's center point
	Origin() vmath.Vec2

	// BoundingRadius returns the shape's rejection radius
	BoundingRadius() float32
}

// Point is a circular collider: a center with an activation radius
type Point struct {
	Center vmath.Vec2
	Radius float32
}

// Transform translates the point; rotation does not affect a circle
func (p Point) Transform(position vmath.Vec2, _ float32) Collider {
	return Point{
		Center: position.Add(p.Center),
		Radius: p.Radius,
	}
}

// Origin returns the point's center
func (p Point) Origin() vmath.Vec2 { return p.Center }

// BoundingRadius returns the point's radius
func (p Point) BoundingRadius() float32 { return p.Radius }

// Triangle is a three-vertex collider with a bounding radius
type Triangle struct {
	Center   vmath.Vec2
	Vertices [3]vmath.Vec2
	Radius   float32
}

// Transform rotates each vertex around the local origin, then translates
func (t Triangle) Transform(position vmath.Vec2, rotation float32) Collider {
	sin, cos := vmath.SinCos(rotation)

	return Triangle{
		Center: position.Add(t.Center),
		Vertices: [3]vmath.Vec2{
			position.Add(t.Vertices[0].Rotate(sin, cos)),
			position.Add(t.Vertices[1].Rotate(sin, cos)),
			position.Add(t.Vertices[2].Rotate(sin, cos)),
		},
		Radius: t.Radius,
	}
}

// Origin returns the triangle's center
func (t Triangle) Origin() vmath.Vec2 { return t.Center }

// BoundingRadius returns the triangle's rejection radius
func (t Triangle) BoundingRadius() float32 { return t.Radius }

// Test reports whether two world-space colliders overlap,
// dispatching on the pair of concrete shapes
func Test(left, right Collider) bool {
	switch l := left.(type) {
	case Point:
		switch r := right.(type) {
		case Point:
			return pointPointTest(l, r)
		case Triangle:
			return trianglePointTest(r, l)
		}
	case Triangle:
		switch r := right.(type) {
		case Point:
			return trianglePointTest(l, r)
		case Triangle:
			return triangleTriangleTest(l, r)
		}
	}
	return false
}

// pointPointTest: centers closer than the sum of radii
func pointPointTest(left, right Point) bool {
	return left.Center.Distance(right.Center) <= left.Radius+right.Radius
}

// trianglePointTest: radius rejection, then exact containment
func trianglePointTest(left Triangle, right Point) bool {
	if left.Center.Distance(right.Center) > left.Radius+right.Radius {
		return false
	}
	return pointInTriangle(right.Center, left.Vertices)
}

// triangleTriangleTest: radius rejection, then vertex containment in
// either direction. Testing both directions detects full containment
// of one triangle inside the other.
func triangleTriangleTest(left, right Triangle) bool {
	if left.Center.Distance(right.Center) > left.Radius+right.Radius {
		return false
	}

	anyInside := func(a, b Triangle) bool {
		for _, v := range a.Vertices {
			if pointInTriangle(v, b.Vertices) {
				return true
			}
		}
		return false
	}

	return anyInside(left, right) || anyInside(right, left)
}

// pointInTriangle classifies a point against a triangle using barycentric
// sign tests. A point is inside iff the three edge determinants do not
// contain both a strictly negative and a strictly positive value, which
// counts points exactly on an edge as inside.
func pointInTriangle(point vmath.Vec2, vertices [3]vmath.Vec2) bool {
	determinant := func(p, v1, v2 vmath.Vec2) float32 {
		return (p.X-v2.X)*(v1.Y-v2.Y) - (p.Y-v2.Y)*(v1.X-v2.X)
	}

	d1 := determinant(point, vertices[0], vertices[1])
	d2 := determinant(point, vertices[1], vertices[2])
	d3 := determinant(point, vertices[2], vertices[0])

	negative := d1 < 0 || d2 < 0 || d3 < 0
	positive := d1 > 0 || d2 > 0 || d3 > 0

	return !(negative && positive)
}
