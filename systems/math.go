package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/vehicles/components"
)

// Normalize returns v scaled to unit length. A zero vector stays zero.
func Normalize(v r2.Vec) r2.Vec {
	l := r2.Norm(v)
	if l == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/l, v)
}

// direction returns the unit vector at angle a.
func direction(a float64) r2.Vec {
	sin, cos := math.Sincos(a)
	return r2.Vec{X: cos, Y: sin}
}

// cross2 is the z component of (b-a) x (c-a).
func cross2(a, b, c r2.Vec) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// PointInTriangle reports whether p lies inside t. Points on an edge or a
// vertex count as inside.
func PointInTriangle(p r2.Vec, t components.Triangle) bool {
	d1 := cross2(t.Apex, t.Left, p)
	d2 := cross2(t.Left, t.Right, p)
	d3 := cross2(t.Right, t.Apex, p)

	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// onSegment assumes p is collinear with a-b.
func onSegment(a, b, p r2.Vec) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}

func orientation(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// SegmentsIntersect reports whether segments a-b and c-d share a point.
// Touching endpoints and collinear overlap count as intersecting.
func SegmentsIntersect(a, b, c, d r2.Vec) bool {
	o1 := orientation(cross2(a, b, c))
	o2 := orientation(cross2(a, b, d))
	o3 := orientation(cross2(c, d, a))
	o4 := orientation(cross2(c, d, b))

	if o1 != o2 && o3 != o4 {
		return true
	}

	switch {
	case o1 == 0 && onSegment(a, b, c):
		return true
	case o2 == 0 && onSegment(a, b, d):
		return true
	case o3 == 0 && onSegment(c, d, a):
		return true
	case o4 == 0 && onSegment(c, d, b):
		return true
	}
	return false
}
