package pose

import "math"

// Undefined is returned by angle functions when the angle cannot be computed.
var Undefined = math.NaN()

// minMagnitude is the vector length below which an angle is undefined.
const minMagnitude = 1e-6

// Point is a 2D point. Units are either normalized or pixels depending on
// where it came from.
type Point struct {
	X float64
	Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Norm returns the vector length of p.
func (p Point) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

// Midpoint returns the point halfway between p and q.
func Midpoint(p, q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v float64) bool {
	return math.IsNaN(v)
}

// AngleAt returns the angle abc in degrees, measured at vertex b between
// the rays b->a and b->c. The result is in [0,180], or Undefined if either
// ray is shorter than 1e-6.
func AngleAt(a, b, c Point) float64 {
	ba := a.Sub(b)
	bc := c.Sub(b)
	na, nc := ba.Norm(), bc.Norm()
	if na < minMagnitude || nc < minMagnitude {
		return Undefined
	}

	cos := (ba.X*bc.X + ba.Y*bc.Y) / (na * nc)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// VectorAngle returns the angle between free vectors u and v in degrees.
// It returns 0 when either vector has zero length.
func VectorAngle(u, v Point) float64 {
	denom := u.Norm() * v.Norm()
	if denom == 0 {
		return 0
	}
	cos := (u.X*v.X + u.Y*v.Y) / denom
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return a.Sub(b).Norm()
}
