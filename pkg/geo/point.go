package geo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Point3D is a point in the local Cartesian frame of a site.
// X points east, Y points north and Z is up (elevation in meters).
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Pt is a shorthand constructor for Point3D.
func Pt(x, y, z float64) Point3D {
	return Point3D{X: x, Y: y, Z: z}
}

// FromVec converts an mgl64 vector to a point.
func FromVec(v mgl64.Vec3) Point3D {
	return Point3D{v[0], v[1], v[2]}
}

// Vec returns p as an mgl64 vector.
func (p Point3D) Vec() mgl64.Vec3 {
	return mgl64.Vec3{p.X, p.Y, p.Z}
}

// Add returns p + q.
func (p Point3D) Add(q Point3D) Point3D {
	return Point3D{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

// Sub returns p - q.
func (p Point3D) Sub(q Point3D) Point3D {
	return Point3D{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Scale returns p * s.
func (p Point3D) Scale(s float64) Point3D {
	return Point3D{p.X * s, p.Y * s, p.Z * s}
}

// Length returns the Euclidean length of the vector.
func (p Point3D) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// PlanarLength returns the length of the vector projected onto the XY plane.
func (p Point3D) PlanarLength() float64 {
	return math.Hypot(p.X, p.Y)
}

// Normalize returns the unit vector in the same direction.
// Returns zero vector if length is zero.
func (p Point3D) Normalize() Point3D {
	l := p.Length()
	if l < 1e-12 {
		return Point3D{}
	}
	return p.Scale(1 / l)
}

// WithLength returns the vector rescaled to length l.
// Returns zero vector if p has no direction.
func (p Point3D) WithLength(l float64) Point3D {
	return p.Normalize().Scale(l)
}

// Dot returns the dot product of p and q.
func (p Point3D) Dot(q Point3D) float64 {
	return p.X*q.X + p.Y*q.Y + p.Z*q.Z
}

// Cross returns the cross product p × q.
func (p Point3D) Cross(q Point3D) Point3D {
	return FromVec(p.Vec().Cross(q.Vec()))
}

// Distance returns the Euclidean distance from p to q.
func (p Point3D) Distance(q Point3D) float64 {
	return p.Sub(q).Length()
}

// Lerp returns the linear interpolation between p and q at t in [0,1].
func (p Point3D) Lerp(q Point3D, t float64) Point3D {
	return p.Add(q.Sub(p).Scale(t))
}

// WithZ returns p with its Z component replaced.
func (p Point3D) WithZ(z float64) Point3D {
	p.Z = z
	return p
}

// distanceToSegment returns the distance from p to the segment ab.
func distanceToSegment(p, a, b Point3D) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq < 1e-24 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.Distance(a.Lerp(b, t))
}

// CombinedPoint returns a point from all lying within tol of p, or appends p
// to all and returns it unchanged. Used to merge near-coincident vertices
// produced by adjacent ring segments.
func CombinedPoint(p Point3D, all *[]Point3D, tol float64) Point3D {
	for _, q := range *all {
		if p.Distance(q) <= tol {
			return q
		}
	}
	*all = append(*all, p)
	return p
}
