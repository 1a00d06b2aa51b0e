package game

import "math"

type Vec3 struct{ X, Y, Z float64 }

func (a Vec3) Add(b Vec3) Vec3      { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3      { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Dot(b Vec3) float64   { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vec3) Len() float64         { return math.Sqrt(a.Dot(a)) }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

// Flat drops the vertical component; navigation happens on the XZ plane.
func (a Vec3) Flat() Vec3 { return Vec3{X: a.X, Z: a.Z} }

// Normalize returns the unit vector along a, or the zero vector for tiny inputs.
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l <= 1e-9 {
		return Vec3{}
	}
	return a.Scale(1.0 / l)
}

// Transform is a position plus a facing. Orientation is carried as a unit
// forward vector; full rotations are not needed by the simulation.
type Transform struct {
	Pos     Vec3
	Forward Vec3
}

// Ray is an origin and a unit direction.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

func (r Ray) PointAt(d float64) Vec3 { return r.Origin.Add(r.Dir.Scale(d)) }

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
