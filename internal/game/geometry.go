package game

import (
	"math"

	"github.com/paulmach/orb"
)

// Obstacle is an axis-aligned box standing on the ground. The footprint is a
// planar bound whose X axis is world X and whose Y axis is world Z.
type Obstacle struct {
	Footprint orb.Bound
	Height    float64
}

func (o Obstacle) min() Vec3 { return Vec3{X: o.Footprint.Min.X(), Y: 0, Z: o.Footprint.Min.Y()} }
func (o Obstacle) max() Vec3 { return Vec3{X: o.Footprint.Max.X(), Y: o.Height, Z: o.Footprint.Max.Y()} }

// Geometry is the static arena: walkable bounds plus obstacles.
type Geometry struct {
	Bounds    orb.Bound
	Obstacles []Obstacle
}

func NewGeometry(bounds orb.Bound, obstacles []Obstacle) *Geometry {
	copied := make([]Obstacle, len(obstacles))
	copy(copied, obstacles)
	for i := range copied {
		if copied[i].Height <= 0 {
			copied[i].Height = ObstacleDefaultH
		}
	}
	return &Geometry{Bounds: bounds, Obstacles: copied}
}

func planar(p Vec3) orb.Point { return orb.Point{p.X, p.Z} }

// Contains reports whether p lies inside the walkable bounds.
func (g *Geometry) Contains(p Vec3) bool {
	return g.Bounds.Contains(planar(p))
}

// Blocked reports whether p stands inside an obstacle footprint.
func (g *Geometry) Blocked(p Vec3) bool {
	pt := planar(p)
	for _, o := range g.Obstacles {
		if o.Footprint.Contains(pt) {
			return true
		}
	}
	return false
}

// ClampToBounds pulls p back inside the walkable bounds.
func (g *Geometry) ClampToBounds(p Vec3) Vec3 {
	p.X = Clamp(p.X, g.Bounds.Min.X(), g.Bounds.Max.X())
	p.Z = Clamp(p.Z, g.Bounds.Min.Y(), g.Bounds.Max.Y())
	return p
}

// SegmentHit finds the first obstacle crossed by the planar segment a->b and
// returns the fraction of the segment travelled before the hit.
func (g *Geometry) SegmentHit(a, b Vec3) (float64, bool) {
	origin := a.Flat()
	dir := b.Flat().Sub(origin)
	best := math.Inf(1)
	for _, o := range g.Obstacles {
		lo, hi := o.min(), o.max()
		lo.Y, hi.Y = math.Inf(-1), math.Inf(1)
		if t, ok := rayBox(origin, dir, lo, hi, 1); ok && t < best {
			best = t
		}
	}
	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}

// Raycast intersects a ray with the obstacle boxes and the ground plane
// inside the bounds. It satisfies WorldRaycaster.
func (g *Geometry) Raycast(ray Ray) (Vec3, bool) {
	dir := ray.Dir.Normalize()
	if dir.Len() == 0 {
		return Vec3{}, false
	}
	best := math.Inf(1)
	for _, o := range g.Obstacles {
		if t, ok := rayBox(ray.Origin, dir, o.min(), o.max(), math.Inf(1)); ok && t < best {
			best = t
		}
	}
	if dir.Y < -1e-9 {
		t := -ray.Origin.Y / dir.Y
		if t >= 0 && t < best && g.Contains(ray.Origin.Add(dir.Scale(t))) {
			best = t
		}
	}
	if math.IsInf(best, 1) {
		return Vec3{}, false
	}
	return ray.Origin.Add(dir.Scale(best)), true
}

// rayBox is the slab test. dir need not be unit length; the returned t is in
// units of dir and limited to [0, maxT].
func rayBox(origin, dir, lo, hi Vec3, maxT float64) (float64, bool) {
	tmin, tmax := 0.0, maxT
	if !slab(origin.X, dir.X, lo.X, hi.X, &tmin, &tmax) {
		return 0, false
	}
	if !slab(origin.Y, dir.Y, lo.Y, hi.Y, &tmin, &tmax) {
		return 0, false
	}
	if !slab(origin.Z, dir.Z, lo.Z, hi.Z, &tmin, &tmax) {
		return 0, false
	}
	return tmin, true
}

func slab(o, d, lo, hi float64, tmin, tmax *float64) bool {
	if math.Abs(d) < 1e-12 {
		return o >= lo && o <= hi
	}
	t1 := (lo - o) / d
	t2 := (hi - o) / d
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 > *tmin {
		*tmin = t1
	}
	if t2 < *tmax {
		*tmax = t2
	}
	return *tmin <= *tmax
}

// SweepHit finds where the segment a->b first meets an obstacle box or the
// ground. The result is the fraction of the segment travelled.
func (g *Geometry) SweepHit(a, b Vec3) (float64, bool) {
	dir := b.Sub(a)
	best := math.Inf(1)
	for _, o := range g.Obstacles {
		if t, ok := rayBox(a, dir, o.min(), o.max(), 1); ok && t < best {
			best = t
		}
	}
	if a.Y >= 0 && b.Y < 0 {
		if t := a.Y / (a.Y - b.Y); t < best {
			best = t
		}
	}
	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}
