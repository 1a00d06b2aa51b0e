package game

import "math"

// Sighting is what an agent perceives of its target on one tick.
type Sighting struct {
	Visible   bool
	Distance  float64
	HitPoint  Vec3
	TargetPos Vec3
}

// PerceiveTarget runs the line-of-sight query toward the target's current
// position. Anything that prevents an answer counts as not perceived, with an
// infinite distance.
func PerceiveTarget(nav NavAgent, target Target) Sighting {
	unseen := Sighting{Distance: math.Inf(1)}
	if nav == nil || target == nil {
		return unseen
	}
	pos, ok := target.Position()
	if !ok {
		return unseen
	}
	hit, ok := nav.Raycast(pos)
	if !ok || math.IsNaN(hit.Distance) {
		return unseen
	}
	return Sighting{
		Visible:   !hit.Blocked,
		Distance:  hit.Distance,
		HitPoint:  hit.HitPoint,
		TargetPos: pos,
	}
}
