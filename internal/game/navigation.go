package game

// SteeringAgent is the reference navigator: it walks straight toward its
// destination on the XZ plane and answers line-of-sight queries against the
// arena geometry. It does not plan around obstacles; routes are expected to
// be laid out on open ground.
type SteeringAgent struct {
	tr       Transform
	dest     Vec3
	hasDest  bool
	stopping float64
	stopped  bool
	pending  bool
	speed    float64
	eye      float64
	geo      *Geometry
}

func NewSteeringAgent(spawn Vec3, speed float64, geo *Geometry) *SteeringAgent {
	if speed <= 0 {
		speed = AgentSpeed
	}
	return &SteeringAgent{
		tr:    Transform{Pos: spawn, Forward: Vec3{Z: 1}},
		speed: speed,
		eye:   AgentEyeHeight,
		geo:   geo,
	}
}

// SetDestination marks the path as pending until the next Step, mirroring a
// navigator that resolves paths between frames.
func (n *SteeringAgent) SetDestination(p Vec3) {
	n.dest = p
	n.hasDest = true
	n.pending = true
}

func (n *SteeringAgent) SetStoppingDistance(d float64) { n.stopping = d }
func (n *SteeringAgent) SetMovementStopped(s bool)     { n.stopped = s }
func (n *SteeringAgent) PathPending() bool             { return n.pending }
func (n *SteeringAgent) Transform() Transform          { return n.tr }
func (n *SteeringAgent) Destination() (Vec3, bool)     { return n.dest, n.hasDest }

func (n *SteeringAgent) RemainingDistance() float64 {
	if !n.hasDest {
		return 0
	}
	return n.dest.Flat().Sub(n.tr.Pos.Flat()).Len()
}

func (n *SteeringAgent) LookAt(p Vec3) {
	if dir := p.Flat().Sub(n.tr.Pos.Flat()).Normalize(); dir.Len() > 0 {
		n.tr.Forward = dir
	}
}

// Raycast checks the planar segment from the agent to target. Targets
// outside the walkable bounds cannot be resolved.
func (n *SteeringAgent) Raycast(target Vec3) (SightHit, bool) {
	if n.geo == nil {
		d := target.Flat().Sub(n.tr.Pos.Flat()).Len()
		return SightHit{Distance: d, HitPoint: target}, true
	}
	if !n.geo.Contains(target) || !n.geo.Contains(n.tr.Pos) {
		return SightHit{}, false
	}
	from := n.tr.Pos
	seg := target.Flat().Sub(from.Flat())
	if t, blocked := n.geo.SegmentHit(from, target); blocked {
		hit := from.Flat().Add(seg.Scale(t))
		hit.Y = from.Y + n.eye
		return SightHit{Blocked: true, Distance: seg.Len() * t, HitPoint: hit}, true
	}
	return SightHit{Distance: seg.Len(), HitPoint: target}, true
}

// Step advances the agent by dt seconds.
func (n *SteeringAgent) Step(dt float64) {
	n.pending = false
	if !n.hasDest || n.stopped {
		return
	}
	to := n.dest.Flat().Sub(n.tr.Pos.Flat())
	dist := to.Len()
	// Settle just inside the stopping ring so a finished approach reads as
	// arrived to callers comparing RemainingDistance against the same ring.
	stop := n.stopping
	if stop > 0 {
		stop -= 2 * navArrivalEpsilon
	}
	travel := dist - stop
	if travel <= navArrivalEpsilon {
		return
	}
	step := n.speed * dt
	if step > travel {
		step = travel
	}
	dir := to.Scale(1.0 / dist)
	next := n.tr.Pos.Add(dir.Scale(step))
	if n.geo != nil {
		next = n.geo.ClampToBounds(next)
		if n.geo.Blocked(next) {
			return
		}
	}
	n.tr.Pos = next
	n.tr.Forward = dir
}

// MuzzleTransform puts the barrel at eye height just ahead of the agent.
func (n *SteeringAgent) MuzzleTransform() Transform {
	fwd := n.tr.Forward.Normalize()
	pos := n.tr.Pos.Add(Vec3{Y: n.eye}).Add(fwd.Scale(MuzzleForward))
	return Transform{Pos: pos, Forward: fwd}
}
