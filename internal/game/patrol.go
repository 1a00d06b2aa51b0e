package game

// PatrolRoute is a fixed cyclic list of waypoints. Only the owning agent's
// control loop moves the cursor.
type PatrolRoute struct {
	waypoints []Vec3
	cursor    int
}

func NewPatrolRoute(waypoints []Vec3) (*PatrolRoute, error) {
	if len(waypoints) == 0 {
		return nil, ErrEmptyPatrolRoute
	}
	copied := make([]Vec3, len(waypoints))
	copy(copied, waypoints)
	return &PatrolRoute{waypoints: copied}, nil
}

func (r *PatrolRoute) CurrentTarget() Vec3 { return r.waypoints[r.cursor] }

// AdvanceIfReached moves to the next waypoint, wrapping to the first, once the
// remaining distance is within WaypointReachedDistance.
func (r *PatrolRoute) AdvanceIfReached(remaining float64) bool {
	if remaining > WaypointReachedDistance {
		return false
	}
	r.cursor = (r.cursor + 1) % len(r.waypoints)
	return true
}

func (r *PatrolRoute) Cursor() int { return r.cursor }
func (r *PatrolRoute) Len() int    { return len(r.waypoints) }

func (r *PatrolRoute) Waypoints() []Vec3 {
	return append([]Vec3(nil), r.waypoints...)
}
