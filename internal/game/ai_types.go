package game

import "fmt"

// NavAgent is the locomotion collaborator an agent drives. Perception only
// ever sets a destination, a stopping buffer and the stop flag; paths are the
// navigator's business.
type NavAgent interface {
	SetDestination(p Vec3)
	SetStoppingDistance(d float64)
	SetMovementStopped(stopped bool)
	RemainingDistance() float64
	PathPending() bool
	// Raycast tests line of sight toward target. ok is false when the query
	// cannot be resolved, for example a target off the walkable area.
	Raycast(target Vec3) (hit SightHit, ok bool)
	LookAt(p Vec3)
	Transform() Transform
}

// SightHit is the result of a line-of-sight query.
type SightHit struct {
	Blocked  bool
	Distance float64
	HitPoint Vec3
}

// Target is the tracked entity. A missing or destroyed target reports false.
type Target interface {
	Position() (Vec3, bool)
}

// TargetFunc adapts a function to Target.
type TargetFunc func() (Vec3, bool)

func (f TargetFunc) Position() (Vec3, bool) { return f() }

type AgentState int

const (
	StatePatrolling AgentState = iota
	StateChasing
)

func (s AgentState) String() string {
	switch s {
	case StatePatrolling:
		return "patrolling"
	case StateChasing:
		return "chasing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type AgentConfig struct {
	Name            string
	MaxHealth       int
	ScorePoints     int
	PatrolWaypoints []Vec3
	Spawn           Vec3
	Speed           float64
}

func (c AgentConfig) Validate() error {
	if c.MaxHealth <= 0 {
		return fmt.Errorf("agent %q max health %d: %w", c.Name, c.MaxHealth, ErrInvalidHealth)
	}
	if len(c.PatrolWaypoints) == 0 {
		return fmt.Errorf("agent %q: %w", c.Name, ErrEmptyPatrolRoute)
	}
	return nil
}

// TickReport describes what one control step decided.
type TickReport struct {
	State    AgentState
	Sight    Sighting
	Shot     *Projectile
	Advanced bool
}
