package game

// Agent is an autonomous hostile running the patrol/chase loop. Its position
// and facing belong to the navigator.
type Agent struct {
	ID          EntityID
	Name        string
	ScorePoints int
	Nav         NavAgent
	Health      *HealthTracker
	Patrol      *PatrolRoute
	Weapon      *WeaponUnit
	Target      Target

	state AgentState
}

// NewAgent builds the agent's route and health from cfg. The weapon is built
// by the caller because its muzzle usually hangs off the navigator.
func NewAgent(id EntityID, cfg AgentConfig, nav NavAgent, weapon *WeaponUnit, target Target, onDestroyed func()) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	route, err := NewPatrolRoute(cfg.PatrolWaypoints)
	if err != nil {
		return nil, err
	}
	health, err := NewHealthTracker(cfg.MaxHealth, onDestroyed)
	if err != nil {
		return nil, err
	}
	return &Agent{
		ID:          id,
		Name:        cfg.Name,
		ScorePoints: cfg.ScorePoints,
		Nav:         nav,
		Health:      health,
		Patrol:      route,
		Weapon:      weapon,
		Target:      target,
	}, nil
}

func (a *Agent) State() AgentState { return a.state }

// Start sends the agent toward its first patrol point.
func (a *Agent) Start() {
	a.gotoPatrolPoint()
}

// Tick re-evaluates the state from current geometry and drives the
// navigator and weapon. The decision is level-triggered: nothing carries over
// from the previous tick except the patrol cursor and weapon timers.
func (a *Agent) Tick(now float64) TickReport {
	sight := PerceiveTarget(a.Nav, a.Target)
	report := TickReport{Sight: sight}

	if !sight.Visible || sight.Distance > DetectRange {
		a.state = StatePatrolling
		a.Nav.SetMovementStopped(false)
	} else {
		a.state = StateChasing
		a.Nav.SetDestination(sight.TargetPos)
		a.Nav.SetStoppingDistance(ChaseStoppingDistance)
		a.Nav.LookAt(sight.TargetPos)
		// Inside the hold ring the agent plants and shoots in place.
		a.Nav.SetMovementStopped(sight.Distance < HoldRange)

		if sight.Distance <= EngageRange && a.Weapon != nil {
			if shot, ok := a.Weapon.TryFire(now); ok {
				report.Shot = shot
			}
		}
	}

	if a.state == StatePatrolling && !a.Nav.PathPending() && a.Nav.RemainingDistance() < PatrolRepathDistance {
		report.Advanced = a.gotoPatrolPoint()
	}

	report.State = a.state
	return report
}

func (a *Agent) gotoPatrolPoint() bool {
	a.Nav.SetStoppingDistance(0)
	a.Nav.SetDestination(a.Patrol.CurrentTarget())
	return a.Patrol.AdvanceIfReached(a.Nav.RemainingDistance())
}
