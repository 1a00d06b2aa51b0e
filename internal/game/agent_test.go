package game

import (
	"math"
	"testing"
)

// fakeNav is a navigator that never moves on its own. Tests place it and the
// target directly.
type fakeNav struct {
	tr        Transform
	dest      Vec3
	hasDest   bool
	stopping  float64
	stopped   bool
	pending   bool
	blocked   bool
	unknown   bool
	destCalls int
}

func (f *fakeNav) SetDestination(p Vec3) {
	f.dest = p
	f.hasDest = true
	f.destCalls++
}
func (f *fakeNav) SetStoppingDistance(d float64) { f.stopping = d }
func (f *fakeNav) SetMovementStopped(s bool)     { f.stopped = s }
func (f *fakeNav) PathPending() bool             { return f.pending }
func (f *fakeNav) Transform() Transform          { return f.tr }
func (f *fakeNav) LookAt(p Vec3) {
	if dir := p.Sub(f.tr.Pos).Flat().Normalize(); dir.Len() > 0 {
		f.tr.Forward = dir
	}
}

func (f *fakeNav) RemainingDistance() float64 {
	if !f.hasDest {
		return 0
	}
	return f.dest.Sub(f.tr.Pos).Flat().Len()
}

func (f *fakeNav) Raycast(target Vec3) (SightHit, bool) {
	if f.unknown {
		return SightHit{}, false
	}
	d := target.Sub(f.tr.Pos).Flat().Len()
	return SightHit{Blocked: f.blocked, Distance: d, HitPoint: target}, true
}

func (f *fakeNav) MuzzleTransform() Transform {
	return Transform{Pos: f.tr.Pos.Add(Vec3{Y: 1}), Forward: f.tr.Forward}
}

func staticTarget(p Vec3) Target {
	return TargetFunc(func() (Vec3, bool) { return p, true })
}

func newTestAgent(t *testing.T, nav *fakeNav, target Target, wcfg WeaponConfig, waypoints []Vec3) *Agent {
	t.Helper()
	weapon, err := NewAgentWeapon(wcfg, 1, nav, testPool(t))
	if err != nil {
		t.Fatalf("NewAgentWeapon: %v", err)
	}
	cfg := AgentConfig{Name: "sentry", MaxHealth: 30, PatrolWaypoints: waypoints}
	agent, err := NewAgent(1, cfg, nav, weapon, target, nil)
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	return agent
}

var farRoute = []Vec3{{X: -20}, {X: -30}}

// A visible target six units away is chased and shot every full cooldown:
// four shots at t=0,1,2,3 over 3.5 seconds of 0.1 s ticks.
func TestAgentChaseAndFireCadence(t *testing.T) {
	nav := &fakeNav{tr: Transform{Forward: Vec3{Z: 1}}}
	cfg := DefaultWeaponConfig()
	cfg.MaxAmmo = 5
	cfg.FireCooldownSeconds = 1
	target := Vec3{X: 6}
	agent := newTestAgent(t, nav, staticTarget(target), cfg, farRoute)

	var shots []float64
	for k := 0; k <= 35; k++ {
		now := float64(k) * Dt
		report := agent.Tick(now)
		if report.State != StateChasing {
			t.Fatalf("tick %d: expected chasing, got %s", k, report.State)
		}
		if report.Shot != nil {
			shots = append(shots, now)
		}
	}
	if len(shots) != 4 {
		t.Fatalf("expected 4 shots, got %d at %v", len(shots), shots)
	}
	for i, at := range shots {
		if math.Abs(at-float64(i)) > 1e-9 {
			t.Fatalf("shot %d at %v, want %d", i, at, i)
		}
	}
	if agent.Weapon.Ammo().Current != 1 {
		t.Fatalf("expected 1 round left, got %d", agent.Weapon.Ammo().Current)
	}
	if nav.dest != target || nav.stopping != ChaseStoppingDistance {
		t.Fatalf("chase should target the player with the chase buffer, dest=%+v stopping=%v", nav.dest, nav.stopping)
	}
	if nav.stopped {
		t.Fatalf("agent outside the hold ring should keep moving")
	}
	if nav.tr.Forward != (Vec3{X: 1}) {
		t.Fatalf("agent should face the target, forward=%+v", nav.tr.Forward)
	}
}

// State and firing follow the perceived distance on every tick.
func TestAgentDistanceBands(t *testing.T) {
	cases := []struct {
		name     string
		distance float64
		blocked  bool
		state    AgentState
		fires    bool
		stopped  bool
	}{
		{"beyond detection", 12, false, StatePatrolling, false, false},
		{"detection edge", DetectRange, false, StateChasing, false, false},
		{"chase only", 8, false, StateChasing, false, false},
		{"engage edge", EngageRange, false, StateChasing, true, false},
		{"engage", 6, false, StateChasing, true, false},
		{"hold edge", HoldRange, false, StateChasing, true, false},
		{"hold", 4, false, StateChasing, true, true},
		{"point blank", 0.5, false, StateChasing, true, true},
		{"blocked", 4, true, StatePatrolling, false, false},
	}
	for _, tc := range cases {
		nav := &fakeNav{tr: Transform{Forward: Vec3{Z: 1}}, blocked: tc.blocked}
		agent := newTestAgent(t, nav, staticTarget(Vec3{Z: tc.distance}), DefaultWeaponConfig(), farRoute)
		agent.Start()
		report := agent.Tick(0)
		if report.State != tc.state {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.state, report.State)
		}
		if (report.Shot != nil) != tc.fires {
			t.Errorf("%s: fired=%v, want %v", tc.name, report.Shot != nil, tc.fires)
		}
		if nav.stopped != tc.stopped {
			t.Errorf("%s: stopped=%v, want %v", tc.name, nav.stopped, tc.stopped)
		}
	}
}

// A missing target or an unresolvable ray reads as not perceived.
func TestAgentTargetUnavailable(t *testing.T) {
	gone := TargetFunc(func() (Vec3, bool) { return Vec3{}, false })
	nav := &fakeNav{tr: Transform{Forward: Vec3{Z: 1}}}
	agent := newTestAgent(t, nav, gone, DefaultWeaponConfig(), farRoute)
	r := agent.Tick(0)
	if r.State != StatePatrolling || r.Shot != nil {
		t.Fatalf("missing target should patrol without firing, got %+v", r)
	}
	if !math.IsInf(r.Sight.Distance, 1) {
		t.Fatalf("expected infinite distance for a missing target, got %v", r.Sight.Distance)
	}

	nav = &fakeNav{tr: Transform{Forward: Vec3{Z: 1}}, unknown: true}
	agent = newTestAgent(t, nav, staticTarget(Vec3{Z: 2}), DefaultWeaponConfig(), farRoute)
	if r = agent.Tick(0); r.State != StatePatrolling || r.Shot != nil {
		t.Fatalf("unresolved ray should patrol without firing, got %+v", r)
	}
}

// Losing the target drops the agent straight back to patrolling with movement
// resumed.
func TestAgentReturnsToPatrol(t *testing.T) {
	pos := Vec3{Z: 3}
	target := TargetFunc(func() (Vec3, bool) { return pos, true })
	nav := &fakeNav{tr: Transform{Forward: Vec3{Z: 1}}}
	agent := newTestAgent(t, nav, target, DefaultWeaponConfig(), farRoute)
	agent.Start()

	agent.Tick(0)
	if !nav.stopped || agent.State() != StateChasing {
		t.Fatalf("expected a planted chasing agent, stopped=%v state=%s", nav.stopped, agent.State())
	}
	pos = Vec3{Z: 50}
	agent.Tick(0.1)
	if nav.stopped || agent.State() != StatePatrolling {
		t.Fatalf("expected patrolling with movement resumed, stopped=%v state=%s", nav.stopped, agent.State())
	}
}

// Patrolling walks the route in order and wraps around.
func TestAgentPatrolCycle(t *testing.T) {
	route := []Vec3{{X: 0}, {X: 10}, {X: 20}}
	nav := &fakeNav{tr: Transform{Forward: Vec3{Z: 1}}}
	far := staticTarget(Vec3{Z: 100})
	agent := newTestAgent(t, nav, far, DefaultWeaponConfig(), route)

	// Spawned on the first point, so starting consumes it.
	agent.Start()
	if agent.Patrol.Cursor() != 1 {
		t.Fatalf("expected cursor 1 after start, got %d", agent.Patrol.Cursor())
	}

	agent.Tick(0)
	if nav.dest != route[1] {
		t.Fatalf("expected destination %+v, got %+v", route[1], nav.dest)
	}
	if agent.Patrol.Cursor() != 1 {
		t.Fatalf("cursor moved before arrival: %d", agent.Patrol.Cursor())
	}

	// Far from the destination nothing is reissued.
	calls := nav.destCalls
	agent.Tick(0.1)
	if nav.destCalls != calls {
		t.Fatalf("destination reissued while travelling")
	}

	// Each arrival takes two ticks: one to advance the cursor, one to head
	// for the new waypoint.
	type step struct {
		cursor int
		dest   Vec3
	}
	var got []step
	for i := 0; i < 3; i++ {
		nav.tr.Pos = nav.dest
		agent.Tick(0.2)
		agent.Tick(0.3)
		got = append(got, step{agent.Patrol.Cursor(), nav.dest})
	}
	want := []step{{2, route[2]}, {0, route[0]}, {1, route[1]}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("patrol sequence %+v, want %+v", got, want)
		}
	}
}

// A pending path suppresses the patrol repath.
func TestAgentPatrolWaitsForPath(t *testing.T) {
	route := []Vec3{{X: 0}, {X: 10}}
	nav := &fakeNav{tr: Transform{Forward: Vec3{Z: 1}}}
	agent := newTestAgent(t, nav, staticTarget(Vec3{Z: 100}), DefaultWeaponConfig(), route)
	agent.Start()
	nav.dest = Vec3{}
	nav.pending = true
	calls := nav.destCalls
	agent.Tick(0)
	if nav.destCalls != calls {
		t.Fatalf("destination set while a path was pending")
	}
}
