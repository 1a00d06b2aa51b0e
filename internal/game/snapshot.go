package game

import "github.com/paulmach/orb"

type AgentView struct {
	ID        EntityID
	Name      string
	Pos       Vec3
	Forward   Vec3
	State     AgentState
	Health    int
	MaxHealth int
	Ammo      AmmoState
	Waypoint  int
}

type PlayerView struct {
	ID        EntityID
	Pos       Vec3
	Forward   Vec3
	Health    int
	MaxHealth int
	Ammo      AmmoState
}

type ProjectileView struct {
	ID        string
	Pos       Vec3
	Vel       Vec3
	OwnerKind OwnerKind
}

type PoolSizes struct {
	AgentSize    int
	AgentActive  int
	PlayerSize   int
	PlayerActive int
}

// Snapshot is a read-only copy of the arena for transports and viewers.
type Snapshot struct {
	Tick        uint64
	Now         float64
	Bounds      orb.Bound
	Obstacles   []Obstacle
	Agents      []AgentView
	Player      *PlayerView
	Projectiles []ProjectileView
	Score       int
	Pools       PoolSizes
}

func (a *Arena) PoolSizes() PoolSizes {
	ap, pp := a.pools[OwnerAgent], a.pools[OwnerPlayer]
	return PoolSizes{
		AgentSize:    ap.Size(),
		AgentActive:  ap.ActiveCount(),
		PlayerSize:   pp.Size(),
		PlayerActive: pp.ActiveCount(),
	}
}

func (a *Arena) ammo(id EntityID) AmmoState {
	if w := a.World.Weapon(id); w != nil {
		return w.Ammo()
	}
	return AmmoState{}
}

func (a *Arena) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:      a.ticks,
		Now:       a.now,
		Bounds:    a.Geometry.Bounds,
		Obstacles: append([]Obstacle(nil), a.Geometry.Obstacles...),
		Score:     a.Score,
		Pools:     a.PoolSizes(),
	}
	for _, agent := range a.Agents() {
		tr := agent.Nav.Transform()
		snap.Agents = append(snap.Agents, AgentView{
			ID:        agent.ID,
			Name:      agent.Name,
			Pos:       tr.Pos,
			Forward:   tr.Forward,
			State:     agent.State(),
			Health:    agent.Health.Current(),
			MaxHealth: agent.Health.Max(),
			Ammo:      a.ammo(agent.ID),
			Waypoint:  agent.Patrol.Cursor(),
		})
	}
	if p := a.Player(); p != nil {
		snap.Player = &PlayerView{
			ID:        p.ID,
			Pos:       p.Transform.Pos,
			Forward:   p.Transform.Forward,
			Health:    p.Health.Current(),
			MaxHealth: p.Health.Max(),
			Ammo:      a.ammo(p.ID),
		}
	}
	for _, pool := range a.poolList {
		pool.ForEachActive(func(_ PoolHandle, p *Projectile) {
			snap.Projectiles = append(snap.Projectiles, ProjectileView{
				ID:        p.ID.String(),
				Pos:       p.Pos,
				Vel:       p.Vel,
				OwnerKind: p.OwnerKind,
			})
		})
	}
	return snap
}
