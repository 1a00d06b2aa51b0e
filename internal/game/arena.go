package game

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"
)

type ArenaConfig struct {
	Bounds             orb.Bound
	Obstacles          []Obstacle
	AgentPool          PoolConfig
	PlayerPool         PoolConfig
	SharedPool         bool // agents and the player draw from one pool
	ProjectileLifetime float64
	JournalCapacity    int
}

func DefaultArenaConfig() ArenaConfig {
	return ArenaConfig{
		Bounds:             orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{ArenaDefaultW, ArenaDefaultD}},
		AgentPool:          PoolConfig{InitialInstanceCount: DefaultPoolSize},
		PlayerPool:         PoolConfig{InitialInstanceCount: DefaultPoolSize},
		ProjectileLifetime: ProjectileLifeS,
		JournalCapacity:    JournalCapacity,
	}
}

// Arena is the single-threaded simulation. Every mutation happens inside
// Tick or one of the player input methods; callers that share an arena
// across goroutines must serialize access themselves.
type Arena struct {
	World    *World
	Geometry *Geometry
	Journal  *Journal
	Score    int

	now      float64
	ticks    uint64
	lifetime float64
	pools    map[OwnerKind]*ProjectilePool
	poolList []*ProjectilePool
	playerID EntityID
	log      *log.Logger
}

func NewArena(cfg ArenaConfig, logger *log.Logger) (*Arena, error) {
	if logger == nil {
		logger = log.Default()
	}
	if !(cfg.Bounds.Max.X() > cfg.Bounds.Min.X() && cfg.Bounds.Max.Y() > cfg.Bounds.Min.Y()) {
		return nil, fmt.Errorf("arena bounds %v are empty", cfg.Bounds)
	}
	if cfg.ProjectileLifetime <= 0 {
		cfg.ProjectileLifetime = ProjectileLifeS
	}
	agentPool, err := NewProjectilePool(cfg.AgentPool)
	if err != nil {
		return nil, fmt.Errorf("agent pool: %w", err)
	}
	playerPool := agentPool
	if !cfg.SharedPool {
		if playerPool, err = NewProjectilePool(cfg.PlayerPool); err != nil {
			return nil, fmt.Errorf("player pool: %w", err)
		}
	}
	a := &Arena{
		World:    NewWorld(),
		Geometry: NewGeometry(cfg.Bounds, cfg.Obstacles),
		Journal:  NewJournal(cfg.JournalCapacity),
		lifetime: cfg.ProjectileLifetime,
		pools:    map[OwnerKind]*ProjectilePool{OwnerAgent: agentPool, OwnerPlayer: playerPool},
		log:      logger,
	}
	a.poolList = append(a.poolList, agentPool)
	if playerPool != agentPool {
		a.poolList = append(a.poolList, playerPool)
	}
	return a, nil
}

func (a *Arena) Now() float64                     { return a.now }
func (a *Arena) Ticks() uint64                    { return a.ticks }
func (a *Arena) Pool(k OwnerKind) *ProjectilePool { return a.pools[k] }

// Tick runs one simulation step at time ticks*Dt. Time is derived from the
// tick counter rather than accumulated so cooldown comparisons stay exact.
func (a *Arena) Tick() {
	a.now = float64(a.ticks) * Dt
	a.updateAgents()
	updateNavigators(a, Dt)
	updateProjectiles(a, Dt)
	a.ticks++
}

func (a *Arena) record(kind EventKind, entity, other EntityID, amount int, detail string) {
	a.Journal.push(Event{
		T:      a.now,
		Tick:   a.ticks,
		Kind:   kind,
		Entity: entity,
		Other:  other,
		Amount: amount,
		Detail: detail,
	})
}

func (a *Arena) SpawnPlayer(cfg PlayerConfig) (EntityID, error) {
	if a.Player() != nil {
		return 0, errors.New("arena already has a player")
	}
	if !a.Geometry.Contains(cfg.Spawn) {
		return 0, fmt.Errorf("player spawn %v outside arena bounds", cfg.Spawn)
	}
	if err := cfg.Weapon.Validate(); err != nil {
		return 0, fmt.Errorf("player weapon: %w", err)
	}
	id := a.World.NewEntity()
	p := &Player{ID: id, Transform: Transform{Pos: cfg.Spawn, Forward: Vec3{Z: 1}}}
	health, err := NewHealthTracker(cfg.MaxHealth, func() { a.destroy(id, "player") })
	if err != nil {
		return 0, fmt.Errorf("player: %w", err)
	}
	weapon, err := NewPlayerWeapon(cfg.Weapon, id, p, a.pools[OwnerPlayer], p, bodyRaycaster{arena: a, self: id})
	if err != nil {
		return 0, fmt.Errorf("player weapon: %w", err)
	}
	p.Health = health
	p.Weapon = weapon
	a.World.SetComponent(id, CompPlayer, p)
	a.World.SetComponent(id, CompHealth, health)
	a.World.SetComponent(id, CompWeapon, weapon)
	a.World.SetComponent(id, CompBody, &Body{Radius: PlayerRadius, Height: PlayerEyeHeight + 0.2})
	a.playerID = id
	a.log.Debug("player spawned", "id", id, "pos", cfg.Spawn)
	return id, nil
}

// SpawnAgent validates the configuration up front; a bad route or weapon is
// a setup error and never reaches the simulation.
func (a *Arena) SpawnAgent(cfg AgentConfig, weaponCfg WeaponConfig) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := weaponCfg.Validate(); err != nil {
		return nil, fmt.Errorf("agent %q weapon: %w", cfg.Name, err)
	}
	if !a.Geometry.Contains(cfg.Spawn) {
		return nil, fmt.Errorf("agent %q spawn %v outside arena bounds", cfg.Name, cfg.Spawn)
	}
	id := a.World.NewEntity()
	nav := NewSteeringAgent(cfg.Spawn, cfg.Speed, a.Geometry)
	weapon, err := NewAgentWeapon(weaponCfg, id, nav, a.pools[OwnerAgent])
	if err != nil {
		return nil, fmt.Errorf("agent %q weapon: %w", cfg.Name, err)
	}
	agent, err := NewAgent(id, cfg, nav, weapon, a.playerTarget(), func() { a.destroy(id, "agent") })
	if err != nil {
		return nil, err
	}
	a.World.SetComponent(id, CompAgent, agent)
	a.World.SetComponent(id, CompNav, nav)
	a.World.SetComponent(id, CompHealth, agent.Health)
	a.World.SetComponent(id, CompWeapon, weapon)
	a.World.SetComponent(id, CompBody, &Body{Radius: AgentRadius, Height: AgentEyeHeight + 0.8})
	agent.Start()
	a.log.Debug("agent spawned", "id", id, "name", cfg.Name, "waypoints", len(cfg.PatrolWaypoints))
	return agent, nil
}

func (a *Arena) playerTarget() Target {
	return TargetFunc(func() (Vec3, bool) {
		p := a.Player()
		if p == nil || p.Health.Destroyed() {
			return Vec3{}, false
		}
		return p.Transform.Pos, true
	})
}

func (a *Arena) destroy(id EntityID, kind string) {
	name := kind
	if agent := a.World.Agent(id); agent != nil && agent.Name != "" {
		name = agent.Name
	}
	a.record(EventDestroyed, id, 0, 0, kind)
	a.World.RemoveEntity(id)
	a.log.Info("destroyed", "kind", kind, "id", id, "name", name, "t", a.now)
}

// Player returns the live player or nil.
func (a *Arena) Player() *Player {
	if a.playerID == 0 {
		return nil
	}
	return a.World.Player(a.playerID)
}

func (a *Arena) Agent(id EntityID) *Agent { return a.World.Agent(id) }

func (a *Arena) Agents() []*Agent {
	ids := a.World.Entities(CompAgent)
	out := make([]*Agent, 0, len(ids))
	for _, id := range ids {
		if agent := a.World.Agent(id); agent != nil {
			out = append(out, agent)
		}
	}
	return out
}

// PlayerFire fires the player's weapon when its gates allow. A nil
// projectile with a nil error means the weapon is cooling down or empty.
func (a *Arena) PlayerFire() (*Projectile, error) {
	p := a.Player()
	if p == nil {
		return nil, ErrNoPlayer
	}
	shot, ok := p.Weapon.TryFire(a.now)
	if !ok {
		return nil, nil
	}
	a.record(EventFired, p.ID, 0, shot.PendingDamage, OwnerPlayer.String())
	return shot, nil
}

// MovePlayer teleports the player, clamped to the bounds. Moves into an
// obstacle are refused.
func (a *Arena) MovePlayer(pos Vec3) error {
	p := a.Player()
	if p == nil {
		return ErrNoPlayer
	}
	pos = a.Geometry.ClampToBounds(pos)
	if a.Geometry.Blocked(pos) {
		return fmt.Errorf("position %v is inside an obstacle", pos)
	}
	p.Transform.Pos = pos
	return nil
}

func (a *Arena) LookPlayer(dir Vec3) error {
	p := a.Player()
	if p == nil {
		return ErrNoPlayer
	}
	if d := dir.Normalize(); d.Len() > 0 {
		p.Transform.Forward = d
	}
	return nil
}

func (a *Arena) ReplenishPlayer(amount int) (int, error) {
	p := a.Player()
	if p == nil {
		return 0, ErrNoPlayer
	}
	return p.Weapon.Replenish(amount), nil
}
