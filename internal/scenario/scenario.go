package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"

	"SentryArena/internal/game"
)

// Point is a ground position; z is the planar depth axis.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Z float64 `yaml:"z" json:"z"`
}

func (p Point) vec() game.Vec3 { return game.Vec3{X: p.X, Z: p.Z} }

type Rect struct {
	Min Point `yaml:"min" json:"min"`
	Max Point `yaml:"max" json:"max"`
}

func (r Rect) bound() orb.Bound {
	return orb.Bound{Min: orb.Point{r.Min.X, r.Min.Z}, Max: orb.Point{r.Max.X, r.Max.Z}}
}

type ObstacleSpec struct {
	Min    Point   `yaml:"min" json:"min"`
	Max    Point   `yaml:"max" json:"max"`
	Height float64 `yaml:"height,omitempty" json:"height,omitempty" jsonschema:"description=Box height; defaults to 3"`
}

// WeaponSpec overrides individual fields of the default weapon. Unset fields
// keep their defaults.
type WeaponSpec struct {
	MaxAmmo             *int     `yaml:"maxAmmo,omitempty" json:"maxAmmo,omitempty"`
	InfiniteAmmo        *bool    `yaml:"infiniteAmmo,omitempty" json:"infiniteAmmo,omitempty"`
	MuzzleSpeed         *float64 `yaml:"muzzleSpeed,omitempty" json:"muzzleSpeed,omitempty"`
	FireCooldownSeconds *float64 `yaml:"fireCooldownSeconds,omitempty" json:"fireCooldownSeconds,omitempty"`
	DamagePerHit        *int     `yaml:"damagePerHit,omitempty" json:"damagePerHit,omitempty"`
}

func (w *WeaponSpec) merge(base game.WeaponConfig) game.WeaponConfig {
	if w == nil {
		return base
	}
	if w.MaxAmmo != nil {
		base.MaxAmmo = *w.MaxAmmo
	}
	if w.InfiniteAmmo != nil {
		base.InfiniteAmmo = *w.InfiniteAmmo
	}
	if w.MuzzleSpeed != nil {
		base.MuzzleSpeed = *w.MuzzleSpeed
	}
	if w.FireCooldownSeconds != nil {
		base.FireCooldownSeconds = *w.FireCooldownSeconds
	}
	if w.DamagePerHit != nil {
		base.DamagePerHit = *w.DamagePerHit
	}
	return base
}

type PlayerSpec struct {
	Spawn     Point       `yaml:"spawn" json:"spawn"`
	MaxHealth int         `yaml:"maxHealth,omitempty" json:"maxHealth,omitempty"`
	Weapon    *WeaponSpec `yaml:"weapon,omitempty" json:"weapon,omitempty"`
}

// AgentSpec describes one sentry. Either waypoints or a layout route name
// must be given; the spawn defaults to the first waypoint.
type AgentSpec struct {
	Name        string      `yaml:"name" json:"name"`
	MaxHealth   int         `yaml:"maxHealth" json:"maxHealth"`
	ScorePoints int         `yaml:"scorePoints,omitempty" json:"scorePoints,omitempty"`
	Speed       float64     `yaml:"speed,omitempty" json:"speed,omitempty"`
	Spawn       *Point      `yaml:"spawn,omitempty" json:"spawn,omitempty"`
	Waypoints   []Point     `yaml:"waypoints,omitempty" json:"waypoints,omitempty"`
	Route       string      `yaml:"route,omitempty" json:"route,omitempty" jsonschema:"description=Name of a LineString route in the layout file"`
	Weapon      *WeaponSpec `yaml:"weapon,omitempty" json:"weapon,omitempty"`
}

type PoolSpec struct {
	Agent  int  `yaml:"agent,omitempty" json:"agent,omitempty"`
	Player int  `yaml:"player,omitempty" json:"player,omitempty"`
	Shared bool `yaml:"shared,omitempty" json:"shared,omitempty"`
}

// Scenario is the on-disk description of an arena and its occupants.
type Scenario struct {
	Name               string         `yaml:"name" json:"name"`
	Arena              Rect           `yaml:"arena" json:"arena"`
	Layout             string         `yaml:"layout,omitempty" json:"layout,omitempty" jsonschema:"description=GeoJSON FeatureCollection with obstacle polygons and route linestrings"`
	Obstacles          []ObstacleSpec `yaml:"obstacles,omitempty" json:"obstacles,omitempty"`
	Pools              PoolSpec       `yaml:"pools,omitempty" json:"pools,omitempty"`
	ProjectileLifetime float64        `yaml:"projectileLifetime,omitempty" json:"projectileLifetime,omitempty"`
	AgentWeapon        *WeaponSpec    `yaml:"agentWeapon,omitempty" json:"agentWeapon,omitempty"`
	Player             *PlayerSpec    `yaml:"player,omitempty" json:"player,omitempty"`
	Agents             []AgentSpec    `yaml:"agents" json:"agents"`

	routes map[string][]Point
}

var ErrUnknownRoute = errors.New("unknown patrol route")

// Load reads a YAML scenario. A relative layout path is resolved against the
// scenario file's directory.
func Load(path string) (*Scenario, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read scenario %q: %w", cleanPath, err)
	}
	s, err := Parse(data, filepath.Dir(cleanPath))
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", cleanPath, err)
	}
	return s, nil
}

// Parse decodes a scenario document. dir anchors a relative layout path.
func Parse(data []byte, dir string) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if s.Layout != "" {
		path := s.Layout
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		layout, err := LoadLayout(path)
		if err != nil {
			return nil, err
		}
		s.applyLayout(layout)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) applyLayout(l *Layout) {
	s.Obstacles = append(s.Obstacles, l.Obstacles...)
	if s.routes == nil {
		s.routes = make(map[string][]Point, len(l.Routes))
	}
	for name, pts := range l.Routes {
		s.routes[name] = pts
	}
}

func (s *Scenario) waypoints(a AgentSpec) ([]Point, error) {
	if len(a.Waypoints) > 0 {
		return a.Waypoints, nil
	}
	if a.Route == "" {
		return nil, game.ErrEmptyPatrolRoute
	}
	pts, ok := s.routes[a.Route]
	if !ok {
		return nil, fmt.Errorf("%q: %w", a.Route, ErrUnknownRoute)
	}
	return pts, nil
}

func (s *Scenario) agentConfig(a AgentSpec) (game.AgentConfig, error) {
	pts, err := s.waypoints(a)
	if err != nil {
		return game.AgentConfig{}, err
	}
	cfg := game.AgentConfig{
		Name:        a.Name,
		MaxHealth:   a.MaxHealth,
		ScorePoints: a.ScorePoints,
		Speed:       a.Speed,
	}
	for _, p := range pts {
		cfg.PatrolWaypoints = append(cfg.PatrolWaypoints, p.vec())
	}
	if a.Spawn != nil {
		cfg.Spawn = a.Spawn.vec()
	} else if len(cfg.PatrolWaypoints) > 0 {
		cfg.Spawn = cfg.PatrolWaypoints[0]
	}
	return cfg, nil
}

func (s *Scenario) agentWeapon(a AgentSpec) game.WeaponConfig {
	return a.Weapon.merge(s.AgentWeapon.merge(game.DefaultWeaponConfig()))
}

func (s *Scenario) playerConfig() game.PlayerConfig {
	cfg := game.DefaultPlayerConfig()
	cfg.Spawn = s.Player.Spawn.vec()
	if s.Player.MaxHealth > 0 {
		cfg.MaxHealth = s.Player.MaxHealth
	}
	cfg.Weapon = s.Player.Weapon.merge(cfg.Weapon)
	return cfg
}

// Validate checks everything that would otherwise fail while building the
// arena, so a bad file is rejected before any entity exists.
func (s *Scenario) Validate() error {
	b := s.Arena.bound()
	if !(b.Max.X() > b.Min.X() && b.Max.Y() > b.Min.Y()) {
		return fmt.Errorf("arena %+v is empty", s.Arena)
	}
	if s.Pools.Agent < 0 || s.Pools.Player < 0 {
		return fmt.Errorf("pools: %w", game.ErrInvalidPoolSize)
	}
	for i, o := range s.Obstacles {
		if !(o.Max.X > o.Min.X && o.Max.Z > o.Min.Z) {
			return fmt.Errorf("obstacle %d is empty", i)
		}
	}
	if s.Player != nil {
		if !b.Contains(orb.Point{s.Player.Spawn.X, s.Player.Spawn.Z}) {
			return fmt.Errorf("player spawn %+v outside arena", s.Player.Spawn)
		}
		if err := s.playerConfig().Weapon.Validate(); err != nil {
			return fmt.Errorf("player weapon: %w", err)
		}
	}
	seen := make(map[string]bool, len(s.Agents))
	for i, a := range s.Agents {
		if a.Name == "" {
			return fmt.Errorf("agent %d has no name", i)
		}
		if seen[a.Name] {
			return fmt.Errorf("agent %q defined twice", a.Name)
		}
		seen[a.Name] = true
		cfg, err := s.agentConfig(a)
		if err != nil {
			return fmt.Errorf("agent %q: %w", a.Name, err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if !b.Contains(orb.Point{cfg.Spawn.X, cfg.Spawn.Z}) {
			return fmt.Errorf("agent %q spawn %+v outside arena", a.Name, cfg.Spawn)
		}
		if err := s.agentWeapon(a).Validate(); err != nil {
			return fmt.Errorf("agent %q weapon: %w", a.Name, err)
		}
	}
	return nil
}

func (s *Scenario) ArenaConfig() game.ArenaConfig {
	cfg := game.DefaultArenaConfig()
	cfg.Bounds = s.Arena.bound()
	for _, o := range s.Obstacles {
		cfg.Obstacles = append(cfg.Obstacles, game.Obstacle{
			Footprint: orb.Bound{Min: orb.Point{o.Min.X, o.Min.Z}, Max: orb.Point{o.Max.X, o.Max.Z}},
			Height:    o.Height,
		})
	}
	if s.Pools.Agent > 0 {
		cfg.AgentPool.InitialInstanceCount = s.Pools.Agent
	}
	if s.Pools.Player > 0 {
		cfg.PlayerPool.InitialInstanceCount = s.Pools.Player
	}
	cfg.SharedPool = s.Pools.Shared
	if s.ProjectileLifetime > 0 {
		cfg.ProjectileLifetime = s.ProjectileLifetime
	}
	return cfg
}

// Build creates the arena and spawns the player and every agent.
func (s *Scenario) Build(logger *log.Logger) (*game.Arena, error) {
	if logger == nil {
		logger = log.Default()
	}
	arena, err := game.NewArena(s.ArenaConfig(), logger)
	if err != nil {
		return nil, err
	}
	if s.Player != nil {
		if _, err := arena.SpawnPlayer(s.playerConfig()); err != nil {
			return nil, err
		}
	}
	for _, a := range s.Agents {
		cfg, err := s.agentConfig(a)
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", a.Name, err)
		}
		if _, err := arena.SpawnAgent(cfg, s.agentWeapon(a)); err != nil {
			return nil, err
		}
	}
	logger.Info("scenario built", "name", s.Name, "agents", len(s.Agents), "obstacles", len(s.Obstacles))
	return arena, nil
}

func intPtr(v int) *int { return &v }

// Default is the built-in arena used when no scenario file is given: three
// sentries walking loops around two pillars.
func Default() *Scenario {
	return &Scenario{
		Name:  "default",
		Arena: Rect{Max: Point{X: game.ArenaDefaultW, Z: game.ArenaDefaultD}},
		Obstacles: []ObstacleSpec{
			{Min: Point{X: 18, Z: 16}, Max: Point{X: 22, Z: 24}},
			{Min: Point{X: 38, Z: 16}, Max: Point{X: 42, Z: 24}},
		},
		Pools:       PoolSpec{Agent: game.DefaultPoolSize, Player: game.DefaultPoolSize},
		AgentWeapon: &WeaponSpec{MaxAmmo: intPtr(12)},
		Player:      &PlayerSpec{Spawn: Point{X: 30, Z: 4}},
		Agents: []AgentSpec{
			{
				Name: "west", MaxHealth: 30, ScorePoints: 100,
				Waypoints: []Point{{X: 12, Z: 10}, {X: 12, Z: 30}, {X: 28, Z: 30}, {X: 28, Z: 10}},
			},
			{
				Name: "east", MaxHealth: 30, ScorePoints: 100,
				Waypoints: []Point{{X: 48, Z: 10}, {X: 48, Z: 30}, {X: 32, Z: 30}, {X: 32, Z: 10}},
			},
			{
				Name: "north", MaxHealth: 50, ScorePoints: 250,
				Waypoints: []Point{{X: 10, Z: 36}, {X: 50, Z: 36}},
				Weapon:    &WeaponSpec{FireCooldownSeconds: floatPtr(0.5)},
			},
		},
	}
}

func floatPtr(v float64) *float64 { return &v }
