package game

import (
	"fmt"
	"math"
)

// OwnerKind selects how a weapon aims.
type OwnerKind int

const (
	OwnerAgent OwnerKind = iota
	OwnerPlayer
)

func (k OwnerKind) String() string {
	if k == OwnerPlayer {
		return "player"
	}
	return "agent"
}

// Muzzle reports where shots leave the barrel. It is read on every shot
// because the barrel moves with its owner.
type Muzzle interface {
	MuzzleTransform() Transform
}

// ViewRayProvider yields the ray through the center of the player's view.
type ViewRayProvider interface {
	ViewCenterRay() Ray
}

// WorldRaycaster intersects a ray with world geometry over an unbounded range.
type WorldRaycaster interface {
	Raycast(ray Ray) (Vec3, bool)
}

type WeaponConfig struct {
	MaxAmmo             int
	InfiniteAmmo        bool
	MuzzleSpeed         float64
	FireCooldownSeconds float64
	DamagePerHit        int
}

func (c WeaponConfig) Validate() error {
	if !(c.FireCooldownSeconds > 0) {
		return fmt.Errorf("cooldown %.3f: %w", c.FireCooldownSeconds, ErrInvalidCooldown)
	}
	if !c.InfiniteAmmo && c.MaxAmmo <= 0 {
		return fmt.Errorf("max ammo %d: %w", c.MaxAmmo, ErrInvalidAmmo)
	}
	if !(c.MuzzleSpeed > 0) {
		return fmt.Errorf("muzzle speed %.3f: %w", c.MuzzleSpeed, ErrInvalidMuzzleSpeed)
	}
	if c.DamagePerHit < 0 {
		return fmt.Errorf("damage %d: %w", c.DamagePerHit, ErrInvalidDamage)
	}
	return nil
}

func DefaultWeaponConfig() WeaponConfig {
	return WeaponConfig{
		MaxAmmo:             30,
		MuzzleSpeed:         20,
		FireCooldownSeconds: 1.0,
		DamagePerHit:        10,
	}
}

type AmmoState struct {
	Current  int
	Max      int
	Infinite bool
}

// WeaponUnit is the firing authority of one owner.
//
// Fire trusts its precondition: it never re-checks the gates. Every call site
// goes through TryFire, which is CanFire followed by Fire.
type WeaponUnit struct {
	owner       OwnerKind
	ownerID     EntityID
	cooldown    float64
	lastFiredAt float64
	ammo        AmmoState
	damage      int
	muzzleSpeed float64
	muzzle      Muzzle
	pool        *ProjectilePool
	view        ViewRayProvider
	world       WorldRaycaster
}

func newWeapon(cfg WeaponConfig, kind OwnerKind, ownerID EntityID, muzzle Muzzle, pool *ProjectilePool) (*WeaponUnit, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if muzzle == nil || pool == nil {
		return nil, fmt.Errorf("%s weapon needs a muzzle and a projectile pool", kind)
	}
	return &WeaponUnit{
		owner:       kind,
		ownerID:     ownerID,
		cooldown:    cfg.FireCooldownSeconds,
		lastFiredAt: math.Inf(-1),
		ammo:        AmmoState{Current: cfg.MaxAmmo, Max: cfg.MaxAmmo, Infinite: cfg.InfiniteAmmo},
		damage:      cfg.DamagePerHit,
		muzzleSpeed: cfg.MuzzleSpeed,
		muzzle:      muzzle,
		pool:        pool,
	}, nil
}

// NewAgentWeapon builds a weapon that fires straight down its barrel.
func NewAgentWeapon(cfg WeaponConfig, ownerID EntityID, muzzle Muzzle, pool *ProjectilePool) (*WeaponUnit, error) {
	return newWeapon(cfg, OwnerAgent, ownerID, muzzle, pool)
}

// NewPlayerWeapon builds a weapon that converges on whatever the view center
// points at. world may be nil, in which case the fallback aim point is used.
func NewPlayerWeapon(cfg WeaponConfig, ownerID EntityID, muzzle Muzzle, pool *ProjectilePool, view ViewRayProvider, world WorldRaycaster) (*WeaponUnit, error) {
	if view == nil {
		return nil, fmt.Errorf("player weapon needs a view ray provider")
	}
	w, err := newWeapon(cfg, OwnerPlayer, ownerID, muzzle, pool)
	if err != nil {
		return nil, err
	}
	w.view = view
	w.world = world
	return w, nil
}

func (w *WeaponUnit) Owner() OwnerKind     { return w.owner }
func (w *WeaponUnit) Ammo() AmmoState      { return w.ammo }
func (w *WeaponUnit) LastFiredAt() float64 { return w.lastFiredAt }
func (w *WeaponUnit) Cooldown() float64    { return w.cooldown }

// CanFire reports whether both the cooldown and the ammo gate pass at now.
func (w *WeaponUnit) CanFire(now float64) bool {
	if now-w.lastFiredAt < w.cooldown {
		return false
	}
	return w.ammo.Infinite || w.ammo.Current > 0
}

// Fire launches one projectile. The caller must have checked CanFire.
func (w *WeaponUnit) Fire(now float64) *Projectile {
	w.lastFiredAt = now
	if !w.ammo.Infinite && w.ammo.Current > 0 {
		w.ammo.Current--
	}

	_, p := w.pool.Acquire()
	muzzle := w.muzzle.MuzzleTransform()
	p.Pos = muzzle.Pos
	p.Forward = muzzle.Forward
	p.PendingDamage = w.damage
	p.Owner = w.ownerID
	p.OwnerKind = w.owner
	p.LaunchedAt = now

	if w.owner == OwnerPlayer {
		p.Vel = w.playerAim(muzzle.Pos).Scale(w.muzzleSpeed)
	} else {
		p.Vel = muzzle.Forward.Normalize().Scale(w.muzzleSpeed)
	}
	return p
}

// TryFire fires when the gates allow it and returns the launched projectile.
func (w *WeaponUnit) TryFire(now float64) (*Projectile, bool) {
	if !w.CanFire(now) {
		return nil, false
	}
	return w.Fire(now), true
}

func (w *WeaponUnit) playerAim(from Vec3) Vec3 {
	ray := w.view.ViewCenterRay()
	aim := ray.PointAt(PlayerAimFallback)
	if w.world != nil {
		if hit, ok := w.world.Raycast(ray); ok {
			aim = hit
		}
	}
	dir := aim.Sub(from).Normalize()
	if dir.Len() == 0 {
		dir = ray.Dir.Normalize()
	}
	return dir
}

// Replenish adds ammo up to the magazine size. No policy calls it on its own;
// it is the hook for pickups and reloads.
func (w *WeaponUnit) Replenish(amount int) int {
	if w.ammo.Infinite || amount <= 0 {
		return 0
	}
	before := w.ammo.Current
	w.ammo.Current = clampInt(before+amount, 0, w.ammo.Max)
	return w.ammo.Current - before
}
