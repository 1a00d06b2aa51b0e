package game

import (
	"errors"
	"math"
	"testing"
)

type fixedMuzzle Transform

func (m fixedMuzzle) MuzzleTransform() Transform { return Transform(m) }

type fixedView Ray

func (v fixedView) ViewCenterRay() Ray { return Ray(v) }

type fixedWorld struct {
	hit Vec3
	ok  bool
}

func (w fixedWorld) Raycast(Ray) (Vec3, bool) { return w.hit, w.ok }

func testPool(t *testing.T) *ProjectilePool {
	t.Helper()
	pool, err := NewProjectilePool(PoolConfig{InitialInstanceCount: 2})
	if err != nil {
		t.Fatalf("NewProjectilePool: %v", err)
	}
	return pool
}

func newTestAgentWeapon(t *testing.T, cfg WeaponConfig) *WeaponUnit {
	t.Helper()
	muzzle := fixedMuzzle{Pos: Vec3{Y: 1}, Forward: Vec3{X: 1}}
	w, err := NewAgentWeapon(cfg, 7, muzzle, testPool(t))
	if err != nil {
		t.Fatalf("NewAgentWeapon: %v", err)
	}
	return w
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// The cooldown gate blocks a second shot until the full cooldown elapses.
func TestWeaponCooldownGate(t *testing.T) {
	cfg := DefaultWeaponConfig()
	cfg.FireCooldownSeconds = 1
	w := newTestAgentWeapon(t, cfg)

	if _, ok := w.TryFire(0); !ok {
		t.Fatalf("first shot at t=0 should fire")
	}
	if w.CanFire(0.5) {
		t.Fatalf("shot inside cooldown should be refused")
	}
	if w.CanFire(0.999) {
		t.Fatalf("shot just before cooldown expiry should be refused")
	}
	if !w.CanFire(1.0) {
		t.Fatalf("shot at exactly the cooldown should be allowed")
	}
	if w.LastFiredAt() != 0 {
		t.Fatalf("expected lastFiredAt 0, got %v", w.LastFiredAt())
	}
}

// Ammo never drops below zero, even when Fire is called without the gates.
func TestWeaponAmmoFloor(t *testing.T) {
	cfg := DefaultWeaponConfig()
	cfg.MaxAmmo = 1
	w := newTestAgentWeapon(t, cfg)

	if _, ok := w.TryFire(0); !ok {
		t.Fatalf("expected shot with one round loaded")
	}
	if w.Ammo().Current != 0 {
		t.Fatalf("expected empty magazine, got %d", w.Ammo().Current)
	}
	if w.CanFire(10) {
		t.Fatalf("empty weapon must not fire")
	}
	w.Fire(20)
	if w.Ammo().Current != 0 {
		t.Fatalf("ammo went below zero: %d", w.Ammo().Current)
	}
}

// Infinite ammo never decrements.
func TestWeaponInfiniteAmmo(t *testing.T) {
	cfg := DefaultWeaponConfig()
	cfg.InfiniteAmmo = true
	cfg.MaxAmmo = 0
	w := newTestAgentWeapon(t, cfg)

	for i := 0; i < 5; i++ {
		if _, ok := w.TryFire(float64(i) * cfg.FireCooldownSeconds); !ok {
			t.Fatalf("shot %d refused with infinite ammo", i)
		}
	}
	if w.Ammo().Current != 0 || !w.Ammo().Infinite {
		t.Fatalf("infinite ammo state changed: %+v", w.Ammo())
	}
}

// Agent shots travel down the muzzle forward at muzzle speed and carry the
// configured damage and owner.
func TestAgentWeaponProjectile(t *testing.T) {
	cfg := DefaultWeaponConfig()
	cfg.MuzzleSpeed = 12
	cfg.DamagePerHit = 7
	w := newTestAgentWeapon(t, cfg)

	p, ok := w.TryFire(2.5)
	if !ok {
		t.Fatalf("expected shot")
	}
	if p.Vel != (Vec3{X: 12}) {
		t.Fatalf("unexpected velocity %+v", p.Vel)
	}
	if p.Pos != (Vec3{Y: 1}) {
		t.Fatalf("projectile should start at the muzzle, got %+v", p.Pos)
	}
	if p.PendingDamage != 7 || p.Owner != 7 || p.OwnerKind != OwnerAgent || p.LaunchedAt != 2.5 {
		t.Fatalf("projectile not stamped: %+v", p)
	}
}

// Player shots converge on the view ray hit point.
func TestPlayerWeaponAimsAtViewHit(t *testing.T) {
	muzzle := fixedMuzzle{Pos: Vec3{X: 0.5, Y: 1.4}, Forward: Vec3{Z: 1}}
	view := fixedView{Origin: Vec3{Y: 1.6}, Dir: Vec3{Z: 1}}
	world := fixedWorld{hit: Vec3{X: 0.5, Y: 1.4, Z: 10}, ok: true}
	w, err := NewPlayerWeapon(DefaultWeaponConfig(), 1, muzzle, testPool(t), view, world)
	if err != nil {
		t.Fatalf("NewPlayerWeapon: %v", err)
	}

	p, ok := w.TryFire(0)
	if !ok {
		t.Fatalf("expected shot")
	}
	if !approx(p.Vel.X, 0) || !approx(p.Vel.Y, 0) || !approx(p.Vel.Z, 20) {
		t.Fatalf("expected velocity straight at the hit point, got %+v", p.Vel)
	}
}

// Without a world hit the player aims at a point a fixed distance down the
// view ray.
func TestPlayerWeaponAimFallback(t *testing.T) {
	muzzle := fixedMuzzle{Pos: Vec3{Y: 1.6, Z: 1}, Forward: Vec3{Z: 1}}
	view := fixedView{Origin: Vec3{Y: 1.6}, Dir: Vec3{Z: 2}}
	w, err := NewPlayerWeapon(DefaultWeaponConfig(), 1, muzzle, testPool(t), view, fixedWorld{})
	if err != nil {
		t.Fatalf("NewPlayerWeapon: %v", err)
	}
	p, _ := w.TryFire(0)
	dir := p.Vel.Normalize()
	if !approx(dir.Z, 1) {
		t.Fatalf("expected aim along the view ray, got %+v", dir)
	}
}

func TestPlayerWeaponRequiresView(t *testing.T) {
	muzzle := fixedMuzzle{Forward: Vec3{Z: 1}}
	if _, err := NewPlayerWeapon(DefaultWeaponConfig(), 1, muzzle, testPool(t), nil, nil); err == nil {
		t.Fatalf("expected error without a view provider")
	}
}

// Replenish clamps to the magazine and ignores bad amounts.
func TestWeaponReplenish(t *testing.T) {
	cfg := DefaultWeaponConfig()
	cfg.MaxAmmo = 3
	w := newTestAgentWeapon(t, cfg)
	w.TryFire(0)
	w.TryFire(1)

	if got := w.Replenish(0); got != 0 {
		t.Fatalf("zero replenish added %d", got)
	}
	if got := w.Replenish(-4); got != 0 {
		t.Fatalf("negative replenish added %d", got)
	}
	if got := w.Replenish(10); got != 2 {
		t.Fatalf("expected 2 rounds added, got %d", got)
	}
	if w.Ammo().Current != 3 {
		t.Fatalf("expected full magazine, got %d", w.Ammo().Current)
	}
}

func TestWeaponConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*WeaponConfig)
		want   error
	}{
		{"zero cooldown", func(c *WeaponConfig) { c.FireCooldownSeconds = 0 }, ErrInvalidCooldown},
		{"nan cooldown", func(c *WeaponConfig) { c.FireCooldownSeconds = math.NaN() }, ErrInvalidCooldown},
		{"no ammo", func(c *WeaponConfig) { c.MaxAmmo = 0 }, ErrInvalidAmmo},
		{"no speed", func(c *WeaponConfig) { c.MuzzleSpeed = 0 }, ErrInvalidMuzzleSpeed},
		{"negative damage", func(c *WeaponConfig) { c.DamagePerHit = -1 }, ErrInvalidDamage},
	}
	for _, tc := range cases {
		cfg := DefaultWeaponConfig()
		tc.mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
	if err := DefaultWeaponConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}
