package game

// Player is the externally controlled target. Input glue sets its position
// and look direction; the look direction doubles as the camera ray.
type Player struct {
	ID        EntityID
	Transform Transform
	Health    *HealthTracker
	Weapon    *WeaponUnit
}

type PlayerConfig struct {
	Spawn     Vec3
	MaxHealth int
	Weapon    WeaponConfig
}

func DefaultPlayerConfig() PlayerConfig {
	w := DefaultWeaponConfig()
	w.FireCooldownSeconds = 0.25
	w.MaxAmmo = 60
	return PlayerConfig{
		Spawn:     Vec3{X: ArenaDefaultW / 2, Z: 4},
		MaxHealth: 100,
		Weapon:    w,
	}
}

func (p *Player) eye() Vec3 { return p.Transform.Pos.Add(Vec3{Y: PlayerEyeHeight}) }

// ViewCenterRay is the ray through the middle of the player's view.
func (p *Player) ViewCenterRay() Ray {
	return Ray{Origin: p.eye(), Dir: p.Transform.Forward.Normalize()}
}

// MuzzleTransform holds the barrel slightly below and ahead of the eye.
func (p *Player) MuzzleTransform() Transform {
	fwd := p.Transform.Forward.Normalize()
	pos := p.eye().Add(fwd.Scale(MuzzleForward)).Add(Vec3{Y: -0.2})
	return Transform{Pos: pos, Forward: fwd}
}
