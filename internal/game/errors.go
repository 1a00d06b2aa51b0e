package game

import "errors"

var (
	ErrEmptyPatrolRoute   = errors.New("patrol route has no waypoints")
	ErrInvalidCooldown    = errors.New("fire cooldown must be positive")
	ErrInvalidAmmo        = errors.New("max ammo must be positive unless ammo is infinite")
	ErrInvalidMuzzleSpeed = errors.New("muzzle speed must be positive")
	ErrInvalidDamage      = errors.New("damage per hit must not be negative")
	ErrInvalidHealth      = errors.New("max health must be positive")
	ErrInvalidPoolSize    = errors.New("pool initial count must not be negative")
	ErrNoPlayer           = errors.New("arena has no player")
)
