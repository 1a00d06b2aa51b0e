package server

import (
	"errors"
	"fmt"
	"os"

	"SentryArena/internal/game"
	"SentryArena/internal/scenario"
)

// ScenarioOverrides represents optional command-line overrides applied on
// top of the loaded scenario.
type ScenarioOverrides struct {
	AgentCooldown      *float64
	AgentMaxAmmo       *int
	AgentDamage        *int
	AgentInfiniteAmmo  *bool
	ProjectileLifetime *float64
	PlayerMaxHealth    *int
	SharedPool         *bool
}

func (o ScenarioOverrides) apply(s *scenario.Scenario) {
	if o.AgentCooldown != nil || o.AgentMaxAmmo != nil || o.AgentDamage != nil || o.AgentInfiniteAmmo != nil {
		if s.AgentWeapon == nil {
			s.AgentWeapon = &scenario.WeaponSpec{}
		}
		w := s.AgentWeapon
		if o.AgentCooldown != nil {
			w.FireCooldownSeconds = o.AgentCooldown
		}
		if o.AgentMaxAmmo != nil {
			w.MaxAmmo = o.AgentMaxAmmo
		}
		if o.AgentDamage != nil {
			w.DamagePerHit = o.AgentDamage
		}
		if o.AgentInfiniteAmmo != nil {
			w.InfiniteAmmo = o.AgentInfiniteAmmo
		}
		// Per-agent weapon blocks would otherwise shadow the overrides.
		for i := range s.Agents {
			if aw := s.Agents[i].Weapon; aw != nil {
				if o.AgentCooldown != nil {
					aw.FireCooldownSeconds = nil
				}
				if o.AgentMaxAmmo != nil {
					aw.MaxAmmo = nil
				}
				if o.AgentDamage != nil {
					aw.DamagePerHit = nil
				}
				if o.AgentInfiniteAmmo != nil {
					aw.InfiniteAmmo = nil
				}
			}
		}
	}
	if o.ProjectileLifetime != nil {
		s.ProjectileLifetime = *o.ProjectileLifetime
	}
	if o.PlayerMaxHealth != nil && s.Player != nil {
		s.Player.MaxHealth = *o.PlayerMaxHealth
	}
	if o.SharedPool != nil {
		s.Pools.Shared = *o.SharedPool
	}
}

// loadScenario reads path, falling back to the built-in arena when no path
// is given or the file does not exist. Any other failure is returned along
// with the fallback so the caller can decide.
func loadScenario(path string) (*scenario.Scenario, error) {
	if path == "" {
		return scenario.Default(), nil
	}
	s, err := scenario.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return scenario.Default(), nil
		}
		return scenario.Default(), err
	}
	return s, nil
}

func applyScenarioOverrides(s *scenario.Scenario, overrides ScenarioOverrides) error {
	overrides.apply(s)
	if err := s.Validate(); err != nil {
		return fmt.Errorf("scenario overrides: %w", err)
	}
	return nil
}

func sanitizeTickHz(hz float64) float64 {
	if !(hz > 0) {
		return game.SimHz
	}
	return game.Clamp(hz, 1, 240)
}
