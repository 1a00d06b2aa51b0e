package game

import "fmt"

// HealthTracker accumulates damage. Reaching zero is terminal: the destroy
// callback runs exactly once and later damage is ignored.
type HealthTracker struct {
	current     int
	max         int
	destroyed   bool
	onDestroyed func()
}

func NewHealthTracker(max int, onDestroyed func()) (*HealthTracker, error) {
	if max <= 0 {
		return nil, fmt.Errorf("max health %d: %w", max, ErrInvalidHealth)
	}
	return &HealthTracker{current: max, max: max, onDestroyed: onDestroyed}, nil
}

// ApplyDamage subtracts amount and reports whether this call destroyed the
// owner. Non-positive amounts never heal.
func (h *HealthTracker) ApplyDamage(amount int) bool {
	if h.destroyed || amount <= 0 {
		return false
	}
	h.current -= amount
	if h.current > 0 {
		return false
	}
	h.current = 0
	h.destroyed = true
	if h.onDestroyed != nil {
		h.onDestroyed()
	}
	return true
}

func (h *HealthTracker) Current() int    { return h.current }
func (h *HealthTracker) Max() int        { return h.max }
func (h *HealthTracker) Destroyed() bool { return h.destroyed }
