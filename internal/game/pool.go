package game

import "fmt"

// PoolHandle indexes an instance inside a Pool. Handles stay valid for the
// lifetime of the pool because instances are never removed.
type PoolHandle int

// Pool recycles instances of T. Availability is tracked by the active flag of
// each slot and a free list of inactive handles, so Acquire and Release are
// O(1) regardless of how far the pool has grown.
type Pool[T any] struct {
	items  []T
	active []bool
	free   []PoolHandle
	newFn  func(PoolHandle) T
}

func NewPool[T any](initial int, newFn func(PoolHandle) T) (*Pool[T], error) {
	if initial < 0 {
		return nil, fmt.Errorf("pool initial count %d: %w", initial, ErrInvalidPoolSize)
	}
	if newFn == nil {
		return nil, fmt.Errorf("pool constructor missing: %w", ErrInvalidPoolSize)
	}
	p := &Pool[T]{
		items:  make([]T, 0, initial),
		active: make([]bool, 0, initial),
		free:   make([]PoolHandle, 0, initial),
		newFn:  newFn,
	}
	for i := 0; i < initial; i++ {
		h := p.grow()
		p.free = append(p.free, h)
	}
	// Hand out the lowest handles first.
	for i, j := 0, len(p.free)-1; i < j; i, j = i+1, j-1 {
		p.free[i], p.free[j] = p.free[j], p.free[i]
	}
	return p, nil
}

func (p *Pool[T]) grow() PoolHandle {
	h := PoolHandle(len(p.items))
	p.items = append(p.items, p.newFn(h))
	p.active = append(p.active, false)
	return h
}

// Acquire returns an inactive instance marked active, creating exactly one new
// instance when none is available. The instance is returned as the previous
// user left it; callers set position, velocity and damage themselves.
func (p *Pool[T]) Acquire() (PoolHandle, T) {
	var h PoolHandle
	if n := len(p.free); n > 0 {
		h = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		h = p.grow()
	}
	p.active[h] = true
	return h, p.items[h]
}

// Release returns the instance to the available set. Releasing an inactive or
// unknown handle does nothing and reports false.
func (p *Pool[T]) Release(h PoolHandle) bool {
	if !p.valid(h) || !p.active[h] {
		return false
	}
	p.active[h] = false
	p.free = append(p.free, h)
	return true
}

func (p *Pool[T]) valid(h PoolHandle) bool {
	return h >= 0 && int(h) < len(p.items)
}

func (p *Pool[T]) Get(h PoolHandle) (T, bool) {
	if !p.valid(h) {
		var zero T
		return zero, false
	}
	return p.items[h], true
}

func (p *Pool[T]) IsActive(h PoolHandle) bool {
	return p.valid(h) && p.active[h]
}

// Size is the total number of instances ever created.
func (p *Pool[T]) Size() int { return len(p.items) }

func (p *Pool[T]) ActiveCount() int { return len(p.items) - len(p.free) }

// ForEachActive visits active instances in handle order. fn may release the
// visited handle.
func (p *Pool[T]) ForEachActive(fn func(PoolHandle, T)) {
	for i := range p.items {
		if p.active[i] {
			fn(PoolHandle(i), p.items[i])
		}
	}
}
