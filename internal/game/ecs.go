package game

import "sort"

type EntityID int64

type ComponentKey string

type World struct {
	nextEntity EntityID
	components map[ComponentKey]map[EntityID]any
}

const (
	CompAgent  ComponentKey = "agent"
	CompPlayer ComponentKey = "player"
	CompNav    ComponentKey = "nav"
	CompHealth ComponentKey = "health"
	CompWeapon ComponentKey = "weapon"
	CompBody   ComponentKey = "body"
)

// Body is the collision capsule of an entity: a vertical cylinder standing on
// the entity's position.
type Body struct {
	Radius float64
	Height float64
}

// stepper is a navigator the arena moves once per tick.
type stepper interface {
	Step(dt float64)
}

func (w *World) Agent(id EntityID) *Agent {
	if v, ok := w.GetComponent(id, CompAgent); ok {
		if t, ok := v.(*Agent); ok {
			return t
		}
	}
	return nil
}

func (w *World) Player(id EntityID) *Player {
	if v, ok := w.GetComponent(id, CompPlayer); ok {
		if t, ok := v.(*Player); ok {
			return t
		}
	}
	return nil
}

func (w *World) Nav(id EntityID) stepper {
	if v, ok := w.GetComponent(id, CompNav); ok {
		if t, ok := v.(stepper); ok {
			return t
		}
	}
	return nil
}

func (w *World) Health(id EntityID) *HealthTracker {
	if v, ok := w.GetComponent(id, CompHealth); ok {
		if t, ok := v.(*HealthTracker); ok {
			return t
		}
	}
	return nil
}

func (w *World) Weapon(id EntityID) *WeaponUnit {
	if v, ok := w.GetComponent(id, CompWeapon); ok {
		if t, ok := v.(*WeaponUnit); ok {
			return t
		}
	}
	return nil
}

func (w *World) Body(id EntityID) *Body {
	if v, ok := w.GetComponent(id, CompBody); ok {
		if t, ok := v.(*Body); ok {
			return t
		}
	}
	return nil
}

func NewWorld() *World {
	return &World{
		nextEntity: 0,
		components: make(map[ComponentKey]map[EntityID]any),
	}
}

func (w *World) NewEntity() EntityID {
	w.nextEntity++
	return w.nextEntity
}

func (w *World) SetComponent(id EntityID, key ComponentKey, value any) {
	store, ok := w.components[key]
	if !ok {
		store = make(map[EntityID]any)
		w.components[key] = store
	}
	store[id] = value
}

func (w *World) GetComponent(id EntityID, key ComponentKey) (any, bool) {
	if store, ok := w.components[key]; ok {
		val, ok := store[id]
		return val, ok
	}
	return nil, false
}

func (w *World) HasComponent(id EntityID, key ComponentKey) bool {
	if store, ok := w.components[key]; ok {
		_, ok := store[id]
		return ok
	}
	return false
}

func (w *World) RemoveEntity(id EntityID) {
	for _, store := range w.components {
		delete(store, id)
	}
}

// Entities lists, in ascending id order, the entities holding every required
// component. Ordering keeps ticks reproducible.
func (w *World) Entities(required ...ComponentKey) []EntityID {
	if len(required) == 0 {
		return nil
	}
	first := w.components[required[0]]
	if first == nil {
		return nil
	}
	ids := make([]EntityID, 0, len(first))
	for id := range first {
		match := true
		for _, key := range required[1:] {
			if !w.HasComponent(id, key) {
				match = false
				break
			}
		}
		if match {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (w *World) ForEach(required []ComponentKey, fn func(EntityID)) {
	for _, id := range w.Entities(required...) {
		fn(id)
	}
}

func (w *World) Exists(id EntityID) bool {
	for _, store := range w.components {
		if _, ok := store[id]; ok {
			return true
		}
	}
	return false
}
