package game

import "math"

func updateNavigators(a *Arena, dt float64) {
	world := a.World
	world.ForEach([]ComponentKey{CompNav}, func(id EntityID) {
		if nav := world.Nav(id); nav != nil {
			nav.Step(dt)
		}
	})
}

// bodyPosition is where an entity's collision cylinder stands.
func bodyPosition(world *World, id EntityID) (Vec3, bool) {
	if agent := world.Agent(id); agent != nil {
		return agent.Nav.Transform().Pos, true
	}
	if p := world.Player(id); p != nil {
		return p.Transform.Pos, true
	}
	return Vec3{}, false
}

// sweepBody returns the fraction of from->to at which a sphere of radius r
// first touches the body's vertical cylinder.
func sweepBody(from, to, base Vec3, body *Body, r float64) (float64, bool) {
	d := to.Sub(from).Flat()
	f := from.Sub(base).Flat()
	reach := body.Radius + r
	c := f.Dot(f) - reach*reach
	t := 0.0
	if c > 0 {
		qa := d.Dot(d)
		if qa < 1e-12 {
			return 0, false
		}
		qb := 2 * f.Dot(d)
		disc := qb*qb - 4*qa*c
		if disc < 0 {
			return 0, false
		}
		t = (-qb - math.Sqrt(disc)) / (2 * qa)
		if t < 0 || t > 1 {
			return 0, false
		}
	}
	y := from.Y + (to.Y-from.Y)*t
	if y < base.Y-r || y > base.Y+body.Height+r {
		return 0, false
	}
	return t, true
}

// bodyRaycaster is the player's view of the world: static geometry plus the
// bodies of every other entity.
type bodyRaycaster struct {
	arena *Arena
	self  EntityID
}

func (r bodyRaycaster) Raycast(ray Ray) (Vec3, bool) {
	dir := ray.Dir.Normalize()
	if dir.Len() == 0 {
		return Vec3{}, false
	}
	geo := r.arena.Geometry
	hit, ok := geo.Raycast(ray)
	span := Vec3{X: geo.Bounds.Max.X() - geo.Bounds.Min.X(), Z: geo.Bounds.Max.Y() - geo.Bounds.Min.Y()}
	reach := span.Len()
	if ok {
		reach = hit.Sub(ray.Origin).Len()
	}
	end := ray.Origin.Add(dir.Scale(reach))

	best, found := 1.0, false
	world := r.arena.World
	world.ForEach([]ComponentKey{CompBody}, func(id EntityID) {
		if id == r.self {
			return
		}
		base, ok := bodyPosition(world, id)
		if !ok {
			return
		}
		if t, ok := sweepBody(ray.Origin, end, base, world.Body(id), 0); ok && t < best {
			best, found = t, true
		}
	})
	if found {
		return ray.Origin.Add(end.Sub(ray.Origin).Scale(best)), true
	}
	return hit, ok
}

func updateProjectiles(a *Arena, dt float64) {
	for _, pool := range a.poolList {
		pool.ForEachActive(func(_ PoolHandle, p *Projectile) {
			stepProjectile(a, pool, p, dt)
		})
	}
}

func stepProjectile(a *Arena, pool *ProjectilePool, p *Projectile, dt float64) {
	if a.now-p.LaunchedAt >= a.lifetime {
		a.releaseProjectile(pool, p, "expired")
		return
	}
	from := p.Pos
	to := from.Add(p.Vel.Scale(dt))

	best := math.Inf(1)
	var victim EntityID
	if t, ok := a.Geometry.SweepHit(from, to); ok {
		best = t
	}
	world := a.World
	world.ForEach([]ComponentKey{CompBody, CompHealth}, func(id EntityID) {
		if id == p.Owner {
			return
		}
		base, ok := bodyPosition(world, id)
		if !ok {
			return
		}
		if t, ok := sweepBody(from, to, base, world.Body(id), ProjectileRadius); ok && t < best {
			best = t
			victim = id
		}
	})

	if !math.IsInf(best, 1) {
		p.Pos = from.Add(to.Sub(from).Scale(best))
		if victim != 0 {
			a.applyHit(p, victim)
			a.releaseProjectile(pool, p, "hit")
			return
		}
		a.releaseProjectile(pool, p, "obstacle")
		return
	}
	p.Pos = to
	if !a.Geometry.Contains(to) {
		a.releaseProjectile(pool, p, "out of bounds")
	}
}

// applyHit deals the projectile's damage. The victim's score value is read
// before damage because destruction removes the entity.
func (a *Arena) applyHit(p *Projectile, victim EntityID) {
	health := a.World.Health(victim)
	if health == nil {
		return
	}
	points := 0
	if agent := a.World.Agent(victim); agent != nil {
		points = agent.ScorePoints
	}
	a.record(EventHit, p.Owner, victim, p.PendingDamage, p.OwnerKind.String())
	if health.ApplyDamage(p.PendingDamage) && p.OwnerKind == OwnerPlayer {
		a.Score += points
	}
}

func (a *Arena) releaseProjectile(pool *ProjectilePool, p *Projectile, reason string) {
	if pool.Release(p.Handle) {
		a.record(EventReleased, 0, p.Owner, 0, reason)
	}
}
