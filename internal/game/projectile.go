package game

import uuid "github.com/satori/go.uuid"

// Projectile is a pooled shot. Its fields are stale between uses: Fire sets
// position, facing, velocity and pending damage every time it is acquired.
type Projectile struct {
	ID            uuid.UUID
	Handle        PoolHandle
	Pos           Vec3
	Vel           Vec3
	Forward       Vec3
	PendingDamage int
	Owner         EntityID
	OwnerKind     OwnerKind
	LaunchedAt    float64
}

type ProjectilePool = Pool[*Projectile]

type PoolConfig struct {
	InitialInstanceCount int
}

func NewProjectilePool(cfg PoolConfig) (*ProjectilePool, error) {
	return NewPool(cfg.InitialInstanceCount, func(h PoolHandle) *Projectile {
		return &Projectile{ID: uuid.NewV4(), Handle: h}
	})
}
