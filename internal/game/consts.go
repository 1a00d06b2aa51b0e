package game

const (
	SimHz = 10.0 // simulation tick rate
	Dt    = 1.0 / SimHz

	DetectRange             = 10.0 // line-of-sight detection radius
	EngageRange             = 7.0  // weapon release radius
	HoldRange               = 5.0  // agents stop closing inside this radius
	ChaseStoppingDistance   = 3.0
	PatrolRepathDistance    = 3.0 // pick the next patrol point under this remaining distance
	WaypointReachedDistance = 0.5
	PlayerAimFallback       = 5.0 // aim point distance when the view ray hits nothing

	AgentSpeed        = 3.5
	AgentRadius       = 0.5
	AgentEyeHeight    = 1.0
	PlayerRadius      = 0.5
	PlayerEyeHeight   = 1.6
	MuzzleForward     = 0.6
	ProjectileRadius  = 0.1
	ProjectileLifeS   = 3.0
	JournalCapacity   = 1024
	DefaultPoolSize   = 16
	ArenaDefaultW     = 60.0
	ArenaDefaultD     = 40.0
	ObstacleDefaultH  = 3.0
	navArrivalEpsilon = 1e-3
)
