package server

import (
	"google.golang.org/protobuf/types/known/structpb"

	"SentryArena/internal/game"
)

func vecToList(v game.Vec3) []any {
	return []any{v.X, v.Y, v.Z}
}

func ammoToMap(a game.AmmoState) map[string]any {
	return map[string]any{
		"current":  a.Current,
		"max":      a.Max,
		"infinite": a.Infinite,
	}
}

// helloToProto carries the static arena layout, sent once per connection.
func helloToProto(snap game.Snapshot) (*structpb.Struct, error) {
	obstacles := make([]any, 0, len(snap.Obstacles))
	for _, o := range snap.Obstacles {
		obstacles = append(obstacles, map[string]any{
			"min":    []any{o.Footprint.Min.X(), o.Footprint.Min.Y()},
			"max":    []any{o.Footprint.Max.X(), o.Footprint.Max.Y()},
			"height": o.Height,
		})
	}
	return structpb.NewStruct(map[string]any{
		"type": "hello",
		"dt":   game.Dt,
		"bounds": map[string]any{
			"min": []any{snap.Bounds.Min.X(), snap.Bounds.Min.Y()},
			"max": []any{snap.Bounds.Max.X(), snap.Bounds.Max.Y()},
		},
		"obstacles": obstacles,
	})
}

func stateToProto(snap game.Snapshot, events []game.Event) (*structpb.Struct, error) {
	agents := make([]any, 0, len(snap.Agents))
	for _, a := range snap.Agents {
		agents = append(agents, map[string]any{
			"id":        int64(a.ID),
			"name":      a.Name,
			"pos":       vecToList(a.Pos),
			"forward":   vecToList(a.Forward),
			"state":     a.State.String(),
			"health":    a.Health,
			"maxHealth": a.MaxHealth,
			"ammo":      ammoToMap(a.Ammo),
			"waypoint":  a.Waypoint,
		})
	}
	projectiles := make([]any, 0, len(snap.Projectiles))
	for _, p := range snap.Projectiles {
		projectiles = append(projectiles, map[string]any{
			"id":    p.ID,
			"pos":   vecToList(p.Pos),
			"vel":   vecToList(p.Vel),
			"owner": p.OwnerKind.String(),
		})
	}
	evs := make([]any, 0, len(events))
	for _, e := range events {
		evs = append(evs, map[string]any{
			"t":      e.T,
			"tick":   e.Tick,
			"kind":   string(e.Kind),
			"entity": int64(e.Entity),
			"other":  int64(e.Other),
			"amount": e.Amount,
			"detail": e.Detail,
		})
	}
	var player any
	if p := snap.Player; p != nil {
		player = map[string]any{
			"id":        int64(p.ID),
			"pos":       vecToList(p.Pos),
			"forward":   vecToList(p.Forward),
			"health":    p.Health,
			"maxHealth": p.MaxHealth,
			"ammo":      ammoToMap(p.Ammo),
		}
	}
	return structpb.NewStruct(map[string]any{
		"type":        "state",
		"tick":        snap.Tick,
		"now":         snap.Now,
		"score":       snap.Score,
		"agents":      agents,
		"player":      player,
		"projectiles": projectiles,
		"events":      evs,
		"pools": map[string]any{
			"agentSize":    snap.Pools.AgentSize,
			"agentActive":  snap.Pools.AgentActive,
			"playerSize":   snap.Pools.PlayerSize,
			"playerActive": snap.Pools.PlayerActive,
		},
	})
}
