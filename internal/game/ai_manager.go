package game

func (a *Arena) updateAgents() {
	for _, id := range a.World.Entities(CompAgent) {
		agent := a.World.Agent(id)
		if agent == nil || agent.Health.Destroyed() {
			continue
		}
		before := agent.State()
		report := agent.Tick(a.now)
		if report.State != before {
			a.record(EventStateChanged, id, 0, 0, report.State.String())
			a.log.Debug("agent state", "id", id, "name", agent.Name, "state", report.State, "distance", report.Sight.Distance)
		}
		if report.Shot != nil {
			a.record(EventFired, id, 0, report.Shot.PendingDamage, OwnerAgent.String())
		}
	}
}
