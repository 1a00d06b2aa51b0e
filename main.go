package main

import (
	"context"
	"flag"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"SentryArena/internal/server"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on (e.g., 127.0.0.1:8080)")
	scenarioPath := flag.String("scenario", "configs/arena.yaml", "path to the arena scenario YAML")
	recordPath := flag.String("record", "", "write a msgpack recording of every tick to this path")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	hz := flag.Float64("hz", 10, "wall-clock ticks per second; simulation time always advances 0.1s per tick")
	sendHz := flag.Float64("send-hz", 10, "state frames per second per websocket client")
	agentCooldown := flag.Float64("agent-cooldown", math.NaN(), "override agent fire cooldown in seconds")
	agentAmmo := flag.Int("agent-ammo", -1, "override agent magazine size")
	agentDamage := flag.Int("agent-damage", -1, "override agent damage per hit")
	agentInfinite := flag.Bool("agent-infinite-ammo", false, "give every agent infinite ammo")
	projectileLifetime := flag.Float64("projectile-lifetime", math.NaN(), "override projectile lifetime in seconds")
	playerHealth := flag.Int("player-health", -1, "override player max health")
	sharedPool := flag.Bool("shared-pool", false, "draw agent and player projectiles from one pool")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "sentry"})
	if level, err := log.ParseLevel(*logLevel); err != nil {
		logger.Warn("unknown log level", "level", *logLevel)
	} else {
		logger.SetLevel(level)
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := server.DefaultAppConfig()
	cfg.Addr = *addr
	cfg.ScenarioPath = *scenarioPath
	cfg.RecordPath = *recordPath
	cfg.TickHz = *hz
	cfg.SendHz = *sendHz

	var overrides server.ScenarioOverrides
	if !math.IsNaN(*agentCooldown) {
		val := *agentCooldown
		overrides.AgentCooldown = &val
	}
	if *agentAmmo >= 0 {
		val := *agentAmmo
		overrides.AgentMaxAmmo = &val
	}
	if *agentDamage >= 0 {
		val := *agentDamage
		overrides.AgentDamage = &val
	}
	if set["agent-infinite-ammo"] {
		val := *agentInfinite
		overrides.AgentInfiniteAmmo = &val
	}
	if !math.IsNaN(*projectileLifetime) {
		val := *projectileLifetime
		overrides.ProjectileLifetime = &val
	}
	if *playerHealth > 0 {
		val := *playerHealth
		overrides.PlayerMaxHealth = &val
	}
	if set["shared-pool"] {
		val := *sharedPool
		overrides.SharedPool = &val
	}
	cfg.Overrides = overrides

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.StartApp(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}
