package server

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"SentryArena/internal/replay"
	"SentryArena/internal/scenario"
)

func TestLoadScenarioFallsBack(t *testing.T) {
	s, err := loadScenario("")
	if err != nil || s.Name != "default" {
		t.Fatalf("empty path should give the default scenario, got %v err=%v", s.Name, err)
	}
	s, err = loadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil || s.Name != "default" {
		t.Fatalf("missing file should give the default scenario, got %v err=%v", s.Name, err)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("arena: [1, 2"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err = loadScenario(bad)
	if err == nil || s == nil {
		t.Fatalf("malformed file should report an error with a fallback")
	}
}

// Flag overrides replace per-agent weapon settings as well as the shared
// block.
func TestScenarioOverrides(t *testing.T) {
	cooldown := 2.0
	ammo := 3
	shared := true
	s := scenario.Default()
	err := applyScenarioOverrides(s, ScenarioOverrides{
		AgentCooldown: &cooldown,
		AgentMaxAmmo:  &ammo,
		SharedPool:    &shared,
	})
	if err != nil {
		t.Fatalf("applyScenarioOverrides: %v", err)
	}
	arena, err := s.Build(log.New(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, a := range arena.Agents() {
		if a.Weapon.Cooldown() != 2 || a.Weapon.Ammo().Max != 3 {
			t.Fatalf("agent %s kept its own weapon: cooldown=%v ammo=%d", a.Name, a.Weapon.Cooldown(), a.Weapon.Ammo().Max)
		}
	}
	if !s.Pools.Shared {
		t.Fatalf("shared pool override not applied")
	}

	bad := -1.0
	if err := applyScenarioOverrides(scenario.Default(), ScenarioOverrides{AgentCooldown: &bad}); err == nil {
		t.Fatalf("invalid override should be rejected")
	}
}

func TestSanitizeTickHz(t *testing.T) {
	if got := sanitizeTickHz(0); got != 10 {
		t.Fatalf("expected default 10, got %v", got)
	}
	if got := sanitizeTickHz(1000); got != 240 {
		t.Fatalf("expected clamp to 240, got %v", got)
	}
}

// The host records one frame per step once a recorder is attached.
func TestHostRecords(t *testing.T) {
	host := newTestHost(t)
	var buf bytes.Buffer
	rec := replay.NewRecorder(&buf)
	host.SetRecorder(rec)
	for i := 0; i < 5; i++ {
		host.Step()
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	frames, err := replay.ReadAll(&buf)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(frames) != 5 || frames[4].Tick != 5 {
		t.Fatalf("expected 5 frames ending at tick 5, got %d", len(frames))
	}
}

// Stopping the tick loop waits for the running Step, so the recorder can be
// closed without losing or rejecting frames.
func TestHostStopBeforeRecorderClose(t *testing.T) {
	host := newTestHost(t)
	var buf bytes.Buffer
	rec := replay.NewRecorder(&buf)
	host.SetRecorder(rec)

	stop := host.Start(context.Background(), 200)
	deadline := time.Now().Add(3 * time.Second)
	for rec.Frames() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	stop()
	recorded := rec.Frames()
	if recorded < 3 {
		t.Fatalf("expected the loop to record frames, got %d", recorded)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if rec.Frames() != recorded {
		t.Fatalf("frames recorded after stop: %d -> %d", recorded, rec.Frames())
	}
	frames, err := replay.ReadAll(&buf)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(frames) != recorded {
		t.Fatalf("expected %d flushed frames, got %d", recorded, len(frames))
	}
}
