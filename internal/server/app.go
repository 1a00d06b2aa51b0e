package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"SentryArena/internal/replay"
	"SentryArena/internal/scenario"
)

type AppConfig struct {
	Addr         string
	ScenarioPath string
	RecordPath   string
	TickHz       float64
	SendHz       float64
	Overrides    ScenarioOverrides
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		Addr:         ":8080",
		ScenarioPath: "configs/arena.yaml",
		TickHz:       10,
		SendHz:       10,
	}
}

func resolveScenario(cfg AppConfig, logger *log.Logger) *scenario.Scenario {
	s, err := loadScenario(cfg.ScenarioPath)
	if err != nil {
		logger.Warn("scenario", "path", cfg.ScenarioPath, "err", err, "fallback", s.Name)
	}
	if err := applyScenarioOverrides(s, cfg.Overrides); err != nil {
		logger.Warn("ignoring overrides", "err", err)
		s, _ = loadScenario(cfg.ScenarioPath)
	}
	return s
}

// StartApp builds the arena, starts the tick loop and serves HTTP until ctx
// is cancelled.
func StartApp(ctx context.Context, cfg AppConfig, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}
	s := resolveScenario(cfg, logger)
	arena, err := s.Build(logger.WithPrefix("arena"))
	if err != nil {
		return fmt.Errorf("build scenario %q: %w", s.Name, err)
	}

	host := NewHost(arena, logger)
	var rec *replay.Recorder
	if cfg.RecordPath != "" {
		if rec, err = replay.Create(cfg.RecordPath); err != nil {
			return err
		}
		host.SetRecorder(rec)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stopTicks := host.Start(ctx, sanitizeTickHz(cfg.TickHz))
	// The tick loop must be gone before the recorder closes.
	defer func() {
		stopTicks()
		if rec == nil {
			return
		}
		if err := rec.Close(); err != nil {
			logger.Error("close recording", "err", err)
		}
		logger.Info("recording closed", "path", cfg.RecordPath, "frames", rec.Frames())
	}()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewMux(host, sanitizeTickHz(cfg.SendHz)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting web server", "addr", cfg.Addr, "scenario", s.Name, "agents", len(s.Agents), "hz", sanitizeTickHz(cfg.TickHz))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
