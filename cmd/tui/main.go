package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"SentryArena/internal/game"
	"SentryArena/internal/replay"
	"SentryArena/internal/scenario"
	"SentryArena/internal/viewer"
)

const (
	moveStep = 1.0
	turnStep = math.Pi / 12
	refill   = 30
)

type session struct {
	arena    *game.Arena
	screen   tcell.Screen
	recorder *replay.Recorder
	log      *log.Logger
}

func main() {
	scenarioPath := flag.String("scenario", "", "path to an arena scenario YAML (built-in arena when empty)")
	recordPath := flag.String("record", "", "write a msgpack recording of the session to this path")
	logPath := flag.String("log", "", "write logs to this file instead of discarding them")
	flag.Parse()

	logger := log.NewWithOptions(io.Discard, log.Options{Prefix: "tui"})
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "tui", Level: log.DebugLevel})
	}

	sc := scenario.Default()
	if *scenarioPath != "" {
		loaded, err := scenario.Load(*scenarioPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		sc = loaded
	}
	arena, err := sc.Build(logger.WithPrefix("arena"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "build arena: %v\n", err)
		os.Exit(1)
	}

	s := &session{arena: arena, log: logger}
	if *recordPath != "" {
		rec, err := replay.Create(*recordPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		s.recorder = rec
		defer func() {
			if err := rec.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "close recording: %v\n", err)
			}
		}()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "screen init: %v\n", err)
		os.Exit(1)
	}
	s.screen = screen
	defer screen.Fini()

	s.run()
	logger.Info("session ended", "ticks", arena.Ticks(), "score", arena.Score)
}

// run drives the arena at the simulation rate and applies key input between
// ticks. It returns when the player quits.
func (s *session) run() {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(time.Duration(float64(time.Second) * game.Dt))
	defer ticker.Stop()

	s.draw()
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				s.screen.Sync()
				s.draw()
			case *tcell.EventKey:
				if !s.handleKey(ev) {
					return
				}
			}
		case <-ticker.C:
			s.step()
			s.draw()
		}
	}
}

func (s *session) step() {
	s.arena.Tick()
	if s.recorder == nil {
		return
	}
	frame := replay.FrameFrom(s.arena.Snapshot(), s.arena.Journal.Drain())
	if err := s.recorder.Record(frame); err != nil {
		s.log.Error("record frame", "tick", frame.Tick, "err", err)
	}
}

func (s *session) draw() {
	viewer.Render(s.screen, s.arena.Snapshot())
	s.screen.Show()
}

// handleKey applies one key press. It reports false when the session should end.
func (s *session) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		s.move(0, moveStep)
	case tcell.KeyDown:
		s.move(0, -moveStep)
	case tcell.KeyLeft:
		s.move(-moveStep, 0)
	case tcell.KeyRight:
		s.move(moveStep, 0)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w':
			s.move(0, moveStep)
		case 's':
			s.move(0, -moveStep)
		case 'a':
			s.move(-moveStep, 0)
		case 'd':
			s.move(moveStep, 0)
		case 'q':
			s.turn(turnStep)
		case 'e':
			s.turn(-turnStep)
		case ' ':
			if _, err := s.arena.PlayerFire(); err != nil {
				s.log.Debug("fire", "err", err)
			}
		case 'r':
			if added, err := s.arena.ReplenishPlayer(refill); err == nil {
				s.log.Debug("replenish", "added", added)
			}
		}
	}
	return true
}

func (s *session) move(dx, dz float64) {
	p := s.arena.Player()
	if p == nil {
		return
	}
	target := p.Transform.Pos.Add(game.Vec3{X: dx, Z: dz})
	if err := s.arena.MovePlayer(target); err != nil {
		s.log.Debug("move refused", "err", err)
	}
}

// turn rotates the look direction counter-clockwise in the ground plane.
func (s *session) turn(angle float64) {
	p := s.arena.Player()
	if p == nil {
		return
	}
	f := p.Transform.Forward
	sin, cos := math.Sincos(angle)
	dir := game.Vec3{X: f.X*cos - f.Z*sin, Y: f.Y, Z: f.X*sin + f.Z*cos}
	_ = s.arena.LookPlayer(dir)
}

